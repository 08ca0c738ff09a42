package murkerrs

import "fmt"

// ParseErrorKind distinguishes the malformed-syntax shapes that the
// source parser and rule parser can report.
type ParseErrorKind string

// Recognized ParseError kinds.
const (
	UnterminatedProps          ParseErrorKind = "UnterminatedProps"
	BadIndent                  ParseErrorKind = "BadIndent"
	UnknownBlockStart          ParseErrorKind = "UnknownBlockStart"
	EmptyDirectiveName         ParseErrorKind = "EmptyDirectiveName"
	TrailingGarbageAfterHeader ParseErrorKind = "TrailingGarbageAfterHeader"
)

// ParseError carries the position of a syntax error plus, where known,
// the set of tokens that would have been accepted instead.
type ParseError struct {
	File     string
	Line     int
	Column   int
	Kind     ParseErrorKind
	Expected []string
	Detail   string
}

// Error implements the error interface on ParseError.
func (e *ParseError) Error() string {
	loc := fmt.Sprintf("%d:%d", e.Line, e.Column)
	if e.File != "" {
		loc = e.File + ":" + loc
	}

	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", loc, e.Kind, e.Detail)
	}

	return fmt.Sprintf("%s: %s", loc, e.Kind)
}

// Warning reports whether this ParseError kind is recoverable: the
// parser keeps the node and continues instead of aborting.
func (e *ParseError) Warning() bool {
	return e.Kind == EmptyDirectiveName
}
