package block

import (
	"strings"

	"github.com/murkdown/murkdown/internal/murkerrs"
)

// parseHeader parses a directive or section header of the form
// "[<marker>NAME](k=\"v\" ...)" starting at the beginning of s. marker
// is '!' for a Directive or '~' for a Section. It returns the directive
// name, the parsed props (nil when the header is malformed, non-nil
// alongside an EmptyDirectiveName warning), how many bytes of s the
// header consumed, and a non-nil error on malformed syntax.
func parseHeader(s string, marker byte, pos Position) (string, *Props, int, *murkerrs.ParseError) {
	if len(s) < 2 || s[0] != '[' || s[1] != marker {
		return "", nil, 0, &murkerrs.ParseError{
			Line: pos.Line, Column: pos.Column,
			Kind: murkerrs.UnknownBlockStart, Detail: "expected [" + string(marker),
		}
	}

	i := 2
	nameStart := i

	for i < len(s) && s[i] != ']' {
		i++
	}

	if i >= len(s) {
		return "", nil, 0, &murkerrs.ParseError{
			Line: pos.Line, Column: pos.Column,
			Kind: murkerrs.UnterminatedProps, Detail: "missing closing ]",
		}
	}

	name := s[nameStart:i]
	i++ // skip ']'

	props := NewProps()

	if i < len(s) && s[i] == '(' {
		consumed, perr := parseProps(s[i:], props, pos)
		if perr != nil {
			return "", nil, 0, perr
		}

		i += consumed
	}

	rest := s[i:]
	if strings.TrimSpace(rest) != "" {
		return "", nil, 0, &murkerrs.ParseError{
			Line: pos.Line, Column: pos.Column,
			Kind: murkerrs.TrailingGarbageAfterHeader, Detail: rest,
		}
	}

	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		// EmptyDirectiveName is a warning: keep the node, empty name.
		return "", props, i, &murkerrs.ParseError{
			Line: pos.Line, Column: pos.Column, Kind: murkerrs.EmptyDirectiveName,
		}
	}

	return normalizeName(trimmedName), props, i, nil
}

// normalizeName collapses internal whitespace runs to a single space,
// preserving spaces between words per spec §3 ("SIMPLE WEBSITE").
func normalizeName(name string) string {
	fields := strings.Fields(name)
	return strings.Join(fields, " ")
}

// parseProps parses "(k=\"v\" k2=\"v2\" ...)" starting at s[0]=='(' and
// returns how many bytes were consumed (including both parens).
func parseProps(s string, props *Props, pos Position) (int, *murkerrs.ParseError) {
	i := 1 // skip '('

	for {
		for i < len(s) && s[i] == ' ' {
			i++
		}

		if i >= len(s) {
			return 0, &murkerrs.ParseError{
				Line: pos.Line, Column: pos.Column,
				Kind: murkerrs.UnterminatedProps, Detail: "missing closing )",
			}
		}

		if s[i] == ')' {
			return i + 1, nil
		}

		keyStart := i
		for i < len(s) && s[i] != '=' && s[i] != ')' && s[i] != ' ' {
			i++
		}

		key := s[keyStart:i]

		if i >= len(s) || s[i] != '=' {
			return 0, &murkerrs.ParseError{
				Line: pos.Line, Column: pos.Column,
				Kind: murkerrs.UnterminatedProps, Detail: "expected = after " + key,
			}
		}

		i++ // skip '='

		if i >= len(s) || s[i] != '"' {
			return 0, &murkerrs.ParseError{
				Line: pos.Line, Column: pos.Column,
				Kind: murkerrs.UnterminatedProps, Detail: "expected opening \" for " + key,
			}
		}

		i++ // skip opening quote

		var value strings.Builder

		closed := false

		for i < len(s) {
			c := s[i]
			if c == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '=') {
				value.WriteByte(s[i+1])
				i += 2

				continue
			}

			if c == '"' {
				closed = true
				i++

				break
			}

			value.WriteByte(c)
			i++
		}

		if !closed {
			return 0, &murkerrs.ParseError{
				Line: pos.Line, Column: pos.Column,
				Kind: murkerrs.UnterminatedProps, Detail: "missing closing \" for " + key,
			}
		}

		props.Set(key, value.String())
	}
}
