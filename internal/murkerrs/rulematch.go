package murkerrs

import "fmt"

// RuleMatchError indicates no rule in a ruleset's phase matched a
// node's ancestry path. It is only fatal in strict mode; otherwise the
// caller falls back to a passthrough emission (a <div> in HTML, the raw
// lines in Markdown).
type RuleMatchError struct {
	Path  string // the node's rendered ancestry path
	Phase string // "preprocess" or "compile"
}

func (e *RuleMatchError) Error() string {
	return fmt.Sprintf("no rule matched %s in %s phase", e.Path, e.Phase)
}
