package murkerrs

import (
	"fmt"
	"strings"
)

// UnknownReferenceError indicates a src=/ref= id that matches no
// artifact or document.
type UnknownReferenceError struct {
	ID   string
	From string // node path or document id that made the reference
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("unknown reference %q (from %s)", e.ID, e.From)
}

// ReferenceCycleError indicates a src=/ref= chain that revisits a node
// already on its own resolution path.
type ReferenceCycleError struct {
	Chain []string // ids visited, in order, ending with the repeated id
}

func (e *ReferenceCycleError) Error() string {
	return fmt.Sprintf("reference cycle: %s", strings.Join(e.Chain, " -> "))
}

// MediaTypeMismatchError indicates a reference resolved to an artifact
// whose media type the referencing ruleset cannot consume.
type MediaTypeMismatchError struct {
	ID   string
	Want string
	Got  string
}

func (e *MediaTypeMismatchError) Error() string {
	return fmt.Sprintf(
		"reference %q produced media type %q, want %q",
		e.ID, e.Got, e.Want,
	)
}
