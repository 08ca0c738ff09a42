package engine

import (
	"fmt"
	"html"
	"strings"

	"github.com/murkdown/murkdown/internal/block"
)

// Emitter supplies the media-type-specific bits of compilation: how
// to escape interpolated text, and how to render a directive the
// active ruleset has no rule for. Murkdown's own bundled rulesets
// cover every directive they define, so passthrough only fires for a
// ruleset under active development or a typo'd directive name.
type Emitter interface {
	MediaType() string
	Escape(s string) string
	PassthroughOpen(name string, props *block.Props) string
	PassthroughClose(name string) string
}

// HTMLEmitter renders output for rulesets declaring "PRODUCE html".
// Escaping uses the standard library's html.EscapeString: no example
// in the retrieval pack implements fragment-level (non-template)
// HTML escaping, and reaching for a full template engine here would
// fight the rule language's own WRITE-based composition instead of
// serving it.
type HTMLEmitter struct{}

func (HTMLEmitter) MediaType() string    { return "html" }
func (HTMLEmitter) Escape(s string) string { return html.EscapeString(s) }

func (HTMLEmitter) PassthroughOpen(name string, props *block.Props) string {
	class := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	return fmt.Sprintf(`<div class="%s">`, html.EscapeString(class))
}

func (HTMLEmitter) PassthroughClose(string) string { return "</div>" }

// MarkdownEmitter renders output for rulesets declaring "PRODUCE md",
// used by the identity/round-trip ruleset. Markdown has no generic
// container element, so an unmatched directive passes its children
// through with no wrapper at all.
type MarkdownEmitter struct{}

func (MarkdownEmitter) MediaType() string      { return "md" }
func (MarkdownEmitter) Escape(s string) string { return s }

func (MarkdownEmitter) PassthroughOpen(string, *block.Props) string { return "" }
func (MarkdownEmitter) PassthroughClose(string) string              { return "" }

// EmitterFor returns the bundled emitter for a media type string, or
// nil if the ruleset declares a type Murkdown has no renderer for.
func EmitterFor(mediaType string) Emitter {
	switch mediaType {
	case "html":
		return HTMLEmitter{}
	case "md":
		return MarkdownEmitter{}
	default:
		return nil
	}
}
