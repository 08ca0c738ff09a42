// Package block parses Murkdown source text into a uniform Block Tree:
// directives, sections, lines, and the ellipsis placeholder.
//
// Design Philosophy:
//
// The grammar is indentation-sensitive: a block is introduced by a
// block-start character ('|', '>', '*', '#', '+', '-') and every line
// belonging to that block repeats the same prefix token at the same
// column. This package only builds the tree; it does not know about
// rule files or compilation — that separation keeps the parser testable
// on its own and reusable by both compile-time tooling and any future
// editor support.
package block

// Position is a location in the source file.
type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based byte offset
}

// Node is the interface implemented by every Block Tree node.
type Node interface {
	Pos() Position
	node()
}

// Root is the top of a Block Tree. Parse does not set Header: every
// top-level directive, including one at column 0, is in Children.
type Root struct {
	StartPos Position
	Header   *Directive
	Children []Node
}

func (r *Root) Pos() Position { return r.StartPos }
func (*Root) node()           {}

// Directive is a "[!NAME](k="v" ...)" block, optionally nested.
type Directive struct {
	StartPos Position
	Name     string
	Props    *Props
	Children []Node
}

func (d *Directive) Pos() Position { return d.StartPos }
func (*Directive) node()           {}

// Section is the implicit grouping introduced by "[~NAME]" or inserted
// by the parser whenever a Directive has content of its own.
type Section struct {
	StartPos Position
	Props    *Props
	Children []Node
}

func (s *Section) Pos() Position { return s.StartPos }
func (*Section) node()           {}

// Line is a leaf line of content. Escaped is true when the line's first
// meaningful character was preceded by a backslash escape that removed
// a section-header start.
type Line struct {
	StartPos Position
	Text     string
	Escaped  bool
}

func (l *Line) Pos() Position { return l.StartPos }
func (*Line) node()           {}

// Ellipsis is the literal "..." line, a placeholder for spliced content.
type Ellipsis struct {
	StartPos Position
}

func (e *Ellipsis) Pos() Position { return e.StartPos }
func (*Ellipsis) node()           {}

// Props holds a directive or section's attributes, preserving insertion
// order so that iteration (and therefore compiled output) is
// deterministic — see spec §5 on HashMap iteration as a nondeterminism
// source to avoid.
type Props struct {
	keys   []string
	values map[string]string
}

// NewProps returns an empty, ready-to-use Props.
func NewProps() *Props {
	return &Props{values: make(map[string]string)}
}

// Set records key=value, preserving first-seen order for existing keys
// and appending new keys to the end.
func (p *Props) Set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value for key and whether it was present.
func (p *Props) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns every key in insertion order.
func (p *Props) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Len reports how many props are set.
func (p *Props) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// recognizedKeys are the props with dedicated semantics; everything else
// is preserved and addressable only as $key in rules.
var recognizedKeys = map[string]bool{
	"id": true, "src": true, "ref": true, "language": true,
	"href": true, "lang": true, "title": true, "stdin": true,
}

// IsRecognized reports whether key has dedicated engine semantics.
func IsRecognized(key string) bool { return recognizedKeys[key] }
