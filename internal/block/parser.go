package block

import (
	"strings"

	"github.com/murkdown/murkdown/internal/murkerrs"
)

// Parse builds a Block Tree from Murkdown source text. The grammar is
// indentation-sensitive: the leading run of one block-start character
// (one of '|','>','*','#','+','-') on a line, each repetition with at
// most one following space, is captured as that block's prefix token
// (e.g. "> > " for a doubly nested quote); every descendant
// line repeats the accumulated sequence of tokens. A run of four
// literal spaces is accepted anywhere a token is, so the two grammar
// variants described in spec §4.A fall out of one recursive descent
// rather than two separate attempts.
func Parse(file, src string) (*Root, []*murkerrs.ParseError) {
	p := &parser{file: file, lines: splitLines(src)}
	children := p.parseSiblings("")

	root := &Root{Children: children}
	if len(p.lines) > 0 {
		root.StartPos = linePos(p.lines[0], 0)
	}

	return root, p.warnings
}

type parser struct {
	file     string
	lines    []line
	pos      int
	idStack  []string
	warnings []*murkerrs.ParseError
}

func linePos(ln line, col int) Position {
	return Position{Line: ln.number, Column: col + 1, Offset: ln.offset + col}
}

func isBlockStartByte(c byte) bool {
	return strings.IndexByte(blockStarts, c) >= 0
}

// captureToken returns the leading block-start token of s: the
// repeated-character run captured by blockPrefix, or a literal
// four-space run when s has no recognized block-start character.
func captureToken(s string) string {
	if tok, _ := blockPrefix(s); tok != "" {
		return tok
	}

	if strings.HasPrefix(s, "    ") {
		return "    "
	}

	return ""
}

// parseSiblings consumes every line that starts with prefix and
// returns the sequence of nodes they describe: directives, explicit
// sections, bare content lines, ellipses, and the flattened result of
// any more deeply indented block nested among them.
func (p *parser) parseSiblings(prefix string) []Node {
	var nodes []Node

	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		if !strings.HasPrefix(ln.text, prefix) {
			break
		}

		rem := ln.text[len(prefix):]

		switch {
		case rem == "":
			p.pos++
		case strings.HasPrefix(rem, "[!"):
			nodes = append(nodes, p.parseDirective(prefix, ln))
		case strings.HasPrefix(rem, "[~"):
			nodes = append(nodes, p.parseSectionHeader(prefix, ln))
		case rem[0] == '[':
			p.warn(&murkerrs.ParseError{
				Line: ln.number, Column: len(prefix) + 1,
				Kind: murkerrs.UnknownBlockStart, Detail: rem,
			})
			nodes = append(nodes, p.plainLine(ln, prefix, rem))
		case rem == "...":
			nodes = append(nodes, &Ellipsis{StartPos: linePos(ln, len(prefix))})
			p.pos++
		case isBlockStartByte(rem[0]) || strings.HasPrefix(rem, "    "):
			token := captureToken(rem)
			deeper := prefix + token
			nodes = append(nodes, p.parseSiblings(deeper)...)
		default:
			nodes = append(nodes, p.plainLine(ln, prefix, rem))
		}
	}

	return nodes
}

// collectBody is parseSiblings restricted to the content of a single
// header: it stops (without consuming) the moment it sees another
// header at the same prefix, leaving that line for the caller's
// enclosing parseSiblings loop to treat as a sibling.
func (p *parser) collectBody(prefix string) []Node {
	var nodes []Node

	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		if !strings.HasPrefix(ln.text, prefix) {
			break
		}

		rem := ln.text[len(prefix):]

		switch {
		case rem == "":
			p.pos++
		case strings.HasPrefix(rem, "[!"), strings.HasPrefix(rem, "[~"):
			return nodes
		case rem == "...":
			nodes = append(nodes, &Ellipsis{StartPos: linePos(ln, len(prefix))})
			p.pos++
		case isBlockStartByte(rem[0]) || strings.HasPrefix(rem, "    "):
			token := captureToken(rem)
			deeper := prefix + token
			nodes = append(nodes, p.parseSiblings(deeper)...)
		default:
			nodes = append(nodes, p.plainLine(ln, prefix, rem))
		}
	}

	return nodes
}

func (p *parser) plainLine(ln line, prefix, rem string) *Line {
	p.pos++
	text, escaped := unescapeLine(rem)

	return &Line{StartPos: linePos(ln, len(prefix)), Text: text, Escaped: escaped}
}

func (p *parser) parseDirective(prefix string, headerLine line) *Directive {
	name, props, _, perr := parseHeader(headerLine.text[len(prefix):], '!', linePos(headerLine, len(prefix)))
	if perr != nil {
		p.warn(perr)
	}

	if props == nil {
		props = NewProps()
	}

	p.pos++

	id, _ := props.Get("id")
	p.idStack = append(p.idStack, id)
	body := p.collectBody(prefix)
	p.idStack = p.idStack[:len(p.idStack)-1]

	d := &Directive{StartPos: linePos(headerLine, 0), Name: name, Props: props}
	if len(body) > 0 {
		d.Children = []Node{&Section{StartPos: body[0].Pos(), Props: NewProps(), Children: body}}
	}

	return d
}

func (p *parser) parseSectionHeader(prefix string, headerLine line) *Section {
	_, props, _, perr := parseHeader(headerLine.text[len(prefix):], '~', linePos(headerLine, len(prefix)))
	if perr != nil {
		p.warn(perr)
	}

	if props == nil {
		props = NewProps()
	}

	if _, ok := props.Get("id"); !ok && len(p.idStack) > 0 {
		if parentID := p.idStack[len(p.idStack)-1]; parentID != "" {
			props.Set("id", parentID)
		}
	}

	p.pos++
	body := p.collectBody(prefix)

	return &Section{StartPos: linePos(headerLine, 0), Props: props, Children: body}
}

func (p *parser) warn(e *murkerrs.ParseError) {
	e.File = p.file
	p.warnings = append(p.warnings, e)
}

// unescapeLine resolves the single recognized escape in content text:
// a leading backslash before a character that would otherwise start a
// section header ('[') is removed, and Escaped is reported so callers
// can tell a literal "[~..." from a real one.
func unescapeLine(s string) (text string, escaped bool) {
	if strings.HasPrefix(s, `\[`) {
		return s[1:], true
	}

	return s, false
}
