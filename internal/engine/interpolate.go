package engine

import (
	"strings"

	"github.com/murkdown/murkdown/internal/block"
)

// Escaper renders a raw string safe for one output media type.
type Escaper func(string) string

// interpCtx bundles everything a template string can reference:
// the current node's props, scratch values, counters, and the current node's
// own text (for Line nodes, exposed as "$text").
type interpCtx struct {
	props   *block.Props
	scratch map[string]string
	state   *State
	text    string
	escape  Escaper
	raw     bool // UNESCAPED_VALUE flag on the active rule
}

// interpolate expands "$name" / "$name:j" references and "\x"
// counter/control codes in a command template.
func interpolate(tpl string, c *interpCtx) string {
	var out strings.Builder

	for i := 0; i < len(tpl); i++ {
		ch := tpl[i]

		switch {
		case ch == '\\' && i+1 < len(tpl):
			code := tpl[i+1]
			out.WriteString(c.expandCode(code))
			i++
		case ch == '$':
			name, join, n := readVarRef(tpl[i:])
			out.WriteString(c.expandVar(name, join))
			i += n - 1
		default:
			out.WriteByte(ch)
		}
	}

	return out.String()
}

// readVarRef parses "$name" or "$name:j" starting at s[0]=='$' and
// returns the variable name, whether the ":j" (join-the-whole-stack)
// suffix was present, and how many bytes were consumed.
func readVarRef(s string) (name string, join bool, consumed int) {
	i := 1
	start := i

	for i < len(s) && (isIdentByte(s[i])) {
		i++
	}

	name = s[start:i]

	if strings.HasPrefix(s[i:], ":j") {
		return name, true, i + 2
	}

	return name, false, i
}

// isIdentByte reports whether b can appear in a "$name" reference.
// Hyphens are deliberately excluded: none of the built-in stack/scratch
// names use one, and excluding it lets a template write "$tabid-r"
// with the literal hyphen immediately after the reference instead of
// needing a separator.
func isIdentByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// expandVar resolves "$name". Plain references read stack-top of
// stack name, falling back to the current node's props then the
// scratch map. The ":j" form instead joins every element of stack
// name, in push order, with the scratch slot "join" (a single space
// if unset).
func (c *interpCtx) expandVar(name string, join bool) string {
	if join {
		sep := c.scratch["join"]
		if sep == "" {
			sep = " "
		}

		return c.escapeUnlessRaw(strings.Join(c.state.Stacks[name], sep))
	}

	var value string

	switch name {
	case "text":
		value = c.text
	default:
		if top, ok := c.state.peek(name); ok {
			value = top
			break
		}

		if c.props != nil {
			if v, ok := c.props.Get(name); ok {
				value = v
				break
			}
		}

		value = c.scratch[name]
	}

	return c.escapeUnlessRaw(value)
}

func (c *interpCtx) escapeUnlessRaw(value string) string {
	if c.raw {
		return value
	}

	return c.escape(value)
}

func (c *interpCtx) expandCode(code byte) string {
	switch code {
	case 'n':
		return "\n"
	case 'i':
		return formatCounter(c.state.counter("i"))
	case 'r':
		return formatCounter(c.state.counter("r"))
	case 'v':
		return c.escapeUnlessRaw(c.text)
	case 'm':
		return c.state.stackTop("prefix")
	case '\\':
		return "\\"
	case '$':
		return "$"
	case '"':
		return "\""
	default:
		return "\\" + string(code)
	}
}
