package lang

import (
	"fmt"
	"strings"
)

// stripComments removes /* ... */ comments, including ones spanning
// multiple lines, before the source is split into lines. This mirrors
// the teacher's syntax lexer, which strips comments as a distinct pass
// ahead of tokenization rather than folding it into the grammar.
func stripComments(src string) string {
	var out strings.Builder

	for {
		start := strings.Index(src, "/*")
		if start < 0 {
			out.WriteString(src)
			break
		}

		out.WriteString(src[:start])

		end := strings.Index(src[start+2:], "*/")
		if end < 0 {
			break
		}

		// preserve newlines inside the comment so line numbers
		// downstream still line up with the original file.
		out.WriteString(strings.Repeat("\n", strings.Count(src[start:start+2+end], "\n")))
		src = src[start+2+end+2:]
	}

	return out.String()
}

type ruleLine struct {
	number int
	indent int
	text   string // trimmed of leading/trailing whitespace
}

func splitRuleLines(src string) []ruleLine {
	var out []ruleLine

	for i, raw := range strings.Split(src, "\n") {
		trimmed := strings.TrimRight(raw, " \t\r")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}

		indent := 0
		for indent < len(trimmed) && trimmed[indent] == ' ' {
			indent++
		}

		out = append(out, ruleLine{number: i + 1, indent: indent, text: strings.TrimSpace(trimmed)})
	}

	return out
}

// Parse parses the contents of a ".lang" file.
func Parse(file, src string) (*RuleSet, error) {
	lines := splitRuleLines(stripComments(src))
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s: empty ruleset", file)
	}

	name, mediaType, err := parsePreamble(file, lines[0])
	if err != nil {
		return nil, err
	}

	rs := &RuleSet{Name: name, MediaType: mediaType}

	i := 1
	for i < len(lines) {
		switch strings.TrimSuffix(lines[i].text, ":") {
		case "PREPROCESS RULES":
			rules, next, perr := parseRules(file, lines, i+1)
			if perr != nil {
				return nil, perr
			}

			rs.Preprocess = append(rs.Preprocess, rules...)
			i = next
		case "COMPILE RULES":
			rules, next, perr := parseRules(file, lines, i+1)
			if perr != nil {
				return nil, perr
			}

			rs.Compile = append(rs.Compile, rules...)
			i = next
		default:
			return nil, fmt.Errorf("%s:%d: expected PREPROCESS RULES or COMPILE RULES, got %q",
				file, lines[i].number, lines[i].text)
		}
	}

	return rs, nil
}

var preamblePrefix = "RULES FOR "

func parsePreamble(file string, first ruleLine) (name, mediaType string, err error) {
	if !strings.HasPrefix(first.text, preamblePrefix) {
		return "", "", fmt.Errorf("%s:%d: expected %q preamble", file, first.number, preamblePrefix)
	}

	rest := first.text[len(preamblePrefix):]

	const sep = " PRODUCE "

	idx := strings.Index(rest, sep)
	if idx < 0 {
		return "", "", fmt.Errorf("%s:%d: expected %q in preamble", file, first.number, sep)
	}

	name = strings.TrimSpace(rest[:idx])
	mediaType = strings.TrimSpace(rest[idx+len(sep):])

	if name == "" || mediaType == "" {
		return "", "", fmt.Errorf("%s:%d: malformed preamble", file, first.number)
	}

	return name, mediaType, nil
}

// parseRules reads a run of rules (pattern line + indented command
// block) starting at lines[start], stopping at the next section
// header or end of input. It returns the parsed rules and the index
// of the first unconsumed line.
func parseRules(file string, lines []ruleLine, start int) ([]*Rule, int, error) {
	var rules []*Rule

	i := start
	for i < len(lines) {
		ln := lines[i]
		if header := strings.TrimSuffix(ln.text, ":"); header == "PREPROCESS RULES" || header == "COMPILE RULES" {
			break
		}

		if ln.indent != 2 {
			return nil, 0, fmt.Errorf("%s:%d: expected a rule pattern at indent 2, got indent %d", file, ln.number, ln.indent)
		}

		pattern := ln.text
		rule := &Rule{Pattern: pattern, Line: ln.number}
		i++

		for i < len(lines) && lines[i].indent >= 4 {
			cmdLine := lines[i]
			op, args := tokenizeCommand(cmdLine.text)

			if op == "IS" && len(rule.Commands) == 0 {
				rule.Flags = append(rule.Flags, arg(args, 0))
				i++

				continue
			}

			rule.Commands = append(rule.Commands, Command{Op: op, Args: args, Line: cmdLine.number})
			i++
		}

		if len(rule.Commands) == 0 {
			return nil, 0, fmt.Errorf("%s:%d: rule %q has no commands", file, ln.number, pattern)
		}

		rules = append(rules, rule)
	}

	return rules, i, nil
}

// arg strips one layer of surrounding double quotes from a command
// argument, mirroring the engine's own unquote helper — a rule file's
// "IS FLAG" line and its ordinary commands share the same tokenizer,
// so flag names get the same treatment as any other bareword or
// quoted argument.
func arg(args []string, i int) string {
	if i >= len(args) {
		return ""
	}

	s := args[i]
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}

	return s
}

// tokenizeCommand splits a command line into its opcode and
// whitespace-separated arguments, keeping double-quoted arguments
// (which may contain spaces) intact.
func tokenizeCommand(s string) (op string, args []string) {
	var tokens []string

	var cur strings.Builder

	inQuote := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && inQuote && i+1 < len(s):
			cur.WriteByte(c)
			cur.WriteByte(s[i+1])
			i++
		case c == '"':
			inQuote = !inQuote
			cur.WriteByte(c)
		case c == ' ' && !inQuote:
			flush()
		default:
			cur.WriteByte(c)
		}
	}

	flush()

	if len(tokens) == 0 {
		return "", nil
	}

	return tokens[0], tokens[1:]
}
