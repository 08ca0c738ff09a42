// Package lang parses ".lang" rule files: the small stack-machine
// language that tells the execution engine how to turn a Block Tree
// into compiled output.
//
// A rule file has a one-line preamble naming the ruleset and the
// media type it produces, followed by a PREPROCESS RULES section and
// a COMPILE RULES section. Each section holds zero or more rules, a
// path pattern followed by an indented command block.
package lang

// RuleFlag is a per-rule modifier that changes how the engine treats
// a node matched by that rule, rather than what commands run.
type RuleFlag string

// Recognized rule flags.
const (
	// FlagRefByCopy is parsed onto a rule but not read by the engine:
	// whether a src= reference is copied alongside the output or
	// inlined depends only on whether it names a published artifact.
	FlagRefByCopy RuleFlag = "REF-BY-COPY"

	// FlagComposable makes the engine, after this rule's commands run,
	// match the same node against the rules that follow it and run the
	// next match too, so several rules can layer output on one node.
	FlagComposable RuleFlag = "COMPOSABLE"

	// FlagParagraphable allows adjacent Line nodes with no directive
	// between them to be merged into one paragraph before emission.
	FlagParagraphable RuleFlag = "PARAGRAPHABLE"

	// FlagUnescapedValue disables HTML-escaping of a prop value
	// interpolated by this rule's commands.
	FlagUnescapedValue RuleFlag = "UNESCAPED_VALUE"
)

// RuleSet is one parsed ".lang" file.
type RuleSet struct {
	Name       string
	MediaType  string
	Preprocess []*Rule
	Compile    []*Rule
}

// Rule pairs a path pattern with the command block that runs for
// every node the pattern matches, in its phase.
type Rule struct {
	Pattern string
	Flags   []string
	Line    int
	Commands []Command
}

// HasFlag reports whether r carries the named flag.
func (r *Rule) HasFlag(f RuleFlag) bool {
	for _, got := range r.Flags {
		if RuleFlag(got) == f {
			return true
		}
	}

	return false
}

// Command is a single stack-machine instruction: an opcode plus its
// raw argument tokens. Argument interpretation (stack names,
// interpolation templates, literals) is the engine's job.
type Command struct {
	Op   string
	Args []string
	Line int
}
