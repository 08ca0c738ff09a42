package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/murkdown/murkdown/internal/block"
	"github.com/murkdown/murkdown/internal/lang"
	"github.com/murkdown/murkdown/internal/murkerrs"
	"github.com/murkdown/murkdown/internal/pattern"
	"github.com/murkdown/murkdown/internal/subproc"
)

// compiledRule pairs a parsed rule with its precompiled pattern, so
// matching a node against a ruleset's rules never reparses pattern
// text on the hot path.
type compiledRule struct {
	rule    *lang.Rule
	pattern *pattern.Pattern
}

// Engine runs one ruleset's PREPROCESS and COMPILE phases against a
// document's Block Tree.
type Engine struct {
	ruleSet    *lang.RuleSet
	preprocess []compiledRule
	compile    []compiledRule
	emitter    Emitter
	subproc    subproc.Runner
	// Strict turns an unmatched node into a murkerrs.RuleMatchError
	// instead of the emitter's passthrough rendering.
	Strict bool
}

// New compiles every rule in rs and returns a ready-to-run Engine.
// runner is almost always subproc.ShellRunner{}; tests substitute a
// fake to keep EXEC commands out of the test process tree.
func New(rs *lang.RuleSet, runner subproc.Runner) (*Engine, error) {
	emitter := EmitterFor(rs.MediaType)
	if emitter == nil {
		return nil, fmt.Errorf("ruleset %s: unsupported media type %q", rs.Name, rs.MediaType)
	}

	pre, err := compileRules(rs.Preprocess)
	if err != nil {
		return nil, err
	}

	cmp, err := compileRules(rs.Compile)
	if err != nil {
		return nil, err
	}

	return &Engine{
		ruleSet:    rs,
		preprocess: pre,
		compile:    cmp,
		emitter:    emitter,
		subproc:    runner,
	}, nil
}

func compileRules(rules []*lang.Rule) ([]compiledRule, error) {
	out := make([]compiledRule, 0, len(rules))

	for _, rl := range rules {
		p, err := pattern.Compile(rl.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule at line %d: %w", rl.Line, err)
		}

		out = append(out, compiledRule{rule: rl, pattern: p})
	}

	return out, nil
}

func firstMatch(rules []compiledRule, path []pattern.Seg) *compiledRule {
	m, _ := firstMatchFrom(rules, path, 0)
	return m
}

// firstMatchFrom searches rules[from:] for the first pattern matching
// path, returning both the rule and its index so a COMPOSABLE match can
// resume the search just past it.
func firstMatchFrom(rules []compiledRule, path []pattern.Seg, from int) (*compiledRule, int) {
	for i := from; i < len(rules); i++ {
		if rules[i].pattern.Match(path) {
			return &rules[i], i
		}
	}

	return nil, -1
}

// MediaType returns the produced media type, e.g. "html".
func (e *Engine) MediaType() string { return e.emitter.MediaType() }

// run carries the state threaded through one document's walk.
type run struct {
	eng     *Engine
	state   *State
	out     *strings.Builder
	ctx     context.Context
	docDir  string
	subproc subproc.Runner
}

// Preprocess walks root, running every PREPROCESS rule that matches a
// node's ancestry path. It shares a State with the later Compile call
// so SET/PUSH/INC effects from this phase are visible to it — EXEC
// commands belong here, letting subprocess output settle into scratch
// or a stack before any COMPILE rule reads it.
func (e *Engine) Preprocess(ctx context.Context, root *block.Root, docDir string, state *State) error {
	r := &run{eng: e, state: state, out: &strings.Builder{}, ctx: ctx, docDir: docDir, subproc: e.subproc}

	for i, child := range root.Children {
		if err := r.walk(e.preprocess, child, nil, i, false); err != nil {
			return err
		}
	}

	return nil
}

// Compile walks root, running every COMPILE rule that matches a
// node's ancestry path, and returns the accumulated output.
func (e *Engine) Compile(ctx context.Context, root *block.Root, docDir string, state *State) (string, error) {
	r := &run{eng: e, state: state, out: &strings.Builder{}, ctx: ctx, docDir: docDir, subproc: e.subproc}

	for i, child := range root.Children {
		if err := r.walk(e.compile, child, nil, i, true); err != nil {
			return "", err
		}
	}

	return r.out.String(), nil
}

// walk matches node against rules and runs its commands, descending
// into children on YIELD in both phases (PREPROCESS needs this too: it
// schedules EXEC tasks and assigns flags on nested directives, not
// just the ones a document's outermost rules happen to match).
// Otherwise it recurses directly so an unmatched node still visits
// every descendant.
func (r *run) walk(rules []compiledRule, node block.Node, path []pattern.Seg, siblingIndex int, emit bool) error {
	seg := segFor(node)
	nodePath := append(append([]pattern.Seg{}, path...), seg)

	match, idx := firstMatchFrom(rules, nodePath, 0)
	if match == nil {
		if r.eng.Strict {
			return &murkerrs.RuleMatchError{Path: pathKey(nodePath), Phase: phaseName(emit)}
		}

		return r.passthrough(node, nodePath, siblingIndex, emit)
	}

	for match != nil {
		if err := r.runRule(match, rules, node, nodePath, siblingIndex, emit); err != nil {
			return err
		}

		if !match.rule.HasFlag(lang.FlagComposable) {
			break
		}

		// COMPOSABLE: keep matching this same node against later rules
		// in the list, layering each match's commands in turn.
		match, idx = firstMatchFrom(rules, nodePath, idx+1)
	}

	return nil
}

// runRule executes one matched rule's command list against node,
// descending into children on YIELD.
func (r *run) runRule(
	match *compiledRule, rules []compiledRule, node block.Node, nodePath []pattern.Seg, siblingIndex int, emit bool,
) error {
	if !emit {
		if sec, ok := node.(*block.Section); ok && match.rule.HasFlag(lang.FlagParagraphable) {
			sec.Children = coalesceParagraphs(sec.Children)
		}
	}

	r.state.Counters["r"] = seededRandom(pathKey(nodePath), nodeKey(node, siblingIndex))
	r.state.Counters["i"] = siblingIndex + 1

	ictx := &interpCtx{
		props:   propsOf(node),
		scratch: r.state.Scratch,
		state:   r.state,
		text:    textOf(node),
		escape:  r.eng.emitter.Escape,
		raw:     match.rule.HasFlag(lang.FlagUnescapedValue),
	}

	childIdx := 0

	for _, cmd := range match.rule.Commands {
		if cmd.Op == "YIELD" {
			for _, child := range childrenOf(node) {
				if err := r.walk(rules, child, nodePath, childIdx, emit); err != nil {
					return err
				}

				childIdx++
			}

			continue
		}

		if !emit {
			// Preprocess commands that write output are meaningless;
			// only state-mutating commands run in this phase.
			if cmd.Op == "WRITE" || cmd.Op == "WRITEALL" {
				continue
			}
		}

		if err := r.execCommand(cmd.Op, cmd.Args, ictx); err != nil {
			return err
		}
	}

	return nil
}

// passthrough handles a node with no matching rule: recurse into any
// children so they still get a chance to match, wrapping a Directive
// in the emitter's generic container when emitting output.
func (r *run) passthrough(node block.Node, path []pattern.Seg, siblingIndex int, emit bool) error {
	switch v := node.(type) {
	case *block.Line:
		if emit {
			r.out.WriteString(r.eng.emitter.Escape(v.Text))
			r.out.WriteString("\n")
		}

		return nil
	case *block.Directive:
		rules := r.eng.compile
		if !emit {
			rules = r.eng.preprocess
		}

		if emit {
			r.out.WriteString(r.eng.emitter.PassthroughOpen(v.Name, v.Props))
		}

		for i, child := range v.Children {
			if err := r.walk(rules, child, path, i, emit); err != nil {
				return err
			}
		}

		if emit {
			r.out.WriteString(r.eng.emitter.PassthroughClose(v.Name))
		}

		return nil
	default:
		rules := r.eng.compile
		if !emit {
			rules = r.eng.preprocess
		}

		for i, child := range childrenOf(node) {
			if err := r.walk(rules, child, path, i, emit); err != nil {
				return err
			}
		}

		return nil
	}
}

func textOf(n block.Node) string {
	if ln, ok := n.(*block.Line); ok {
		return ln.Text
	}

	return ""
}

func phaseName(emit bool) string {
	if emit {
		return "compile"
	}

	return "preprocess"
}
