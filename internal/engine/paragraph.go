package engine

import "github.com/murkdown/murkdown/internal/block"

// coalesceParagraphs implements the PARAGRAPHABLE flag: runs of
// adjacent non-empty Lines become a single synthetic "PAR" Directive
// wrapping them, so a COMPILE rule for "PAR" can render one <p> per
// run instead of the ruleset having to special-case bare Lines. A
// blank Line (or any non-Line node) ends the current run without
// itself being absorbed.
func coalesceParagraphs(children []block.Node) []block.Node {
	out := make([]block.Node, 0, len(children))

	var run []block.Node

	flush := func() {
		if len(run) == 0 {
			return
		}

		out = append(out, &block.Directive{
			StartPos: run[0].Pos(),
			Name:     "PAR",
			Props:    block.NewProps(),
			Children: run,
		})
		run = nil
	}

	for _, c := range children {
		ln, ok := c.(*block.Line)
		if ok && ln.Text != "" {
			run = append(run, c)
			continue
		}

		flush()

		if ok && ln.Text == "" {
			continue // blank line: paragraph separator, dropped
		}

		out = append(out, c)
	}

	flush()

	return out
}
