package engine

import (
	"strconv"
	"strings"

	"github.com/murkdown/murkdown/internal/block"
	"github.com/murkdown/murkdown/internal/pattern"
)

// segFor renders one Block Tree node as a pattern.Seg.
func segFor(n block.Node) pattern.Seg {
	switch v := n.(type) {
	case *block.Directive:
		return pattern.Seg{Kind: pattern.KindDirective, Name: v.Name}
	case *block.Section:
		return pattern.Seg{Kind: pattern.KindSection}
	case *block.Line:
		return pattern.Seg{Kind: pattern.KindLine}
	case *block.Ellipsis:
		return pattern.Seg{Kind: pattern.KindEllipsis}
	default:
		return pattern.Seg{Kind: pattern.KindLine}
	}
}

// pathKey renders an ancestry path as a stable string, used to seed
// the \r template code deterministically.
func pathKey(path []pattern.Seg) string {
	var b strings.Builder

	for i, s := range path {
		if i > 0 {
			b.WriteByte('/')
		}

		switch s.Kind {
		case pattern.KindDirective:
			b.WriteString(s.Name)
		case pattern.KindSection:
			b.WriteString("SEC")
		case pattern.KindLine:
			b.WriteString("LINE")
		case pattern.KindEllipsis:
			b.WriteString("...")
		}
	}

	return b.String()
}

// nodeKey disambiguates siblings sharing an identical path rendering,
// e.g. two adjacent LINE leaves, by the node's position among them.
func nodeKey(n block.Node, siblingIndex int) string {
	pos := n.Pos()

	return strconv.Itoa(pos.Line) + ":" + strconv.Itoa(pos.Column) + "#" + strconv.Itoa(siblingIndex)
}

func childrenOf(n block.Node) []block.Node {
	switch v := n.(type) {
	case *block.Root:
		return v.Children
	case *block.Directive:
		return v.Children
	case *block.Section:
		return v.Children
	default:
		return nil
	}
}

func propsOf(n block.Node) *block.Props {
	switch v := n.(type) {
	case *block.Directive:
		return v.Props
	case *block.Section:
		return v.Props
	default:
		return nil
	}
}
