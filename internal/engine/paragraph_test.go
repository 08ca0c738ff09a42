package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkdown/murkdown/internal/block"
)

func TestCoalesceParagraphsGroupsAdjacentLines(t *testing.T) {
	children := []block.Node{
		&block.Line{Text: "one"},
		&block.Line{Text: "two"},
		&block.Line{Text: "three"},
	}

	out := coalesceParagraphs(children)
	require.Len(t, out, 1)

	par, ok := out[0].(*block.Directive)
	require.True(t, ok)
	assert.Equal(t, "PAR", par.Name)
	assert.Len(t, par.Children, 3)
}

func TestCoalesceParagraphsSplitsOnBlankLine(t *testing.T) {
	children := []block.Node{
		&block.Line{Text: "one"},
		&block.Line{Text: "two"},
		&block.Line{Text: ""},
		&block.Line{Text: "three"},
	}

	out := coalesceParagraphs(children)
	require.Len(t, out, 2)

	first := out[0].(*block.Directive)
	second := out[1].(*block.Directive)
	assert.Len(t, first.Children, 2)
	assert.Len(t, second.Children, 1)
}

func TestCoalesceParagraphsPassesThroughNonLineNodes(t *testing.T) {
	children := []block.Node{
		&block.Line{Text: "intro"},
		&block.Directive{Name: "CODE"},
	}

	out := coalesceParagraphs(children)
	require.Len(t, out, 2)

	par, ok := out[0].(*block.Directive)
	require.True(t, ok)
	assert.Equal(t, "PAR", par.Name)

	_, ok = out[1].(*block.Directive)
	require.True(t, ok)
}
