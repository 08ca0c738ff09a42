package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileAndMatchExact(t *testing.T) {
	p, err := Compile("[SEC] LINE")
	require.NoError(t, err)

	assert.True(t, p.Match([]Seg{{Kind: KindSection}, {Kind: KindLine}}))
	assert.False(t, p.Match([]Seg{{Kind: KindLine}}))
}

func TestCompileWildcardSingle(t *testing.T) {
	p, err := Compile("[...]")
	require.NoError(t, err)

	assert.True(t, p.Match([]Seg{{Kind: KindDirective, Name: "ANYTHING"}}))
	assert.False(t, p.Match([]Seg{{Kind: KindDirective, Name: "A"}, {Kind: KindLine}}))
}

func TestCompileDeepSkip(t *testing.T) {
	p, err := Compile("[...CODE...]")
	require.NoError(t, err)

	path := []Seg{
		{Kind: KindDirective, Name: "TABS"},
		{Kind: KindSection},
		{Kind: KindDirective, Name: "CODE"},
	}
	assert.True(t, p.Match(path))
}

func TestCompileDeepSkipMatchesMultiWordName(t *testing.T) {
	p, err := Compile(".* [...WEBSITE...]")
	require.NoError(t, err)

	assert.True(t, p.Match([]Seg{{Kind: KindDirective, Name: "SIMPLE WEBSITE"}}))
	assert.True(t, p.Match([]Seg{{Kind: KindDirective, Name: "SLIDESHOW WEBSITE"}}))
	assert.True(t, p.Match([]Seg{{Kind: KindDirective, Name: "WEBSITE"}}))
	assert.False(t, p.Match([]Seg{{Kind: KindDirective, Name: "WEBSITEFOO"}}))
}

func TestCompileGroupRepeat(t *testing.T) {
	p, err := Compile("(LINE){3}")
	require.NoError(t, err)

	assert.True(t, p.Match([]Seg{{Kind: KindLine}, {Kind: KindLine}, {Kind: KindLine}}))
	assert.False(t, p.Match([]Seg{{Kind: KindLine}, {Kind: KindLine}}))
}

func TestCompileGap(t *testing.T) {
	p, err := Compile("[PAGE] .* LINE")
	require.NoError(t, err)

	path := []Seg{
		{Kind: KindDirective, Name: "PAGE"},
		{Kind: KindSection},
		{Kind: KindDirective, Name: "CODE"},
		{Kind: KindSection},
		{Kind: KindLine},
	}
	assert.True(t, p.Match(path))
}

func TestCompileRejectsGarbage(t *testing.T) {
	_, err := Compile("not a valid @token")
	assert.Error(t, err)
}
