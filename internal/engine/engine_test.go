package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkdown/murkdown/internal/block"
	"github.com/murkdown/murkdown/internal/lang"
)

const testRuleSet = `
RULES FOR test PRODUCE html

PREPROCESS RULES
  [...]
    NOOP

COMPILE RULES
  [CODE]
    WRITE "<pre>"
    YIELD
    WRITE "</pre>"
  .* LINE
    WRITE "$text"
    WRITE "\n"
`

type nopRunner struct{}

func (nopRunner) Run(context.Context, string, string, string) (string, error) { return "", nil }

func TestEngineCompileSimpleCode(t *testing.T) {
	root, warnings := block.Parse("t.mu", "[!CODE]\n    def f(): pass\n")
	require.Empty(t, warnings)

	rs, err := lang.Parse("t.lang", testRuleSet)
	require.NoError(t, err)

	eng, err := New(rs, nopRunner{})
	require.NoError(t, err)

	state := NewState()
	require.NoError(t, eng.Preprocess(context.Background(), root, "", state))

	out, err := eng.Compile(context.Background(), root, "", state)
	require.NoError(t, err)
	assert.Equal(t, "<pre>def f(): pass\n</pre>", out)
}

func TestEngineUnmatchedDirectivePassesThrough(t *testing.T) {
	root, _ := block.Parse("t.mu", "[!MYSTERY]\n    hi\n")

	rs, err := lang.Parse("t.lang", testRuleSet)
	require.NoError(t, err)

	eng, err := New(rs, nopRunner{})
	require.NoError(t, err)

	state := NewState()
	out, err := eng.Compile(context.Background(), root, "", state)
	require.NoError(t, err)
	assert.Contains(t, out, `<div class="mystery">`)
	assert.Contains(t, out, "hi")
}

func TestEngineStrictModeErrorsOnUnmatched(t *testing.T) {
	root, _ := block.Parse("t.mu", "[!MYSTERY]\n    hi\n")

	rs, err := lang.Parse("t.lang", testRuleSet)
	require.NoError(t, err)

	eng, err := New(rs, nopRunner{})
	require.NoError(t, err)
	eng.Strict = true

	_, err = eng.Compile(context.Background(), root, "", NewState())
	assert.Error(t, err)
}
