package rulesets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownAliases(t *testing.T) {
	require.NoError(t, mustAll())

	rs, ok := Lookup("simple website")
	require.True(t, ok)
	assert.Equal(t, "html", rs.MediaType)

	rs, ok = Lookup("markdown")
	require.True(t, ok)
	assert.Equal(t, "md", rs.MediaType)

	rs, ok = Lookup("slideshow website")
	require.True(t, ok)
	assert.Equal(t, "html", rs.MediaType)
}

func TestLookupNormalizesCaseAndWhitespace(t *testing.T) {
	rs, ok := Lookup("  Simple   WEBSITE ")
	require.True(t, ok)
	assert.Equal(t, "simple website", rs.Name)
}

func TestLookupUnknownAlias(t *testing.T) {
	_, ok := Lookup("nonexistent ruleset")
	assert.False(t, ok)
}

func TestLookupCachesParsedRuleSet(t *testing.T) {
	a, ok := Lookup("markdown")
	require.True(t, ok)

	b, ok := Lookup("MARKDOWN")
	require.True(t, ok)

	assert.Same(t, a, b)
}
