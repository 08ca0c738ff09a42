// Package rulesets embeds the rule files shipped with the compiler
// itself, so a project can start compiling against "simple website"
// or "markdown" without writing a rule file of its own.
package rulesets

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/murkdown/murkdown/internal/lang"
)

//go:embed *.lang
var bundledFS embed.FS

// names maps a normalized alias to the embedded file that defines it.
var names = map[string]string{
	"simple website":    "simple_website.lang",
	"markdown":          "markdown.lang",
	"slideshow website": "slideshow_website.lang",
}

var (
	mu    sync.Mutex
	cache = make(map[string]*lang.RuleSet)
)

// Lookup resolves a bundled ruleset by its --as alias. Matching is
// case-insensitive and collapses repeated whitespace, so "Simple
// Website", "simple   website", and "simple website" all resolve to
// the same ruleset.
func Lookup(alias string) (*lang.RuleSet, bool) {
	key := normalize(alias)

	file, ok := names[key]
	if !ok {
		return nil, false
	}

	mu.Lock()
	defer mu.Unlock()

	if rs, ok := cache[key]; ok {
		return rs, true
	}

	src, err := bundledFS.ReadFile(file)
	if err != nil {
		return nil, false
	}

	rs, err := lang.Parse(file, string(src))
	if err != nil {
		return nil, false
	}

	cache[key] = rs

	return rs, true
}

// Names returns the sorted-by-declaration list of bundled ruleset
// aliases, for --help text and shell completion.
func Names() []string {
	return []string{"simple website", "markdown", "slideshow website"}
}

func normalize(alias string) string {
	fields := strings.Fields(strings.ToLower(alias))
	return strings.Join(fields, " ")
}

// mustAll forces every bundled ruleset through the parser once, used
// by tests to assert the embedded files stay valid as they evolve.
func mustAll() error {
	for _, alias := range Names() {
		if _, ok := Lookup(alias); !ok {
			return fmt.Errorf("rulesets: bundled ruleset %q failed to load", alias)
		}
	}

	return nil
}
