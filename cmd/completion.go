// Package cmd provides command-line interface implementations.
// This file contains shell completion predictors for the murkdown CLI.
// Predictors provide context-aware suggestions for tab completion in
// supported shells (bash, zsh, fish).
package cmd

import (
	"os"
	"path/filepath"

	"github.com/posener/complete"

	"github.com/murkdown/murkdown/internal/murkdown"
	"github.com/murkdown/murkdown/internal/rulesets"
)

// PredictRuleSets returns a predictor that suggests bundled ruleset
// aliases, e.g. "simple website" or "markdown".
func PredictRuleSets() complete.Predictor {
	return complete.PredictFunc(func(_ complete.Args) []string {
		return rulesets.Names()
	})
}

// PredictSources returns a predictor that suggests ".mu" source files
// found under the current working directory.
func PredictSources() complete.Predictor {
	return complete.PredictFunc(func(_ complete.Args) []string {
		root, err := os.Getwd()
		if err != nil {
			return nil
		}

		var matches []string

		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr
			}

			if d.IsDir() || filepath.Ext(path) != murkdown.SourceExt {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				rel = path
			}

			matches = append(matches, rel)

			return nil
		})
		if err != nil {
			return nil
		}

		return matches
	})
}
