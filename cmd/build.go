// Package cmd provides command-line interface implementations.
// This file contains the build command, which compiles Murkdown
// sources to a target directory.
package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"

	"github.com/murkdown/murkdown/internal/config"
	"github.com/murkdown/murkdown/internal/graph"
	"github.com/murkdown/murkdown/internal/lang"
	"github.com/murkdown/murkdown/internal/murkdown"
	"github.com/murkdown/murkdown/internal/progress"
	"github.com/murkdown/murkdown/internal/rulesets"
	"github.com/murkdown/murkdown/internal/subproc"
	"github.com/murkdown/murkdown/internal/theme"
	"github.com/murkdown/murkdown/internal/writer"
)

// BuildCmd compiles a set of Murkdown sources against a ruleset and
// writes the result to an output directory.
type BuildCmd struct {
	Sources []string `arg:"" optional:"" predictor:"source" help:"Source files or directories to compile" default:"."` //nolint:lll,revive

	As          string `predictor:"ruleset" help:"Bundled ruleset alias or path to a .lang file"` //nolint:lll,revive
	Output      string `short:"o"           help:"Output directory"`                              //nolint:lll,revive
	SubprocCap  int    `help:"Maximum concurrent EXEC subprocesses"`
	Interactive bool   `help:"Show a live build progress view"`
}

// Run executes the build command.
func (c *BuildCmd) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	c.applyOverrides(cfg)

	rs, err := loadRuleSet(cfg.Ruleset)
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()

	docs, err := murkdown.Discover(fs, c.Sources)
	if err != nil {
		return fmt.Errorf("discover sources: %w", err)
	}

	out := writer.New(fs, cfg.OutputDir)

	runner := subproc.NewDedupRunner(subproc.ShellRunner{})

	p, err := murkdown.New(docs, rs, runner, out, cfg.SubprocCap)
	if err != nil {
		return fmt.Errorf("build ruleset %s: %w", cfg.Ruleset, err)
	}

	if c.Interactive && !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "stdout is not a terminal, ignoring --interactive")

		c.Interactive = false
	}

	if c.Interactive {
		return c.runInteractive(p, fs, cfg)
	}

	if err := p.Build(context.Background(), fs); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "built %d document(s) to %s\n", len(docs), cfg.OutputDir)

	return nil
}

func (c *BuildCmd) applyOverrides(cfg *config.Config) {
	if c.As != "" {
		cfg.Ruleset = c.As
	}

	if c.Output != "" {
		cfg.OutputDir = c.Output
	}

	if c.SubprocCap > 0 {
		cfg.SubprocCap = c.SubprocCap
	}

	if len(c.Sources) == 0 {
		c.Sources = []string{"."}
	}
}

// loadRuleSet resolves alias against the bundled rulesets first,
// falling back to treating it as a path to a ".lang" file on disk.
func loadRuleSet(alias string) (*lang.RuleSet, error) {
	if rs, ok := rulesets.Lookup(alias); ok {
		return rs, nil
	}

	src, err := os.ReadFile(alias)
	if err != nil {
		return nil, fmt.Errorf("ruleset %q is neither a bundled alias nor a readable file: %w", alias, err)
	}

	rs, err := lang.Parse(alias, string(src))
	if err != nil {
		return nil, fmt.Errorf("parse ruleset %s: %w", alias, err)
	}

	return rs, nil
}

// runInteractive drives the build behind a Bubble Tea progress view,
// theming it from cfg and reporting task lifecycle through
// progress.Reporter rather than printing directly.
func (c *BuildCmd) runInteractive(p *murkdown.Project, fs afero.Fs, cfg *config.Config) error {
	th, err := theme.Get(cfg.Theme)
	if err != nil {
		th, _ = theme.Get("default")
	}

	if err := p.LoadAndParse(fs); err != nil {
		return fmt.Errorf("load sources: %w", err)
	}

	model := progress.New(p.TaskIDs(), th)
	program := tea.NewProgram(model)

	p.Hook = func(next graph.Executor) graph.Executor {
		return &progress.Reporter{Next: next, Program: program}
	}

	var buildErr error

	go func() {
		buildErr = p.Build(context.Background(), fs)
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("progress view: %w", err)
	}

	if buildErr != nil {
		return fmt.Errorf("build failed: %w", buildErr)
	}

	return nil
}
