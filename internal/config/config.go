// Package config handles Murkdown configuration loading: an optional
// murkdown.yaml discovered by walking up from the working directory,
// overridden by MD_* environment variables, overridden again by CLI
// flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/murkdown/murkdown/internal/theme"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the Murkdown configuration file.
const ConfigFileName = "murkdown.yaml"

// DefaultOutputDir is used when neither murkdown.yaml nor MD_OUTPUT
// names an output directory.
const DefaultOutputDir = "dist"

// DefaultSubprocCap bounds how many EXEC subprocesses the scheduler
// runs at once.
const DefaultSubprocCap = 8

// Config holds Murkdown's resolved build configuration.
type Config struct {
	// OutputDir is where compiled artifacts are written.
	OutputDir string `yaml:"output"`
	// Ruleset is the bundled ruleset alias ("simple website",
	// "slideshow website", "markdown") or a path to a ".lang" file.
	Ruleset string `yaml:"ruleset"`
	// SubprocCap bounds concurrent EXEC subprocesses.
	SubprocCap int `yaml:"subproc_cap"`
	// Theme names the palette used for --interactive build progress.
	Theme string `yaml:"theme"`
	// ProjectRoot is the directory murkdown.yaml was found in, or the
	// starting directory if none was found.
	ProjectRoot string `yaml:"-"`
}

// Load searches for murkdown.yaml starting from the current working
// directory, walking up the directory tree, then applies MD_* env
// var overrides.
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	return LoadFromPath(cwd)
}

// LoadFromPath is Load with an explicit starting directory, used by
// tests so they don't depend on the process's working directory.
func LoadFromPath(startPath string) (*Config, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %q: %w", startPath, err)
	}

	cfg := defaults(absPath)

	currentPath := absPath
	for {
		configPath := filepath.Join(currentPath, ConfigFileName)

		if _, err := os.Stat(configPath); err == nil {
			found, err := parseConfigFile(configPath)
			if err != nil {
				return nil, err
			}

			found.ProjectRoot = currentPath
			mergeDefaults(found, cfg)
			cfg = found

			break
		}

		parentPath := filepath.Dir(currentPath)
		if parentPath == currentPath {
			break
		}

		currentPath = parentPath
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func defaults(projectRoot string) *Config {
	return &Config{
		OutputDir:   DefaultOutputDir,
		Ruleset:     "simple website",
		SubprocCap:  DefaultSubprocCap,
		Theme:       "default",
		ProjectRoot: projectRoot,
	}
}

func mergeDefaults(cfg, fallback *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = fallback.OutputDir
	}

	if cfg.Ruleset == "" {
		cfg.Ruleset = fallback.Ruleset
	}

	if cfg.SubprocCap == 0 {
		cfg.SubprocCap = fallback.SubprocCap
	}

	if cfg.Theme == "" {
		cfg.Theme = fallback.Theme
	}
}

func parseConfigFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		var yamlErr *yaml.TypeError
		if errors.As(err, &yamlErr) {
			return nil, fmt.Errorf("invalid YAML syntax: %v", yamlErr.Errors)
		}

		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &cfg, nil
}

// applyEnv overrides cfg fields from MD_OUTPUT, MD_RULESET, and
// MD_SUBPROC_CAP, in that precedence order above the file and below
// explicit CLI flags (the CLI layer applies its own flags last).
func applyEnv(cfg *Config) {
	if v := os.Getenv("MD_OUTPUT"); v != "" {
		cfg.OutputDir = v
	}

	if v := os.Getenv("MD_RULESET"); v != "" {
		cfg.Ruleset = v
	}

	if v := os.Getenv("MD_SUBPROC_CAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SubprocCap = n
		}
	}
}

// validate checks cfg for invalid or nonsensical settings.
func (c *Config) validate() error {
	if c.OutputDir == "" {
		return errors.New("output cannot be empty")
	}

	if strings.Contains(c.OutputDir, "..") {
		return errors.New("output must not contain '..'")
	}

	if c.SubprocCap <= 0 {
		return fmt.Errorf("subproc_cap must be positive, got %d", c.SubprocCap)
	}

	if _, err := theme.Get(c.Theme); err != nil {
		return fmt.Errorf("invalid theme %q, available themes: %s", c.Theme, strings.Join(theme.Available(), ", "))
	}

	return nil
}

// OutputPath returns the absolute path to the configured output
// directory.
func (c *Config) OutputPath() string {
	return filepath.Join(c.ProjectRoot, c.OutputDir)
}
