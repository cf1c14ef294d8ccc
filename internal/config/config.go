// Package config holds runtime configuration: defaults, validation and
// resolution of the rename table.
package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"

	"kconfig-migrate/internal/renames"
	"kconfig-migrate/internal/walkwalk"
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by the CLI flags before being passed (by pointer) to the
// pipeline.
type Config struct {
	Root      string // Project root to process (required).
	TablePath string // Optional YAML rename table; empty selects the built-in one.
	DryRun    bool   // Compute rewrites without writing.
	ShowDiff  bool   // Print unified diffs of changed files to stdout.
	Verbose   bool   // Debug diagnostics.
	Color     bool   // Color diffs. Derived at runtime from stdout being a terminal.

	// DiffContext is the number of context lines in diffs. Fixed: 3.
	DiffContext int
	// Patterns selects eligible files. Fixed: walkwalk.DefaultPatterns().
	Patterns walkwalk.Patterns
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	return Config{
		DiffContext: 3,
		Patterns:    walkwalk.DefaultPatterns(),
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks that Root names an existing directory.
func (c *Config) Validate() error {
	if c.Root == "" {
		return errors.New("root directory is required (use --root)")
	}
	c.Root = NormalizeDirArg(c.Root)
	st, err := os.Stat(c.Root)
	if err != nil {
		return errors.Wrap(err, "invalid root")
	}
	if !st.IsDir() {
		return errors.Errorf("root %s is not a directory", c.Root)
	}
	return nil
}

// LoadTable returns the rename table selected by TablePath.
func (c *Config) LoadTable() (*renames.Table, error) {
	if c.TablePath == "" {
		return renames.Default(), nil
	}
	return renames.Load(c.TablePath)
}
