// Package main provides the kconfig-migrate CLI, which migrates a
// Zephyr-based project to the renamed MCUmgr Kconfig options.
//
//	kconfig-migrate -r <project_root> [--dry-run] [--diff] [--table renames.yaml]
//
// Every C/C++ source and header, reStructuredText document, .conf, YAML,
// CMakeLists.txt and Kconfig file under the root is rewritten in place. Files
// that fail to read are reported on stderr and skipped; the run always covers
// the whole tree and exits 0 once it is done.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"kconfig-migrate/internal/config"
	"kconfig-migrate/internal/logging"
	"kconfig-migrate/internal/pipeline"
	"kconfig-migrate/internal/rewrite"
)

func main() {
	cfg := config.DefaultConfig()
	cmd := newRootCommand(&cfg)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "kconfig-migrate:", err)
		os.Exit(1)
	}
}

func newRootCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "kconfig-migrate --root <path>",
		Short:         "Migrate a Zephyr-based project to the new MCUmgr Kconfig options",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	bindFlags(cmd.Flags(), cfg)
	_ = cmd.MarkFlagRequired("root")
	return cmd
}

func bindFlags(fs *pflag.FlagSet, cfg *config.Config) {
	fs.StringVarP(&cfg.Root, "root", "r", "", "Zephyr-based project path")
	fs.StringVar(&cfg.TablePath, "table", "", "YAML rename table to use instead of the built-in MCUmgr one")
	fs.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Report what would change without writing")
	fs.BoolVar(&cfg.ShowDiff, "diff", false, "Print a unified diff for every changed file")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose diagnostics")
}

// execute validates cfg and runs the pipeline. Only setup problems are
// returned; per-file failures end up in the log and the summary.
func execute(cfg *config.Config, stdout, stderr io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	table, err := cfg.LoadTable()
	if err != nil {
		return err
	}
	if stdout == os.Stdout {
		cfg.Color = !color.NoColor
	}

	log := logging.NewWithWriter(stderr, cfg.Verbose)
	defer func() { _ = log.Sync() }()

	log.Debugf("Using %d renames", table.Len())
	if cfg.DryRun {
		log.Warn("Dry run: no files will be written")
	}

	rw := rewrite.New(table, rewrite.Options{DryRun: cfg.DryRun})
	_, err = pipeline.Run(cfg, rw, log, stdout)
	return err
}
