// Package pipeline runs the rewriter over every eligible file under the
// project root and reports per-file diagnostics and a summary.
package pipeline

import (
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"kconfig-migrate/internal/config"
	"kconfig-migrate/internal/diff"
	"kconfig-migrate/internal/rewrite"
	"kconfig-migrate/internal/walkwalk"
)

// Run collects eligible files under cfg.Root and rewrites them one by one.
// Per-file failures are logged and counted but never stop the run; the
// returned error is only set when the root itself cannot be walked.
// Diffs (cfg.ShowDiff) are written to out.
func Run(cfg *config.Config, rw *rewrite.Rewriter, log *zap.SugaredLogger, out io.Writer) (Stats, error) {
	var stats Stats

	files, err := walkwalk.CollectFiles(cfg.Root, cfg.Patterns, func(path string, err error) {
		log.Errorf("Failed to read %s: %v", path, err)
		stats.Failed++
		stats.addError(err)
	})
	if err != nil {
		return stats, errors.Wrap(err, "file discovery failed")
	}

	stats.Eligible = len(files)
	log.Debugf("Found %d eligible files under %s", len(files), cfg.Root)

	for _, f := range files {
		processFile(cfg, rw, log, out, f, &stats)
	}

	logSummary(cfg, log, &stats)
	return stats, nil
}

// processFile rewrites one file and records the outcome.
func processFile(
	cfg *config.Config,
	rw *rewrite.Rewriter,
	log *zap.SugaredLogger,
	out io.Writer,
	f walkwalk.FileInfo,
	stats *Stats,
) {
	log.Debugw("Processing", "path", f.RelPath, "bytes", f.Size)

	res, err := rw.File(f.AbsPath)
	switch {
	case errors.Is(err, rewrite.ErrNotText):
		log.Errorf("Unable to read lines from %s", f.AbsPath)
		stats.NotText++
		stats.addError(err)
		return
	case err != nil:
		log.Errorf("Failed to rewrite %s: %v", f.AbsPath, err)
		stats.Failed++
		stats.addError(err)
		return
	}

	if !res.Changed() {
		stats.Unchanged++
		return
	}
	stats.Rewritten++
	stats.Lines += res.ChangedLines

	if cfg.DryRun {
		log.Infof("Would rewrite %s (%d lines)", f.RelPath, res.ChangedLines)
	} else {
		log.Infof("Rewrote %s (%d lines)", f.RelPath, res.ChangedLines)
	}

	if cfg.ShowDiff {
		patch, _ := diff.Unified(f.RelPath, res.Old, res.New, diff.Options{Context: cfg.DiffContext})
		if err := diff.Write(out, patch, cfg.Color); err != nil {
			log.Warnf("Cannot write diff for %s: %v", f.RelPath, err)
		}
	}
}

func logSummary(cfg *config.Config, log *zap.SugaredLogger, stats *Stats) {
	verb := "rewritten"
	if cfg.DryRun {
		verb = "to rewrite"
	}
	log.Infof("Done: %d eligible, %d %s (%d lines), %d unchanged, %d not text, %d failed",
		stats.Eligible, stats.Rewritten, verb, stats.Lines, stats.Unchanged, stats.NotText, stats.Failed)
}
