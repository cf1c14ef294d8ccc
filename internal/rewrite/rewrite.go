// Package rewrite applies a rename table to files, one line at a time.
//
// Each line gets at most one substitution: the first occurrence of the
// longest table key found on it. A file is written back only when at least
// one line changed, so untouched files keep their bytes and timestamps.
package rewrite

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"kconfig-migrate/internal/renames"
	"kconfig-migrate/internal/textutil"
)

// ErrNotText is returned for files that do not decode as UTF-8 text.
var ErrNotText = errors.New("not a text file")

// Options tunes a Rewriter.
type Options struct {
	// DryRun computes results without writing anything.
	DryRun bool
}

// Rewriter rewrites files against a single rename table.
type Rewriter struct {
	table *renames.Table
	opts  Options
}

// New returns a Rewriter using table.
func New(table *renames.Table, opts Options) *Rewriter {
	return &Rewriter{table: table, opts: opts}
}

// Result describes what happened to one file.
type Result struct {
	Path         string
	ChangedLines int
	Old          []byte
	New          []byte
	// Written is false for unchanged files and in dry-run mode.
	Written bool
}

// Changed reports whether any line was rewritten.
func (r Result) Changed() bool { return r.ChangedLines > 0 }

// Lines rewrites each line independently and returns the new lines together
// with the number that changed. The input slice is not modified.
func (rw *Rewriter) Lines(lines []string) ([]string, int) {
	out := make([]string, len(lines))
	changed := 0
	for i, line := range lines {
		nl, ok := rw.table.RewriteLine(line)
		if ok {
			changed++
		}
		out[i] = nl
	}
	return out, changed
}

// File rewrites the file at path in place. Line terminators are preserved.
// Files that are not valid text yield ErrNotText and are left alone.
func (rw *Rewriter) File(path string) (Result, error) {
	res := Result{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return res, errors.Wrapf(err, "reading %s", path)
	}
	if !textutil.IsText(data) {
		return res, errors.Wrap(ErrNotText, path)
	}
	res.Old = data

	lines, changed := rw.Lines(textutil.SplitLinesKeepEOL(string(data)))
	res.ChangedLines = changed
	if changed == 0 {
		res.New = data
		return res, nil
	}
	res.New = textutil.JoinLines(lines)
	if rw.opts.DryRun {
		return res, nil
	}
	if err := writeInPlace(path, res.New); err != nil {
		return res, err
	}
	res.Written = true
	return res, nil
}

// writeInPlace replaces the contents of path atomically: data goes to a
// temporary file in the same directory, which is then renamed over the
// target. Symlinks are resolved first so the link itself survives, and the
// original permission bits are kept.
func writeInPlace(path string, data []byte) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return errors.Wrapf(err, "resolving %s", path)
	}
	st, err := os.Stat(target)
	if err != nil {
		return errors.Wrapf(err, "stat %s", target)
	}
	dir := filepath.Dir(target)
	f, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "creating temp file in %s", dir)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "writing %s", tmp)
	}
	if err := f.Chmod(st.Mode().Perm()); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "chmod %s", tmp)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "syncing %s", tmp)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "closing %s", tmp)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, "replacing %s", target)
	}
	return nil
}
