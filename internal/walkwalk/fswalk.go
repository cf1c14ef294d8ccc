// Package walkwalk provides a deterministic filesystem walker that collects
// the files eligible for rewriting under a project root.
package walkwalk

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// FileInfo is a minimal descriptor of a collected file.
type FileInfo struct {
	RelPath string // root-relative path with forward slashes
	AbsPath string // absolute filesystem path
	Size    int64  // size in bytes
}

// ErrorFunc receives entries the walk could not read. The walk carries on
// after it returns.
type ErrorFunc func(path string, err error)

type walkState struct {
	root     string
	patterns Patterns
	onError  ErrorFunc
	files    []FileInfo
}

// CollectFiles walks root and returns every regular file whose base name
// matches patterns, sorted by RelPath. Directories and non-matching files are
// skipped silently. Unreadable entries below root go to onError (which may be
// nil); only a failure to access root itself is returned.
func CollectFiles(root string, patterns Patterns, onError ErrorFunc) ([]FileInfo, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", root)
	}
	st, err := os.Stat(rootAbs)
	if err != nil {
		return nil, errors.Wrapf(err, "accessing %s", root)
	}
	if !st.IsDir() {
		return nil, errors.Errorf("%s is not a directory", root)
	}
	ws := &walkState{root: rootAbs, patterns: patterns, onError: onError}
	if err := filepath.WalkDir(rootAbs, ws.visit); err != nil {
		return nil, err
	}
	sort.Slice(ws.files, func(i, j int) bool { return ws.files[i].RelPath < ws.files[j].RelPath })
	return ws.files, nil
}

func (ws *walkState) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		if path == ws.root {
			return err
		}
		ws.report(path, err)
		return nil
	}
	if d.IsDir() {
		return nil
	}
	if !ws.patterns.Match(d.Name()) {
		return nil
	}
	rel, ok := ws.relative(path)
	if !ok {
		return nil
	}
	return ws.handleFile(path, rel, d)
}

func (ws *walkState) relative(path string) (string, bool) {
	rel, err := filepath.Rel(ws.root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, "../") || rel == ".." {
		return "", false
	}
	return rel, true
}

func (ws *walkState) handleFile(path, rel string, d fs.DirEntry) error {
	var (
		info fs.FileInfo
		err  error
	)
	if isSymlink(d) {
		// Follow links to files; linked directories are never descended into.
		info, err = os.Stat(path)
	} else {
		info, err = d.Info()
	}
	if err != nil {
		ws.report(path, err)
		return nil
	}
	if !info.Mode().IsRegular() {
		return nil
	}
	ws.files = append(ws.files, FileInfo{
		RelPath: rel,
		AbsPath: path,
		Size:    info.Size(),
	})
	return nil
}

func (ws *walkState) report(path string, err error) {
	if ws.onError != nil {
		ws.onError(path, err)
	}
}

// isSymlink reports whether the DirEntry is a symlink (file or directory).
func isSymlink(d fs.DirEntry) bool {
	return d.Type()&fs.ModeSymlink != 0
}
