// Package renames holds the rename table: a fixed mapping from deprecated
// identifier names to their replacements, and the longest-match rule used to
// pick which entry applies to a line of text.
//
// A Table is an immutable value. Callers build one (from the embedded MCUmgr
// table, an external YAML file, or a plain map in tests) and pass it to the
// rewriter explicitly.
package renames

import (
	_ "embed"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed mcumgr.yaml
var mcumgrYAML []byte

// Validation errors returned by New.
var (
	ErrEmptyKey   = errors.New("rename table: empty key")
	ErrIdentity   = errors.New("rename table: key maps to itself")
	ErrKeyInValue = errors.New("rename table: key occurs inside a replacement value")
)

// Table maps old identifier names to new ones.
type Table struct {
	entries map[string]string
	// keys ordered by length (longest first), then lexicographically, so the
	// first key found in a line is the longest-match winner.
	keys []string
}

// New validates m and builds a Table from a private copy of it.
//
// Besides rejecting empty and identity entries, New requires that no key is a
// substring of any replacement value. That keeps a second run over already
// migrated text from rewriting it again.
func New(m map[string]string) (*Table, error) {
	entries := make(map[string]string, len(m))
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if k == "" {
			return nil, ErrEmptyKey
		}
		if k == v {
			return nil, errors.Wrapf(ErrIdentity, "%q", k)
		}
		entries[k] = v
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		for _, v := range entries {
			if strings.Contains(v, k) {
				return nil, errors.Wrapf(ErrKeyInValue, "%q in %q", k, v)
			}
		}
	}
	return &Table{entries: entries, keys: keys}, nil
}

// Parse decodes a YAML mapping of old name to new name.
func Parse(data []byte) (*Table, error) {
	var m map[string]string
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "parsing rename table")
	}
	if len(m) == 0 {
		return nil, errors.New("rename table has no entries")
	}
	return New(m)
}

// Load reads and parses a YAML rename table from path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading rename table %s", path)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return t, nil
}

// Default returns the built-in MCUmgr Kconfig rename table.
func Default() *Table {
	t, err := Parse(mcumgrYAML)
	if err != nil {
		panic(err)
	}
	return t
}

// Len reports the number of entries.
func (t *Table) Len() int { return len(t.entries) }

// Lookup returns the replacement for old.
func (t *Table) Lookup(old string) (string, bool) {
	v, ok := t.entries[old]
	return v, ok
}

// Keys returns the table keys in match priority order.
func (t *Table) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Longest returns the longest key occurring anywhere in line. When several
// keys of that length occur, the lexicographically smallest one wins.
func (t *Table) Longest(line string) (string, bool) {
	for _, k := range t.keys {
		if strings.Contains(line, k) {
			return k, true
		}
	}
	return "", false
}

// RewriteLine replaces the first occurrence of the longest matching key in
// line with its value. The result is not scanned again, so other occurrences
// on the same line are left as they are.
func (t *Table) RewriteLine(line string) (string, bool) {
	k, ok := t.Longest(line)
	if !ok {
		return line, false
	}
	return strings.Replace(line, k, t.entries[k], 1), true
}
