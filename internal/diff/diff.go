// Package diff renders unified diffs of pending rewrites.
// It uses github.com/pmezard/go-difflib/difflib to produce classic unified
// patches (---/+++ headers, @@ hunks, lines prefixed with ' ', '-', '+').
package diff

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	difflib "github.com/pmezard/go-difflib/difflib"

	"kconfig-migrate/internal/textutil"
)

// Options controls patch generation behavior.
type Options struct {
	// MaxBytes is a guardrail on input size (old+new). When exceeded,
	// a placeholder patch is returned and oversize=true. 0 means no limit.
	MaxBytes int

	// Context is the number of context lines around each hunk. 0 means 3.
	Context int

	// NoPrefix drops the "a/" and "b/" prefixes from the file headers.
	NoPrefix bool
}

// Unified produces a unified patch turning a into b for the file at path.
// Returns the patch body and a flag indicating it was omitted due to size.
// Identical inputs produce an empty patch.
func Unified(path string, a, b []byte, opt Options) (body string, oversize bool) {
	aName, bName := "a/"+path, "b/"+path
	if opt.NoPrefix {
		aName, bName = path, path
	}
	if opt.MaxBytes > 0 && (len(a)+len(b)) > opt.MaxBytes {
		return omitted(aName, bName), true
	}

	ctx := opt.Context
	if ctx <= 0 {
		ctx = 3
	}

	u := difflib.UnifiedDiff{
		A:        textutil.SplitLinesKeepEOL(string(a)),
		B:        textutil.SplitLinesKeepEOL(string(b)),
		FromFile: aName,
		ToFile:   bName,
		Context:  ctx,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return omitted(aName, bName), false
	}
	return s, false
}

// Write copies patch to w line by line, coloring headers, hunks, removals
// and additions when colored is set.
func Write(w io.Writer, patch string, colored bool) error {
	var (
		bold  = color.New(color.Bold)
		cyan  = color.New(color.FgCyan)
		red   = color.New(color.FgRed)
		green = color.New(color.FgGreen)
	)
	for _, c := range []*color.Color{bold, cyan, red, green} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	sc := bufio.NewScanner(strings.NewReader(patch))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		c := pick(line, bold, cyan, red, green)
		var err error
		if c == nil {
			_, err = fmt.Fprintln(w, line)
		} else {
			_, err = c.Fprintln(w, line)
		}
		if err != nil {
			return err
		}
	}
	return sc.Err()
}

func pick(line string, bold, cyan, red, green *color.Color) *color.Color {
	switch {
	case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		return bold
	case strings.HasPrefix(line, "@@"):
		return cyan
	case strings.HasPrefix(line, "-"):
		return red
	case strings.HasPrefix(line, "+"):
		return green
	}
	return nil
}

// omitted returns a compact placeholder when size limits are exceeded.
func omitted(aName, bName string) string {
	return fmt.Sprintf("--- %s\n+++ %s\n@@\n# diff omitted (oversize)\n", aName, bName)
}
