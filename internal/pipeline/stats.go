package pipeline

import "github.com/hashicorp/go-multierror"

// Stats tracks counters for one run.
type Stats struct {
	Eligible  int // Files matching the pattern set.
	Rewritten int // Files with at least one changed line (written, or would be in dry-run).
	Unchanged int // Eligible files with no matching line.
	NotText   int // Files skipped because they did not decode as text.
	Failed    int // Files or directories that failed for any other reason.
	Lines     int // Total lines substituted.

	// Errors collects every per-file failure, including NotText skips.
	Errors *multierror.Error
}

func (s *Stats) addError(err error) {
	s.Errors = multierror.Append(s.Errors, err)
}

// Err returns the accumulated per-file errors, or nil when there were none.
func (s *Stats) Err() error {
	return s.Errors.ErrorOrNil()
}
