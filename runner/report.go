package runner

import (
	"errors"
	"fmt"

	"imagededup/types"
)

// Report holds one result per requested directory, in request order
type Report struct {
	Results []types.RunResult
}

// Failed returns the results that hit a directory-level failure
func (r Report) Failed() []types.RunResult {
	var failed []types.RunResult
	for _, res := range r.Results {
		if res.Failed() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Err joins every directory-level failure, or returns nil
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", res.Dir, res.Err))
	}
	return errors.Join(errs...)
}

// Moved is the number of files quarantined across all directories
func (r Report) Moved() int {
	total := 0
	for _, res := range r.Results {
		total += res.Moved
	}
	return total
}
