package scanner

import (
	"fmt"

	"imagededup/types"
)

// DirectoryError reports that a directory could not be listed
type DirectoryError struct {
	Dir string
	Err error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("cannot list directory %s: %v", e.Dir, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// ExtractResult holds the records hashed from one directory's candidates
type ExtractResult struct {
	// Records are in the order the candidates were given
	Records []types.ImageRecord
	// Skipped counts candidates that could not be decoded or hashed
	Skipped int
}
