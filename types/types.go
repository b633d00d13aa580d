package types

import "fmt"

// Fingerprint is a 64-bit perceptual hash folded from the hasher's bytes,
// byte 0 in the least significant position
type Fingerprint uint64

// String renders the fingerprint as fixed-width hex
func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// ImageRecord describes one successfully decoded and hashed image
type ImageRecord struct {
	Path        string      `json:"path"`
	Size        int64       `json:"size"`
	Fingerprint Fingerprint `json:"fingerprint"`
}

// RunResult is the outcome of processing a single directory
type RunResult struct {
	Dir           string `json:"dir"`
	Candidates    int    `json:"candidates"`
	Hashed        int    `json:"hashed"`
	Skipped       int    `json:"skipped"`
	DuplicateSets int    `json:"duplicate_sets"`
	Moved         int    `json:"moved"`
	MovedBytes    int64  `json:"moved_bytes"`
	MoveFailures  int    `json:"move_failures"`
	NoDuplicates  bool   `json:"no_duplicates"`
	Err           error  `json:"-"`
}

// Failed reports whether the directory hit a directory-level failure
func (r RunResult) Failed() bool {
	return r.Err != nil
}
