package duplicates

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"imagededup/logging"
)

// QuarantineDirName is the subdirectory duplicates are moved into
const QuarantineDirName = "duplicates"

// ErrQuarantine marks a failure to create the quarantine directory
var ErrQuarantine = errors.New("cannot create quarantine directory")

// MoveFunc moves src to dst without replacing an existing dst
type MoveFunc func(src, dst string) error

// Outcome summarises one directory's relocation
type Outcome struct {
	DuplicateSets int
	Moved         int
	MovedBytes    int64
	Failed        int
	// NoDuplicates is set when the quarantine directory ended up empty and was removed
	NoDuplicates bool
}

// Relocator moves every member of a duplicate set into the directory's
// quarantine subdirectory
type Relocator struct {
	move   MoveFunc
	logger *slog.Logger
}

// RelocatorOption customises a Relocator
type RelocatorOption func(*Relocator)

// WithMoveFunc swaps the move primitive
func WithMoveFunc(move MoveFunc) RelocatorOption {
	return func(r *Relocator) {
		if move != nil {
			r.move = move
		}
	}
}

// NewRelocator creates a Relocator using MoveNoReplace. A nil logger discards output.
func NewRelocator(logger *slog.Logger, opts ...RelocatorOption) *Relocator {
	r := &Relocator{
		move:   MoveNoReplace,
		logger: logging.NewComponentLogger(logger, "relocator"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// QuarantinePath returns the quarantine directory for dir
func QuarantinePath(dir string) string {
	return filepath.Join(dir, QuarantineDirName)
}

// Relocate quarantines the duplicate sets of groups found in dir. Only a
// failure to create the quarantine directory is returned as an error; move
// and cleanup failures are logged and counted.
func (r *Relocator) Relocate(dir string, groups *Groups) (Outcome, error) {
	var outcome Outcome

	quarantine := QuarantinePath(dir)
	if err := os.MkdirAll(quarantine, 0o755); err != nil {
		return outcome, fmt.Errorf("%w %s: %w", ErrQuarantine, quarantine, err)
	}

	sets := groups.DuplicateSets()
	outcome.DuplicateSets = len(sets)

	for _, set := range sets {
		for _, rec := range set.Records {
			dst := filepath.Join(quarantine, filepath.Base(rec.Path))
			if err := r.move(rec.Path, dst); err != nil {
				r.logger.Warn("failed moving file", logging.Path(rec.Path), logging.Error(err))
				outcome.Failed++
				continue
			}
			r.logger.Debug("moved duplicate",
				logging.Path(rec.Path),
				logging.String("destination", dst),
				logging.String("fingerprint", set.Fingerprint.String()))
			outcome.Moved++
			outcome.MovedBytes += rec.Size
		}
	}

	empty, err := isEmptyDir(quarantine)
	if err != nil {
		r.logger.Warn("cannot inspect quarantine directory", logging.Path(quarantine), logging.Error(err))
		return outcome, nil
	}
	if !empty {
		return outcome, nil
	}

	outcome.NoDuplicates = true
	if err := os.Remove(quarantine); err != nil {
		r.logger.Warn("failed removing quarantine directory", logging.Path(quarantine), logging.Error(err))
	}
	return outcome, nil
}

func isEmptyDir(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if errors.Is(err, io.EOF) {
		return true, nil
	}
	return false, err
}
