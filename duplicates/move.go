package duplicates

import (
	"errors"
	"io/fs"
	"os"
)

// MoveNoReplace renames src to dst, failing with an error that matches
// fs.ErrExist when dst is already taken. It never overwrites dst, and after
// it returns exactly one of src or dst exists.
func MoveNoReplace(src, dst string) error {
	err := renameNoReplace(src, dst)
	if !errors.Is(err, errUnsupported) {
		return err
	}

	err = linkAndUnlink(src, dst)
	if !errors.Is(err, errUnsupported) {
		return err
	}

	return checkAndRename(src, dst)
}

var errUnsupported = errors.New("operation not supported by filesystem")

// linkAndUnlink relies on link(2) refusing to replace an existing name
func linkAndUnlink(src, dst string) error {
	if err := os.Link(src, dst); err != nil {
		var linkErr *os.LinkError
		if errors.As(err, &linkErr) && linkUnsupported(linkErr.Err) {
			return errUnsupported
		}
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: unwrapLinkErr(err)}
	}

	if err := os.Remove(src); err != nil {
		// keep the source as the only copy
		_ = os.Remove(dst)
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: unwrapLinkErr(err)}
	}
	return nil
}

// checkAndRename is the last resort for filesystems without link support;
// it can race with a concurrent writer creating dst
func checkAndRename(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: fs.ErrExist}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: err}
	}
	return os.Rename(src, dst)
}

func unwrapLinkErr(err error) error {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return linkErr.Err
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
