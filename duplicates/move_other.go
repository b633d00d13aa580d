//go:build !linux

package duplicates

import "errors"

func renameNoReplace(src, dst string) error {
	return errUnsupported
}

func linkUnsupported(err error) bool {
	return errors.Is(err, errors.ErrUnsupported)
}
