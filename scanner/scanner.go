package scanner

import (
	"os"
	"path/filepath"
	"sort"
)

// ListCandidates returns the allow-listed image files directly inside dir,
// as absolute paths sorted by path. Subdirectories are not descended into.
func ListCandidates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DirectoryError{Dir: dir, Err: err}
	}

	base, err := filepath.Abs(dir)
	if err != nil {
		base = dir
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !IsImageFile(entry.Name()) {
			continue
		}
		candidates = append(candidates, filepath.Join(base, entry.Name()))
	}

	sort.Strings(candidates)
	return candidates, nil
}
