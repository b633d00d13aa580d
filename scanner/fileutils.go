package scanner

import (
	"path/filepath"
	"strings"
)

// validExtensions is the case-sensitive allow-list of candidate extensions
var validExtensions = [...]string{"png", "jpeg", "jpg", "gif"}

// Extensions returns a copy of the extension allow-list
func Extensions() []string {
	exts := make([]string, len(validExtensions))
	copy(exts, validExtensions[:])
	return exts
}

// FileExtension returns the text after the last dot of the base name, without
// the dot. Names like ".png" have no extension.
func FileExtension(path string) string {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}

// IsImageFile checks if the path carries an allow-listed extension. The
// comparison is case-sensitive: "a.png" matches, "a.PNG" does not.
func IsImageFile(path string) bool {
	ext := FileExtension(path)
	for _, valid := range validExtensions {
		if ext == valid {
			return true
		}
	}
	return false
}
