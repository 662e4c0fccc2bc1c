package domain

import (
	"path/filepath"
	"strings"
)

// DisplayName converts a file name into a human-readable source name.
// The extension is stripped and underscores and dashes become spaces.
func DisplayName(fileName string) string {
	name := filepath.Base(fileName)
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}
