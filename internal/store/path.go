package store

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveRulesFile finds an existing rules file. Absolute paths and "~/"
// paths are returned expanded. A relative name is looked up in the current
// directory, ./config and ~/.config/finance; when it exists nowhere the name
// is returned unchanged so the first save creates it in the current directory.
func ResolveRulesFile(filename string) string {
	if filename == "" {
		filename = DefaultRulesFile
	}
	if strings.HasPrefix(filename, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			filename = filepath.Join(home, filename[2:])
		}
	}
	if filepath.IsAbs(filename) {
		return filename
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".config", "finance", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return filename
}
