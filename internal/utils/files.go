package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// InputExtensions lists the file extensions accepted as generator inputs.
var InputExtensions = []string{".json", ".yaml", ".yml"}

// IsInputFile reports whether path has one of InputExtensions.
func IsInputFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range InputExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// FindInputFiles recursively finds all input files in dir, in lexical order.
func FindInputFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if IsInputFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// ExpandInputs replaces every directory in args with the input files it
// contains. Files are passed through unchanged whatever their extension.
func ExpandInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}

		files, err := FindInputFiles(arg)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no input files found in %s", arg)
		}
		inputs = append(inputs, files...)
	}
	return inputs, nil
}
