package program

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Expand turns CLI paths into root files. Files are kept as given;
// directories are walked for files with one of the extensions, skipping
// ignored subtrees.
func Expand(paths []string, extensions []string, ignore *Matcher) ([]string, error) {
	var roots []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			roots = append(roots, p)
			continue
		}
		files, err := Discover(p, extensions, ignore)
		if err != nil {
			return nil, err
		}
		roots = append(roots, files...)
	}
	return roots, nil
}

// Discover walks root and returns matching files in lexical order.
func Discover(root string, extensions []string, ignore *Matcher) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	files := []string{}
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != abs && (ignore.Match(path) || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}

		if ignore.Match(path) || !hasExtension(path, extensions) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover files under %s: %w", root, err)
	}

	return files, nil
}

func hasExtension(path string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
