package program

import (
	"os"
	"path/filepath"
	"strings"
)

// typeScriptExtensions are tried, in order, after an extensionless specifier.
var typeScriptExtensions = []string{".ts", ".tsx", ".d.ts"}

// jsToTS maps an emitted-JavaScript extension in a specifier to the
// TypeScript sources that produce it.
var jsToTS = map[string][]string{
	".js":  {".ts", ".tsx", ".d.ts"},
	".jsx": {".tsx"},
	".mjs": {".mts", ".d.mts"},
	".cjs": {".cts", ".d.cts"},
}

// IsTypeScript reports whether path names a TypeScript source.
func IsTypeScript(path string) bool {
	for _, ext := range []string{".ts", ".tsx", ".mts", ".cts"} {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// isRelative reports specifiers that resolve against the importing file.
// Bare specifiers resolve into node_modules, which is never measured.
func isRelative(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") ||
		spec == "." || spec == ".." || filepath.IsAbs(spec)
}

// resolveModule resolves a relative module specifier the way TypeScript's
// node resolution does for sources: the path itself when it is a
// TypeScript file, the JavaScript-to-TypeScript mapping, the path with
// each TypeScript extension, then an index file in the directory.
func resolveModule(fromDir, spec string) (string, bool) {
	if !isRelative(spec) {
		return "", false
	}

	base := spec
	if !filepath.IsAbs(base) {
		base = filepath.Join(fromDir, spec)
	}

	if IsTypeScript(base) && isFile(base) {
		return base, true
	}

	ext := filepath.Ext(base)
	if candidates, ok := jsToTS[ext]; ok {
		trimmed := strings.TrimSuffix(base, ext)
		for _, c := range candidates {
			if isFile(trimmed + c) {
				return trimmed + c, true
			}
		}
	}

	for _, c := range typeScriptExtensions {
		if isFile(base + c) {
			return base + c, true
		}
	}

	for _, c := range typeScriptExtensions {
		index := filepath.Join(base, "index"+c)
		if isFile(index) {
			return index, true
		}
	}

	return "", false
}

// resolveReference resolves a triple-slash reference path. References name
// files, so only missing extensions are filled in.
func resolveReference(fromDir, ref string) (string, bool) {
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(fromDir, ref)
	}

	if isFile(path) {
		return path, IsTypeScript(path)
	}
	for _, c := range typeScriptExtensions {
		if isFile(path + c) {
			return path + c, true
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
