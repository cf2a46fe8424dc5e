// Package contextcheck cross-references file paths and import statements
// in generated code against a known project file inventory, producing
// fuzzy suggestions for anything that does not resolve.
package contextcheck

import (
	"path"
	"strings"
)

// ProjectContext is an immutable view over the known file paths of one
// project. Build it once per validation session and share freely; all
// methods are read-only.
type ProjectContext struct {
	paths    []string
	fileSet  map[string]bool
	dirSet   map[string]bool
	pyModSet map[string]bool
	jsModSet map[string]bool
}

// NewProjectContext builds a context from an ordered list of file paths.
// The input order is preserved for deterministic suggestion tie-breaks.
func NewProjectContext(filePaths []string) *ProjectContext {
	pc := &ProjectContext{
		fileSet:  make(map[string]bool, len(filePaths)),
		dirSet:   make(map[string]bool),
		pyModSet: make(map[string]bool),
		jsModSet: make(map[string]bool),
	}
	for _, p := range filePaths {
		p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
		if p == "." || pc.fileSet[p] {
			continue
		}
		pc.paths = append(pc.paths, p)
		pc.fileSet[p] = true

		for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
			pc.dirSet[dir] = true
		}

		switch {
		case strings.HasSuffix(p, ".py"):
			mod := strings.ReplaceAll(strings.TrimSuffix(p, ".py"), "/", ".")
			pc.pyModSet[mod] = true
		case hasJSExtension(p):
			pc.jsModSet[p] = true
		}
	}
	return pc
}

// Paths returns the known file paths in their original order. Callers
// must not modify the returned slice.
func (pc *ProjectContext) Paths() []string { return pc.paths }

// Len reports the number of known files.
func (pc *ProjectContext) Len() int { return len(pc.paths) }

// FileExists reports whether the exact path is in the inventory.
func (pc *ProjectContext) FileExists(p string) bool {
	return pc.fileSet[path.Clean(strings.ReplaceAll(p, "\\", "/"))]
}

// DirExists reports whether the path is a directory implied by any
// inventory entry.
func (pc *ProjectContext) DirExists(p string) bool {
	return pc.dirSet[path.Clean(strings.ReplaceAll(p, "\\", "/"))]
}

// HasPythonModule reports whether a dotted module path resolves to a
// project file, directly or as a prefix of a deeper module.
func (pc *ProjectContext) HasPythonModule(module string) bool {
	if pc.pyModSet[module] {
		return true
	}
	// utils.helpers resolves against utils/helpers.py nested anywhere,
	// and a package prefix resolves against any module beneath it.
	slashed := strings.ReplaceAll(module, ".", "/")
	for mod := range pc.pyModSet {
		if strings.Contains(strings.ReplaceAll(mod, ".", "/"), slashed) {
			return true
		}
		if strings.HasPrefix(mod, module+".") {
			return true
		}
	}
	return false
}

// HasJavaScriptModule resolves a relative import specifier against the
// inventory, trying the bare path, common extensions, and index files.
func (pc *ProjectContext) HasJavaScriptModule(specifier string) bool {
	rel := path.Clean(strings.TrimPrefix(specifier, "./"))
	if pc.jsModSet[rel] || pc.fileSet[rel] {
		return true
	}
	for _, ext := range jsExtensions {
		if pc.jsModSet[rel+ext] {
			return true
		}
		if pc.jsModSet[rel+"/index"+ext] {
			return true
		}
	}
	return false
}

var jsExtensions = []string{".js", ".ts", ".jsx", ".tsx"}

func hasJSExtension(p string) bool {
	for _, ext := range jsExtensions {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}
