// Package searchpath holds the ordered list of directories the analysis
// engine is told to search for its plugin packages.
//
// The list is an explicit value handed to the engine, never the process's
// own environment, so path registration can be observed and tested without
// side effects.
package searchpath

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// SearchPath is an ordered, duplicate-free list of directories.
type SearchPath struct {
	dirs []string
}

// New returns a SearchPath seeded with dirs, in order, skipping empty and
// repeated entries.
func New(dirs ...string) *SearchPath {
	sp := &SearchPath{}
	for _, d := range dirs {
		sp.Append(d)
	}
	return sp
}

// Append adds dir to the end of the list unless it is empty or already
// present. It reports whether the list changed.
func (sp *SearchPath) Append(dir string) bool {
	if dir == "" || sp.Contains(dir) {
		return false
	}
	sp.dirs = append(sp.dirs, dir)
	return true
}

// AppendList splits a list in the platform's path-list form (colon
// separated on Unix) and appends each element in order.
func (sp *SearchPath) AppendList(list string) {
	for _, dir := range filepath.SplitList(list) {
		sp.Append(dir)
	}
}

// Contains reports whether dir is already registered.
func (sp *SearchPath) Contains(dir string) bool {
	return slices.Contains(sp.dirs, dir)
}

// Dirs returns a copy of the registered directories.
func (sp *SearchPath) Dirs() []string {
	return slices.Clone(sp.dirs)
}

// Len returns the number of registered directories.
func (sp *SearchPath) Len() int {
	if sp == nil {
		return 0
	}
	return len(sp.dirs)
}

// String renders the list joined with the platform's list separator.
func (sp *SearchPath) String() string {
	if sp == nil {
		return ""
	}
	return strings.Join(sp.dirs, string(os.PathListSeparator))
}

// Environ returns a copy of base with key set to the rendered list,
// replacing any value key already had. Other variables, PYTHONPATH
// included, are left untouched; the engine merges the list into its own
// path.
func (sp *SearchPath) Environ(base []string, key string) []string {
	prefix := key + "="
	out := make([]string, 0, len(base)+1)
	for _, kv := range base {
		if !strings.HasPrefix(kv, prefix) {
			out = append(out, kv)
		}
	}
	if sp.Len() == 0 {
		return out
	}
	return append(out, prefix+sp.String())
}
