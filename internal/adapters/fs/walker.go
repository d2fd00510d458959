// Package fs provides file system adapters for walking, expanding and hashing files.
package fs

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/zerr"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields all files below root in lexical order, skipping VCS and cache directories
// and names matching one of the ignore patterns.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != root && ignored(d, ignores) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func ignored(d fs.DirEntry, ignores []string) bool {
	name := d.Name()
	if d.IsDir() && (name == ".git" || name == ".jj" || name == domain.TgrDirName) {
		return true
	}
	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}

// ExpandFiles turns file patterns into concrete paths, keeping the order of the patterns.
// Patterns are relative to root and may be globs; directories expand to the files below them.
// A pattern matching nothing fails with domain.ErrInputMissing.
func (w *Walker) ExpandFiles(root string, patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, pattern := range patterns {
		path := pattern
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}

		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "path", path)
		}
		if len(matches) == 0 {
			return nil, zerr.With(domain.ErrInputMissing, "path", path)
		}
		slices.Sort(matches)

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrInputMissing.Error()), "path", match)
			}
			if !info.IsDir() {
				add(match)
				continue
			}
			for file := range w.WalkFiles(match, nil) {
				add(file)
			}
		}
	}
	return out, nil
}
