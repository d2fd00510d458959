package input

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/zerr"
)

// SimpleFileList is an explicit, ordered list of file-backed inputs.
// Members may be plain files or other tasks' outputs.
type SimpleFileList struct {
	name  string
	items []PathInput
}

var _ FileList = (*SimpleFileList)(nil)

// NewSimpleFileList creates a list input from its members.
func NewSimpleFileList(name string, items ...PathInput) *SimpleFileList {
	return &SimpleFileList{name: name, items: items}
}

// NewFileListFromPaths creates a list of plain files sharing one sensitivity.
func NewFileListFromPaths(name string, paths []string, sensitivity domain.PathSensitivity) (*SimpleFileList, error) {
	items := make([]PathInput, 0, len(paths))
	for _, p := range paths {
		f, err := NewFile(name, p, sensitivity)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return NewSimpleFileList(name, items...), nil
}

// Name returns the input name.
func (l *SimpleFileList) Name() string { return l.name }

// Dependencies returns the union of the members' dependencies.
func (l *SimpleFileList) Dependencies() []string {
	members := make([]HashableInput, len(l.items))
	for i, item := range l.items {
		members[i] = item
	}
	return Dependencies(members)
}

// HashReference writes the member count and every member's reference.
func (l *SimpleFileList) HashReference(env Env, h io.Writer) error {
	writeTag(h, tagSimpleList)
	WriteCount(h, len(l.items))
	for _, item := range l.items {
		if err := item.HashReference(env, h); err != nil {
			return err
		}
	}
	return nil
}

// HashContents writes the member count and every member's contents.
func (l *SimpleFileList) HashContents(env Env, h io.Writer) error {
	writeTag(h, tagSimpleList)
	WriteCount(h, len(l.items))
	for _, item := range l.items {
		if err := item.HashContents(env, h); err != nil {
			return err
		}
	}
	return nil
}

// RecordedValue returns the members' recorded values in order.
func (l *SimpleFileList) RecordedValue(env Env) (any, error) {
	out := make([]any, 0, len(l.items))
	for _, item := range l.items {
		v, err := item.RecordedValue(env)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Files returns the members' paths in order.
func (l *SimpleFileList) Files(env Env) ([]string, error) {
	files := make([]string, 0, len(l.items))
	for _, item := range l.items {
		p, err := item.Path(env)
		if err != nil {
			return nil, err
		}
		files = append(files, p)
	}
	return files, nil
}

// LibraryList reads its files from a manifest whose lines are file:<path> or artifact:<id>.
// Blank lines and lines starting with # are ignored.
type LibraryList struct {
	name     string
	manifest *File
}

var _ FileList = (*LibraryList)(nil)

// NewLibraryList creates a library list input reading the manifest at path.
func NewLibraryList(name, manifest string, sensitivity domain.PathSensitivity) (*LibraryList, error) {
	f, err := NewFile(name, manifest, sensitivity)
	if err != nil {
		return nil, err
	}
	return &LibraryList{name: name, manifest: f}, nil
}

// Name returns the input name.
func (l *LibraryList) Name() string { return l.name }

// Manifest returns the manifest path.
func (l *LibraryList) Manifest() string { return l.manifest.path }

// Dependencies returns nil; manifests only point at files and artifacts.
func (l *LibraryList) Dependencies() []string { return nil }

// HashReference covers the manifest's own identity only, not what its lines resolve to.
func (l *LibraryList) HashReference(env Env, h io.Writer) error {
	writeTag(h, tagLibrary)
	return l.manifest.HashReference(env, h)
}

// HashContents writes the manifest, then every resolved target's notation and bytes.
func (l *LibraryList) HashContents(env Env, h io.Writer) error {
	writeTag(h, tagLibrary)
	if err := l.manifest.HashContents(env, h); err != nil {
		return err
	}
	entries, err := l.resolve(env)
	if err != nil {
		return err
	}
	WriteCount(h, len(entries))
	for _, e := range entries {
		WriteString(h, e.notation)
		if err := streamFile(h, e.path); err != nil {
			return zerr.With(err, "notation", e.notation)
		}
	}
	return nil
}

// RecordedValue returns the manifest record and every resolved target's hash.
func (l *LibraryList) RecordedValue(env Env) (any, error) {
	manifest, err := l.manifest.RecordedValue(env)
	if err != nil {
		return nil, err
	}
	entries, err := l.resolve(env)
	if err != nil {
		return nil, err
	}
	files := make([]any, 0, len(entries))
	for _, e := range entries {
		hash, err := env.HashFile(e.path)
		if err != nil {
			return nil, err
		}
		files = append(files, map[string]any{"notation": e.notation, "hash": hash})
	}
	return map[string]any{"manifest": manifest, "files": files}, nil
}

// Files returns the resolved target paths in manifest order.
func (l *LibraryList) Files(env Env) ([]string, error) {
	entries, err := l.resolve(env)
	if err != nil {
		return nil, err
	}
	files := make([]string, len(entries))
	for i, e := range entries {
		files[i] = e.path
	}
	return files, nil
}

type libraryEntry struct {
	notation string
	path     string
}

func (l *LibraryList) resolve(env Env) ([]libraryEntry, error) {
	file, err := os.Open(l.manifest.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, zerr.With(domain.ErrInputMissing, "path", l.manifest.path)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", l.manifest.path)
	}
	defer file.Close() //nolint:errcheck // read-only file

	base := filepath.Dir(l.manifest.path)
	var entries []libraryEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		path, err := env.ResolveArtifact(base, line)
		if err != nil {
			return nil, zerr.With(err, "manifest", l.manifest.path)
		}
		entries = append(entries, libraryEntry{notation: line, path: path})
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", l.manifest.path)
	}
	return entries, nil
}

// RecursiveFileList flattens nested file lists, preserving order.
type RecursiveFileList struct {
	name  string
	lists []FileList
}

var _ FileList = (*RecursiveFileList)(nil)

// NewRecursiveFileList creates a list input made of other lists.
func NewRecursiveFileList(name string, lists ...FileList) *RecursiveFileList {
	return &RecursiveFileList{name: name, lists: lists}
}

// Name returns the input name.
func (r *RecursiveFileList) Name() string { return r.name }

// Dependencies returns the union of the nested lists' dependencies.
func (r *RecursiveFileList) Dependencies() []string {
	members := make([]HashableInput, len(r.lists))
	for i, l := range r.lists {
		members[i] = l
	}
	return Dependencies(members)
}

// HashReference writes the list count and every nested list's reference.
func (r *RecursiveFileList) HashReference(env Env, h io.Writer) error {
	writeTag(h, tagRecursive)
	WriteCount(h, len(r.lists))
	for _, l := range r.lists {
		if err := l.HashReference(env, h); err != nil {
			return err
		}
	}
	return nil
}

// HashContents writes the list count and every nested list's contents.
func (r *RecursiveFileList) HashContents(env Env, h io.Writer) error {
	writeTag(h, tagRecursive)
	WriteCount(h, len(r.lists))
	for _, l := range r.lists {
		if err := l.HashContents(env, h); err != nil {
			return err
		}
	}
	return nil
}

// RecordedValue returns the nested lists' recorded values in order.
func (r *RecursiveFileList) RecordedValue(env Env) (any, error) {
	out := make([]any, 0, len(r.lists))
	for _, l := range r.lists {
		v, err := l.RecordedValue(env)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Files returns the flattened files of every nested list.
func (r *RecursiveFileList) Files(env Env) ([]string, error) {
	var files []string
	for _, l := range r.lists {
		f, err := l.Files(env)
		if err != nil {
			return nil, err
		}
		files = append(files, f...)
	}
	return files, nil
}
