package input

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/zerr"
)

// File is an input backed by a file on disk.
type File struct {
	name        string
	path        string
	sensitivity domain.PathSensitivity
}

var _ PathInput = (*File)(nil)

// NewFile creates a file input. Relative paths are made absolute against the working directory.
func NewFile(name, path string, sensitivity domain.PathSensitivity) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidInput.Error()), "path", path)
	}
	return &File{name: name, path: abs, sensitivity: sensitivity}, nil
}

// Name returns the input name.
func (f *File) Name() string { return f.name }

// Path returns the absolute file path.
func (f *File) Path(_ Env) (string, error) { return f.path, nil }

// Sensitivity returns the path sensitivity of the input.
func (f *File) Sensitivity() domain.PathSensitivity { return f.sensitivity }

// Dependencies returns nil; plain files never depend on tasks.
func (f *File) Dependencies() []string { return nil }

// HashReference writes as much of the path as the sensitivity allows.
func (f *File) HashReference(_ Env, h io.Writer) error {
	writeTag(h, tagFile)
	_, _ = h.Write([]byte{byte(f.sensitivity)})
	switch f.sensitivity {
	case domain.SensitivityAbsolute:
		WriteString(h, filepath.ToSlash(f.path))
	case domain.SensitivityNameOnly:
		WriteString(h, filepath.Base(f.path))
	case domain.SensitivityNone:
	}
	return nil
}

// HashContents writes the reference and then the file's bytes, whatever the sensitivity.
func (f *File) HashContents(env Env, h io.Writer) error {
	if err := f.HashReference(env, h); err != nil {
		return err
	}
	return streamFile(h, f.path)
}

// RecordedValue returns the path (as far as the sensitivity allows) and the content hash.
func (f *File) RecordedValue(env Env) (any, error) {
	hash, err := env.HashFile(f.path)
	if err != nil {
		return nil, err
	}
	rec := map[string]any{"hash": hash}
	switch f.sensitivity {
	case domain.SensitivityAbsolute:
		rec["path"] = filepath.ToSlash(f.path)
	case domain.SensitivityNameOnly:
		rec["path"] = filepath.Base(f.path)
	case domain.SensitivityNone:
	}
	return rec, nil
}

// streamFile writes the file size followed by its bytes.
func streamFile(h io.Writer, path string) error {
	file, err := os.Open(path) //nolint:gosec // path comes from the task declaration
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zerr.With(domain.ErrInputMissing, "path", path)
		}
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer file.Close() //nolint:errcheck // read-only file

	info, err := file.Stat()
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}
	if info.IsDir() {
		return zerr.With(domain.ErrInvalidInput, "path", path)
	}

	size := info.Size()
	writeUint64(h, uint64(size)) //nolint:gosec // file sizes are never negative
	n, err := io.Copy(h, file)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}
	if n != size {
		return zerr.With(zerr.With(domain.ErrFileHashFailed, "path", path), "reason", "file changed while hashing")
	}
	return nil
}
