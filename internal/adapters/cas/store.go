// Package cas stores task state records next to the content-addressed task outputs.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store implements ports.StateStore with one JSON file per record.
type Store struct{}

var _ ports.StateStore = (*Store)(nil)

// NewStore creates a new state record store.
func NewStore() *Store {
	return &Store{}
}

// Get reads the record at path. A missing record is not an error.
func (s *Store) Get(path string) (*domain.StateRecord, error) {
	//nolint:gosec // path is built from the cache root and hashes
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "path", path)
	}

	var record domain.StateRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "path", path)
	}
	return &record, nil
}

// Put writes the record through a temporary file so readers never see a partial record.
func (s *Store) Put(path string, record *domain.StateRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}
	if err := writeAtomic(path, data); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", path)
	}
	return nil
}

// Touch sets LastAccessed and rewrites the record.
func (s *Store) Touch(path string, record *domain.StateRecord, accessedMillis int64) error {
	updated := *record
	updated.LastAccessed = accessedMillis
	if err := s.Put(path, &updated); err != nil {
		return err
	}
	record.LastAccessed = accessedMillis
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
