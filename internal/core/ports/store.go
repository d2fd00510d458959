package ports

import "go.trai.ch/tgr/internal/core/domain"

// StateStore reads and writes task state records.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type StateStore interface {
	// Get reads the state record at path.
	// Returns nil, nil if no record exists.
	Get(path string) (*domain.StateRecord, error)

	// Put writes the state record at path, replacing any previous record atomically.
	Put(path string, record *domain.StateRecord) error

	// Touch updates LastAccessed of the record at path.
	Touch(path string, record *domain.StateRecord, accessedMillis int64) error
}
