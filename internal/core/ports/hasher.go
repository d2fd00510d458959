package ports

// Hasher fingerprints file contents.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashFile returns the hex content hash of the file at path.
	HashFile(path string) (string, error)
}
