package fs

import (
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/tgr/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	notationFile     = "file"
	notationArtifact = "artifact"

	resolverCacheSize = 1024
)

var _ ports.ArtifactResolver = (*ArtifactResolver)(nil)

// ArtifactResolver resolves library manifest lines to files.
// "file:<path>" is taken relative to the manifest directory, "artifact:<id>"
// is looked up in the configured artifact table.
type ArtifactResolver struct {
	root      string
	artifacts map[string]string
	cache     *lru.Cache[string, string]
}

// NewArtifactResolver creates a resolver for the artifact table of a project.
// Relative artifact paths are resolved against root.
func NewArtifactResolver(root string, artifacts map[string]string) (*ArtifactResolver, error) {
	cache, err := lru.New[string, string](resolverCacheSize)
	if err != nil {
		return nil, err
	}
	return &ArtifactResolver{root: root, artifacts: artifacts, cache: cache}, nil
}

// Resolve returns the cleaned path named by notation.
func (r *ArtifactResolver) Resolve(base, notation string) (string, error) {
	key := base + "\x00" + notation
	if path, ok := r.cache.Get(key); ok {
		return path, nil
	}

	kind, value, ok := strings.Cut(strings.TrimSpace(notation), ":")
	if !ok || value == "" {
		return "", zerr.With(domain.ErrInvalidNotation, "notation", notation)
	}

	var path string
	switch kind {
	case notationFile:
		path = absolute(base, value)
	case notationArtifact:
		target, known := r.artifacts[value]
		if !known {
			return "", zerr.With(domain.ErrUnknownArtifact, "artifact", value)
		}
		path = absolute(r.root, target)
	default:
		return "", zerr.With(domain.ErrInvalidNotation, "notation", notation)
	}

	r.cache.Add(key, path)
	return path, nil
}

func absolute(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
