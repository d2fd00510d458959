package ports

// ArtifactResolver maps artifact manifest notations to filesystem paths.
//
//go:generate mockgen -source=artifacts.go -destination=mocks/mock_artifacts.go -package=mocks
type ArtifactResolver interface {
	// Resolve resolves "file:<path>" or "artifact:<id>" to an absolute path.
	// Relative file paths are resolved against base.
	Resolve(base, notation string) (string, error)
}
