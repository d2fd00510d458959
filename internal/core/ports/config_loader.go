package ports

import "go.trai.ch/tgr/internal/core/domain"

// ConfigLoader defines the interface for loading the task configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds the configuration starting at cwd, or reads path directly when it is not empty.
	Load(cwd, path string) (*domain.Project, error)
}
