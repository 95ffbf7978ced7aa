package ports

import "go.trai.ch/lockstep/internal/core/domain"

// ConfigLoader defines the interface for loading the lockstep configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load returns the configuration that applies to the given directory.
	// It walks up to the filesystem root looking for a config file and
	// returns the defaults when none is found.
	Load(dir string) (*domain.Config, error)
}
