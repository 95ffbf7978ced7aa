package ports

import (
	"context"

	"go.trai.ch/lockstep/internal/core/domain"
)

// Installer regenerates a lockfile by delegating to the package manager.
//
//go:generate mockgen -source=installer.go -destination=mocks/mock_installer.go -package=mocks
type Installer interface {
	// Regenerate runs cmd in dir and returns once the package manager exits.
	// A nil error means dir now holds a lockfile matching the manifest.
	Regenerate(ctx context.Context, dir string, cmd domain.InstallCommand) error
}
