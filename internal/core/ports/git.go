package ports

import (
	"context"

	"go.trai.ch/lockstep/internal/core/domain"
)

// GitConfigurator registers merge drivers in a repository.
//
//go:generate mockgen -source=git.go -destination=mocks/mock_git.go -package=mocks
type GitConfigurator interface {
	// Install registers drivers in the repository containing dir, using the
	// repository-local configuration and the worktree's .gitattributes.
	Install(ctx context.Context, dir string, drivers []domain.DriverSpec) (*domain.InstallResult, error)
}

// MergeInspector reads the versions of a file taking part in the merge Git is
// currently running.
type MergeInspector interface {
	// Snapshots returns the ancestor, current and incoming versions of the file
	// at path. It fails with domain.ErrNoMergeInProgress when the commits being
	// merged cannot be identified.
	Snapshots(ctx context.Context, path string) (*domain.Snapshots, error)
}
