package ports

import "go.trai.ch/lockstep/internal/core/domain"

// FileStore defines the file operations the merge drivers need.
//
//go:generate mockgen -source=file_store.go -destination=mocks/mock_file_store.go -package=mocks
type FileStore interface {
	// ReadFile reads the whole file at path.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the content of path, keeping its permissions.
	// Readers never observe a partially written file.
	WriteFile(path string, data []byte) error

	// Backup copies path to its backup location.
	Backup(path string) (*domain.Backup, error)

	// Restore copies a backup over its source and verifies the result.
	Restore(backup *domain.Backup) error

	// Discard removes a backup. A missing backup file is not an error.
	Discard(backup *domain.Backup) error
}
