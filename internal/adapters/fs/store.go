// Package fs implements the file operations of the merge drivers.
package fs

import (
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/lockstep/internal/core/domain"
	"go.trai.ch/lockstep/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileStore = (*Store)(nil)

// Store implements ports.FileStore on the local filesystem.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// ReadFile reads the whole file at path.
func (s *Store) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is supplied by git
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read file"), "path", path)
	}
	return data, nil
}

// WriteFile atomically replaces path with data. An existing file keeps its mode.
func (s *Store) WriteFile(path string, data []byte) error {
	mode := fileMode(path)
	err := writeAtomic(path, mode, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", path)
	}
	return nil
}

// Backup copies path next to itself and records the digest of its content.
func (s *Store) Backup(path string) (*domain.Backup, error) {
	backupPath := domain.BackupPath(path)

	src, err := os.Open(path) //nolint:gosec // Path is supplied by git
	if err != nil {
		return nil, backupError(err, path)
	}
	defer src.Close() //nolint:errcheck // Read-only handle

	info, err := src.Stat()
	if err != nil {
		return nil, backupError(err, path)
	}

	dst, err := os.OpenFile(backupPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()) //nolint:gosec // Backup lives next to its source
	if err != nil {
		return nil, backupError(err, path)
	}

	digest := xxhash.New()
	size, copyErr := io.Copy(io.MultiWriter(dst, digest), src)
	if copyErr == nil {
		copyErr = dst.Sync()
	}
	if closeErr := dst.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(backupPath)
		return nil, backupError(copyErr, path)
	}

	return &domain.Backup{
		Source: path,
		Path:   backupPath,
		Mode:   info.Mode().Perm(),
		Digest: digest.Sum64(),
		Size:   size,
	}, nil
}

// Restore copies the backup over its source. The source is only replaced when
// the backup still matches the digest recorded at backup time.
func (s *Store) Restore(backup *domain.Backup) error {
	src, err := os.Open(backup.Path)
	if err != nil {
		return restoreError(err, backup)
	}
	defer src.Close() //nolint:errcheck // Read-only handle

	err = writeAtomic(backup.Source, backup.Mode, func(w io.Writer) error {
		digest := xxhash.New()
		if _, err := io.Copy(io.MultiWriter(w, digest), src); err != nil {
			return err
		}
		if got := digest.Sum64(); got != backup.Digest {
			err := zerr.With(domain.ErrBackupDigestMismatch, "expected", formatDigest(backup.Digest))
			return zerr.With(err, "actual", formatDigest(got))
		}
		return nil
	})
	if err != nil {
		return restoreError(err, backup)
	}
	return nil
}

// Discard removes the backup file. A missing file is not an error.
func (s *Store) Discard(backup *domain.Backup) error {
	if backup == nil {
		return nil
	}
	if err := os.Remove(backup.Path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove backup"), "path", backup.Path)
	}
	return nil
}

// writeAtomic writes through a temporary file in the target directory and
// renames it over path once fill succeeds.
func writeAtomic(path string, mode iofs.FileMode, fill func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	err = fill(tmp)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpPath, mode)
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func formatDigest(d uint64) string {
	return fmt.Sprintf("%016x", d)
}

func fileMode(path string) iofs.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return domain.FilePerm
	}
	return info.Mode().Perm()
}

func backupError(err error, path string) error {
	return zerr.With(zerr.Wrap(err, domain.ErrBackupFailed.Error()), "path", path)
}

func restoreError(err error, backup *domain.Backup) error {
	return zerr.With(zerr.Wrap(err, domain.ErrRestoreFailed.Error()), "backup", backup.Path)
}
