package fs_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockstep/internal/adapters/fs"
	"go.trai.ch/lockstep/internal/core/domain"
)

func writeFixture(t *testing.T, dir, name, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
	require.NoError(t, os.Chmod(path, mode))
	return path
}

func TestStore_ReadFile(t *testing.T) {
	store := fs.NewStore()
	path := writeFixture(t, t.TempDir(), "package.json", "{}\n", 0o644)

	data, err := store.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))

	_, err = store.ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_WriteFile_KeepsMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not preserved on windows")
	}

	store := fs.NewStore()
	dir := t.TempDir()
	path := writeFixture(t, dir, "package.json", "old", 0o600)

	require.NoError(t, store.WriteFile(path, []byte("new")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestStore_WriteFile_NewFile(t *testing.T) {
	store := fs.NewStore()
	path := filepath.Join(t.TempDir(), "package.json")

	require.NoError(t, store.WriteFile(path, []byte("{}\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestStore_WriteFile_MissingDir(t *testing.T) {
	store := fs.NewStore()
	path := filepath.Join(t.TempDir(), "absent", "package.json")

	require.Error(t, store.WriteFile(path, []byte("{}")))
}

func TestStore_BackupRestoreDiscard(t *testing.T) {
	store := fs.NewStore()
	dir := t.TempDir()
	path := writeFixture(t, dir, "yarn.lock", "# yarn lockfile v1\n", 0o644)

	backup, err := store.Backup(path)
	require.NoError(t, err)
	assert.Equal(t, path, backup.Source)
	assert.Equal(t, path+domain.BackupSuffix, backup.Path)
	assert.Equal(t, int64(len("# yarn lockfile v1\n")), backup.Size)
	assert.FileExists(t, backup.Path)

	// The package manager trashes the lockfile.
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	require.NoError(t, store.Restore(backup))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# yarn lockfile v1\n", string(data))

	require.NoError(t, store.Discard(backup))
	assert.NoFileExists(t, backup.Path)

	// Discarding twice is fine.
	require.NoError(t, store.Discard(backup))
	require.NoError(t, store.Discard(nil))
}

func TestStore_Backup_MissingSource(t *testing.T) {
	store := fs.NewStore()
	path := filepath.Join(t.TempDir(), "yarn.lock")

	backup, err := store.Backup(path)
	require.Error(t, err)
	assert.Nil(t, backup)
	assert.Equal(t, domain.ErrBackupFailed, domain.Kind(err))
	assert.NoFileExists(t, domain.BackupPath(path))
}

func TestStore_Backup_Overwrites(t *testing.T) {
	store := fs.NewStore()
	dir := t.TempDir()
	path := writeFixture(t, dir, "yarn.lock", "fresh", 0o644)
	writeFixture(t, dir, "yarn.lock"+domain.BackupSuffix, "stale backup from a crashed run", 0o644)

	backup, err := store.Backup(path)
	require.NoError(t, err)

	data, err := os.ReadFile(backup.Path)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
}

func TestStore_Restore_DigestMismatch(t *testing.T) {
	store := fs.NewStore()
	dir := t.TempDir()
	path := writeFixture(t, dir, "yarn.lock", "original", 0o644)

	backup, err := store.Backup(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(backup.Path, []byte("tampered"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("regenerated"), 0o644))

	err = store.Restore(backup)
	require.Error(t, err)
	assert.Equal(t, domain.ErrRestoreFailed, domain.Kind(err))
	assert.ErrorContains(t, err, domain.ErrBackupDigestMismatch.Error())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "regenerated", string(data), "source must not be replaced by a corrupt backup")
}

func TestStore_Restore_MissingBackup(t *testing.T) {
	store := fs.NewStore()
	dir := t.TempDir()
	path := writeFixture(t, dir, "yarn.lock", "original", 0o644)

	backup, err := store.Backup(path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(backup.Path))

	err = store.Restore(backup)
	require.Error(t, err)
	assert.Equal(t, domain.ErrRestoreFailed, domain.Kind(err))
}
