package merge_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	gitc "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lockstep/internal/adapters/installer"
	"go.trai.ch/lockstep/internal/core/domain"
	"go.trai.ch/lockstep/internal/core/ports"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}
}

func newShellInstaller() ports.Installer {
	return installer.New()
}

// mergeHistory is a repository checked out at the current side of a merge
// whose incoming side is a sibling commit.
type mergeHistory struct {
	dir      string
	incoming plumbing.Hash
}

func commitManifest(t *testing.T, wt *gitc.Worktree, dir, content string) plumbing.Hash {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(content), domain.FilePerm))
	_, err := wt.Add("package.json")
	require.NoError(t, err)

	hash, err := wt.Commit("update package.json", &gitc.CommitOptions{
		Author: &object.Signature{Name: "lockstep", Email: "lockstep@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash
}

// newMergeHistory commits base, branches incoming off it and leaves HEAD on
// current, also built on base.
func newMergeHistory(t *testing.T, base, current, incoming string) mergeHistory {
	t.Helper()
	dir := t.TempDir()
	repo, err := gitc.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	baseHash := commitManifest(t, wt, dir, base)
	h := mergeHistory{dir: dir, incoming: commitManifest(t, wt, dir, incoming)}
	require.NoError(t, wt.Reset(&gitc.ResetOptions{Commit: baseHash, Mode: gitc.HardReset}))
	commitManifest(t, wt, dir, current)
	return h
}
