package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"go.trai.ch/lockstep/internal/core/domain"
	"go.trai.ch/lockstep/internal/core/ports"
	"go.trai.ch/zerr"
)

// mergeHeadPrefix names the variables `git merge` exports for each merged
// commit, e.g. GITHEAD_<sha>=feature, while its strategy and drivers run.
const mergeHeadPrefix = "GITHEAD_"

var _ ports.MergeInspector = (*Inspector)(nil)

// Inspector implements ports.MergeInspector with go-git. It identifies the
// incoming commit from the environment `git merge` hands to merge drivers and
// reads the file from HEAD, the incoming commit and their merge base.
type Inspector struct {
	environ func() []string
}

// NewInspector creates a new Inspector reading the process environment.
func NewInspector() *Inspector {
	return &Inspector{environ: os.Environ}
}

// Snapshots returns the three versions of the file at path.
func (i *Inspector) Snapshots(ctx context.Context, path string) (*domain.Snapshots, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	incomingHash, ok := i.incomingHead()
	if !ok {
		return nil, domain.ErrNoMergeInProgress
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInputRead.Error()), "path", path)
	}

	repo, wt, err := openRepository(filepath.Dir(abs))
	if err != nil {
		if domain.Kind(err) == domain.ErrNotARepository {
			return nil, zerr.With(domain.ErrNoMergeInProgress, "path", path)
		}
		return nil, err
	}

	rel, err := filepath.Rel(wt.Filesystem.Root(), abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, zerr.With(domain.ErrNoMergeInProgress, "path", path)
	}
	rel = filepath.ToSlash(rel)

	head, err := repo.Head()
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrNoMergeInProgress.Error()), "ref", "HEAD")
	}
	current, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInputRead.Error()), "commit", head.Hash().String())
	}
	incoming, err := repo.CommitObject(incomingHash)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrNoMergeInProgress.Error()), "commit", incomingHash.String())
	}

	snapshots := &domain.Snapshots{}
	if snapshots.Current, err = readFile(current, rel); err != nil {
		return nil, err
	}
	if snapshots.Incoming, err = readFile(incoming, rel); err != nil {
		return nil, err
	}

	bases, err := current.MergeBase(incoming)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrInputRead.Error())
	}
	if len(bases) > 0 {
		if snapshots.Ancestor, err = readFile(bases[0], rel); err != nil {
			return nil, err
		}
	}

	return snapshots, nil
}

// incomingHead returns the single commit named by a GITHEAD_ variable.
// Octopus merges export several and are not inspected.
func (i *Inspector) incomingHead() (plumbing.Hash, bool) {
	var found []plumbing.Hash
	for _, kv := range i.environ() {
		name, _, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, mergeHeadPrefix) {
			continue
		}
		if sha := strings.TrimPrefix(name, mergeHeadPrefix); plumbing.IsHash(sha) {
			found = append(found, plumbing.NewHash(sha))
		}
	}
	if len(found) != 1 {
		return plumbing.ZeroHash, false
	}
	return found[0], true
}

// readFile returns the file's content at commit, or nil when it does not exist there.
func readFile(commit *object.Commit, path string) ([]byte, error) {
	file, err := commit.File(path)
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInputRead.Error()), "commit", commit.Hash.String())
	}

	content, err := file.Contents()
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInputRead.Error()), "path", path)
	}
	return []byte(content), nil
}
