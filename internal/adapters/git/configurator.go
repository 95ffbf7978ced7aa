// Package git registers merge drivers in a Git repository.
package git

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitc "github.com/go-git/go-git/v5"
	"go.trai.ch/lockstep/internal/core/domain"
	"go.trai.ch/lockstep/internal/core/ports"
	"go.trai.ch/zerr"
)

const mergeSection = "merge"

var _ ports.GitConfigurator = (*Configurator)(nil)

// Configurator implements ports.GitConfigurator with go-git.
type Configurator struct{}

// NewConfigurator creates a new Configurator.
func NewConfigurator() *Configurator {
	return &Configurator{}
}

// Install writes merge.<name>.name and merge.<name>.driver to the repository's
// local config and appends missing routing lines to the worktree .gitattributes.
// Running it again changes nothing.
func (c *Configurator) Install(ctx context.Context, dir string, drivers []domain.DriverSpec) (*domain.InstallResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo, wt, err := openRepository(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := repo.Config()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrGitConfigFailed.Error())
	}

	section := cfg.Raw.Section(mergeSection)
	for _, d := range drivers {
		section.Subsection(d.Name).
			SetOption("name", d.Description).
			SetOption("driver", d.Command)
	}

	if err := repo.SetConfig(cfg); err != nil {
		return nil, zerr.Wrap(err, domain.ErrGitConfigFailed.Error())
	}

	root := wt.Filesystem.Root()
	attributesPath := filepath.Join(root, domain.GitAttributesFileName)
	added, err := appendAttributes(attributesPath, drivers)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrAttributesWriteFailed.Error()), "path", attributesPath)
	}

	return &domain.InstallResult{
		Root:            root,
		AttributesPath:  attributesPath,
		AddedAttributes: added,
	}, nil
}

// openRepository opens the repository containing dir and its worktree.
// Bare repositories are reported as ErrNotARepository.
func openRepository(dir string) (*gitc.Repository, *gitc.Worktree, error) {
	repo, err := gitc.PlainOpenWithOptions(dir, &gitc.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, gitc.ErrRepositoryNotExists) {
			return nil, nil, zerr.With(domain.ErrNotARepository, "dir", dir)
		}
		return nil, nil, zerr.With(zerr.Wrap(err, domain.ErrGitConfigFailed.Error()), "dir", dir)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, nil, zerr.With(zerr.Wrap(err, domain.ErrNotARepository.Error()), "dir", dir)
	}
	return repo, wt, nil
}

// appendAttributes adds the attribute line of every driver not yet routed.
func appendAttributes(path string, drivers []domain.DriverSpec) ([]string, error) {
	existing, err := os.ReadFile(path) //nolint:gosec // Path is inside the worktree
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(existing), "\n") {
		present[normalizeAttribute(line)] = true
	}

	var added []string
	var b strings.Builder
	b.Write(existing)
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		b.WriteByte('\n')
	}
	for _, d := range drivers {
		line := d.AttributeLine()
		if present[normalizeAttribute(line)] {
			continue
		}
		present[normalizeAttribute(line)] = true
		added = append(added, line)
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if len(added) == 0 {
		return nil, nil
	}
	if err := os.WriteFile(path, []byte(b.String()), domain.FilePerm); err != nil {
		return nil, err
	}
	return added, nil
}

func normalizeAttribute(line string) string {
	return strings.Join(strings.Fields(line), " ")
}
