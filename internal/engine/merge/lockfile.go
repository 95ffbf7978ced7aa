package merge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.trai.ch/lockstep/internal/core/domain"
	"go.trai.ch/lockstep/internal/core/ports"
	"go.trai.ch/zerr"
)

// LockfileSettings configures one lockfile driver run.
type LockfileSettings struct {
	// ManifestName is the manifest file checked for conflict markers.
	ManifestName string
	// LockfileName is the file the package manager writes in the working directory.
	LockfileName string
	// Command regenerates the lockfile.
	Command domain.InstallCommand
	// Policy reconciles the manifest when a running merge changes it on both sides.
	Policy domain.Policy
}

// LockfileCoordinator regenerates the lockfile once the sibling manifest is free
// of conflict markers, and leaves it alone otherwise.
//
// Git resolves every path of a merge before it updates the worktree, so while
// `git merge` runs the worktree manifest is still the pre-merge one. The
// coordinator then rebuilds the manifest the merge will record and stages it in
// the worktree for the package manager; Git later writes the same content there.
type LockfileCoordinator struct {
	store     ports.FileStore
	inspector ports.MergeInspector
	installer ports.Installer
	logger    ports.Logger
	tracer    ports.Tracer
}

// NewLockfileCoordinator creates a new LockfileCoordinator.
func NewLockfileCoordinator(
	store ports.FileStore,
	inspector ports.MergeInspector,
	installer ports.Installer,
	logger ports.Logger,
	tracer ports.Tracer,
) *LockfileCoordinator {
	return &LockfileCoordinator{
		store:     store,
		inspector: inspector,
		installer: installer,
		logger:    logger,
		tracer:    tracer,
	}
}

// Merge defers while the manifest is unresolved and regenerates the lockfile
// otherwise. A failed regeneration restores the lockfile from its backup.
func (c *LockfileCoordinator) Merge(
	ctx context.Context,
	args domain.DriverArgs,
	settings LockfileSettings,
) (domain.LockfileOutcome, error) {
	ctx, span := c.tracer.Start(ctx, "merge-lockfile")
	defer span.End()

	dir := args.WorkDir()
	manifestPath := filepath.Join(dir, settings.ManifestName)
	span.SetAttribute("dir", dir)

	manifest, err := c.readManifest(manifestPath)
	if err != nil {
		span.RecordError(err)
		return domain.OutcomeFailed, err
	}

	if domain.HasConflictMarkers(string(manifest)) {
		return c.deferMerge(span, fmt.Sprintf(
			"%s has unresolved conflicts, %s was left untouched; resolve the manifest, then run `lockstep merge-lockfile` or the package manager",
			manifestPath, args.Current,
		)), nil
	}

	state, err := c.stagePendingManifest(ctx, manifestPath, manifest, settings.Policy)
	switch state {
	case manifestUnresolved:
		return c.deferMerge(span, fmt.Sprintf(
			"the merge leaves %s unresolved (%s), %s was left untouched; resolve the manifest, then run the package manager",
			manifestPath, unresolvedDetail(err), args.Current,
		)), nil
	case manifestDeleted:
		return c.deferMerge(span, fmt.Sprintf(
			"the merge deletes %s, %s was left untouched", manifestPath, args.Current,
		)), nil
	}
	if err != nil {
		span.RecordError(err)
		return domain.OutcomeFailed, err
	}

	if err := c.regenerate(ctx, dir, args.Current, settings); err != nil {
		span.SetAttribute("outcome", domain.OutcomeFailed.String())
		span.RecordError(err)
		return domain.OutcomeFailed, err
	}

	span.SetAttribute("outcome", domain.OutcomeRegenerated.String())
	return domain.OutcomeRegenerated, nil
}

func (c *LockfileCoordinator) deferMerge(span ports.Span, reason string) domain.LockfileOutcome {
	span.SetAttribute("outcome", domain.OutcomeDeferred.String())
	c.logger.Warn(reason)
	return domain.OutcomeDeferred
}

func (c *LockfileCoordinator) readManifest(path string) ([]byte, error) {
	data, err := c.store.ReadFile(path)
	if err != nil {
		return nil, zerr.With(ensureKind(err, domain.ErrInputRead), "path", path)
	}
	return data, nil
}

// manifestState is what a running merge does to the manifest.
type manifestState int

const (
	manifestReady manifestState = iota
	manifestDeleted
	manifestUnresolved
)

// stagePendingManifest writes the manifest the running merge will record over
// the worktree manifest when the two differ. Outside a merge the worktree
// manifest is used as it is. For manifestUnresolved the error explains why the
// merge cannot produce a clean manifest; any other error is a failure.
func (c *LockfileCoordinator) stagePendingManifest(
	ctx context.Context,
	path string,
	worktree []byte,
	policy domain.Policy,
) (manifestState, error) {
	snapshots, err := c.inspector.Snapshots(ctx, path)
	if domain.Kind(err) == domain.ErrNoMergeInProgress {
		return manifestReady, nil
	}
	if err != nil {
		c.logger.Warn(fmt.Sprintf("could not inspect the running merge (%v), regenerating against %s as it is", err, path))
		return manifestReady, nil
	}

	pending, err := domain.PendingManifest(snapshots, policy)
	if err != nil {
		return manifestUnresolved, err
	}
	if pending == nil {
		return manifestDeleted, nil
	}
	if bytes.Equal(pending, worktree) {
		return manifestReady, nil
	}

	if err := c.store.WriteFile(path, pending); err != nil {
		return manifestReady, zerr.With(ensureKind(err, domain.ErrOutputWrite), "path", path)
	}
	c.logger.Info(fmt.Sprintf("staged the merged %s for regeneration", path))
	return manifestReady, nil
}

// unresolvedDetail renders err with the metadata that names what is unresolved.
func unresolvedDetail(err error) string {
	detail := err.Error()
	var zErr *zerr.Error
	if !errors.As(err, &zErr) {
		return detail
	}
	meta := zErr.Metadata()
	for _, key := range []string{"side", "reason", "packages"} {
		if value, ok := meta[key]; ok {
			detail += fmt.Sprintf(", %s: %v", key, value)
		}
	}
	return detail
}

func (c *LockfileCoordinator) regenerate(ctx context.Context, dir, current string, settings LockfileSettings) error {
	ctx, span := c.tracer.Start(ctx, "regenerate")
	defer span.End()
	span.SetAttribute("command", settings.Command.String())

	backup, err := c.store.Backup(current)
	if err != nil {
		err = zerr.With(ensureKind(err, domain.ErrBackupFailed), "path", current)
		span.RecordError(err)
		return err
	}
	defer func() {
		if err := c.store.Discard(backup); err != nil {
			c.logger.Warn(fmt.Sprintf("could not remove backup %s: %v", backup.Path, err))
		}
	}()

	c.logger.Info(fmt.Sprintf("regenerating %s with %s", settings.LockfileName, settings.Command))

	err = c.installer.Regenerate(ctx, dir, settings.Command)
	if err == nil {
		err = c.publish(dir, current, settings.LockfileName)
	}
	if err != nil {
		span.RecordError(err)
		return c.rollback(backup, err)
	}

	c.logger.Info(fmt.Sprintf("regenerated %s", settings.LockfileName))
	return nil
}

// publish copies the package manager's lockfile into the current path when git
// handed the driver a temporary file.
func (c *LockfileCoordinator) publish(dir, current, lockfileName string) error {
	generated := filepath.Join(dir, lockfileName)
	if samePath(generated, current) {
		return nil
	}

	data, err := c.store.ReadFile(generated)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRegenerationFailed.Error()), "lockfile", generated)
	}
	if err := c.store.WriteFile(current, data); err != nil {
		return zerr.With(ensureKind(err, domain.ErrOutputWrite), "path", current)
	}
	return nil
}

// rollback restores the backup after a failed regeneration. The regeneration
// error is returned either way; a failed restore is reported alongside it.
func (c *LockfileCoordinator) rollback(backup *domain.Backup, cause error) error {
	cause = ensureKind(cause, domain.ErrRegenerationFailed)

	if err := c.store.Restore(backup); err != nil {
		c.logger.Error(ensureKind(err, domain.ErrRestoreFailed))
		return zerr.With(cause, "restored", false)
	}

	c.logger.Warn(fmt.Sprintf("restored %s from backup", backup.Source))
	return zerr.With(cause, "restored", true)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
