// Package merge implements the manifest and lockfile merge drivers.
package merge

import (
	"context"
	"fmt"

	"go.trai.ch/lockstep/internal/core/domain"
	"go.trai.ch/lockstep/internal/core/ports"
	"go.trai.ch/zerr"
)

// ManifestMerger reconciles the dependency sections of three manifest snapshots
// and writes the result over the current one.
type ManifestMerger struct {
	store  ports.FileStore
	logger ports.Logger
	tracer ports.Tracer
}

// NewManifestMerger creates a new ManifestMerger.
func NewManifestMerger(store ports.FileStore, logger ports.Logger, tracer ports.Tracer) *ManifestMerger {
	return &ManifestMerger{store: store, logger: logger, tracer: tracer}
}

// Merge reads the three snapshots named by args, merges them under policy and
// writes the merged manifest to args.Current. The current file is only written
// once every input has been read and parsed.
func (m *ManifestMerger) Merge(ctx context.Context, args domain.DriverArgs, policy domain.Policy) (*domain.MergeReport, error) {
	_, span := m.tracer.Start(ctx, "merge-manifest")
	defer span.End()
	span.SetAttribute("path", args.Current)

	report, err := m.merge(args, policy)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("decisions", len(report.Decisions))
	for _, d := range report.Decisions {
		m.logDecision(d)
	}

	return report, nil
}

func (m *ManifestMerger) merge(args domain.DriverArgs, policy domain.Policy) (*domain.MergeReport, error) {
	ancestor, err := m.load(args.Ancestor)
	if err != nil {
		return nil, err
	}
	current, err := m.load(args.Current)
	if err != nil {
		return nil, err
	}
	incoming, err := m.load(args.Incoming)
	if err != nil {
		return nil, err
	}

	merged, report, err := domain.MergeManifests(ancestor, current, incoming, policy)
	if err != nil {
		return nil, err
	}

	out, err := merged.Marshal()
	if err != nil {
		return nil, ensureKind(err, domain.ErrManifestMarshal)
	}

	if err := m.store.WriteFile(args.Current, out); err != nil {
		return nil, zerr.With(ensureKind(err, domain.ErrOutputWrite), "path", args.Current)
	}

	return report, nil
}

func (m *ManifestMerger) load(path string) (*domain.Manifest, error) {
	data, err := m.store.ReadFile(path)
	if err != nil {
		return nil, zerr.With(ensureKind(err, domain.ErrInputRead), "path", path)
	}

	manifest, err := domain.ParseManifest(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return manifest, nil
}

func (m *ManifestMerger) logDecision(d domain.Decision) {
	switch d.Reason {
	case domain.ReasonSectionAdopted:
		m.logger.Info(fmt.Sprintf("%s: taken from incoming", d.Section))
	case domain.ReasonAdded:
		m.logger.Info(fmt.Sprintf("%s.%s: added %s", d.Section, d.Package, d.Chosen))
	case domain.ReasonIncomingNewer:
		m.logger.Info(fmt.Sprintf("%s.%s: %s -> %s", d.Section, d.Package, d.Current, d.Chosen))
	case domain.ReasonCurrentNewer:
		m.logger.Info(fmt.Sprintf("%s.%s: kept %s over %s", d.Section, d.Package, d.Current, d.Incoming))
	case domain.ReasonNotComparable:
		m.logger.Warn(fmt.Sprintf("%s.%s: cannot compare %q and %q, kept %s",
			d.Section, d.Package, d.Current, d.Incoming, d.Current))
	}
}

// ensureKind wraps err with kind unless it already carries it.
func ensureKind(err error, kind error) error {
	if domain.Kind(err) == kind {
		return err
	}
	return zerr.Wrap(err, kind.Error())
}
