package merge

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lockstep/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lockstep/internal/adapters/git"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lockstep/internal/adapters/installer" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lockstep/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lockstep/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/lockstep/internal/core/ports"
)

const (
	// ManifestNodeID is the unique identifier for the manifest merger Graft node.
	ManifestNodeID graft.ID = "engine.merge.manifest"
	// LockfileNodeID is the unique identifier for the lockfile coordinator Graft node.
	LockfileNodeID graft.ID = "engine.merge.lockfile"
)

func init() {
	graft.Register(graft.Node[*ManifestMerger]{
		ID:        ManifestNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*ManifestMerger, error) {
			store, err := graft.Dep[ports.FileStore](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return NewManifestMerger(store, log, tracer), nil
		},
	})

	graft.Register(graft.Node[*LockfileCoordinator]{
		ID:        LockfileNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.NodeID,
			git.InspectorNodeID,
			installer.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*LockfileCoordinator, error) {
			store, err := graft.Dep[ports.FileStore](ctx)
			if err != nil {
				return nil, err
			}

			inspector, err := graft.Dep[ports.MergeInspector](ctx)
			if err != nil {
				return nil, err
			}

			inst, err := graft.Dep[ports.Installer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return NewLockfileCoordinator(store, inspector, inst, log, tracer), nil
		},
	})
}
