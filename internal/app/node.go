package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lockstep/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/lockstep/internal/adapters/git"       //nolint:depguard // Wired in app layer
	"go.trai.ch/lockstep/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/lockstep/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/lockstep/internal/core/ports"
	"go.trai.ch/lockstep/internal/engine/merge"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			merge.ManifestNodeID,
			merge.LockfileNodeID,
			git.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	manifests, err := graft.Dep[*merge.ManifestMerger](ctx)
	if err != nil {
		return nil, err
	}

	lockfiles, err := graft.Dep[*merge.LockfileCoordinator](ctx)
	if err != nil {
		return nil, err
	}

	configurator, err := graft.Dep[ports.GitConfigurator](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, manifests, lockfiles, configurator, tracer), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
	}, nil
}
