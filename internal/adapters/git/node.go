package git

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lockstep/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the git configurator Graft node.
	NodeID graft.ID = "adapter.git"
	// InspectorNodeID is the unique identifier for the merge inspector Graft node.
	InspectorNodeID graft.ID = "adapter.git.inspector"
)

func init() {
	graft.Register(graft.Node[ports.GitConfigurator]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.GitConfigurator, error) {
			return NewConfigurator(), nil
		},
	})

	graft.Register(graft.Node[ports.MergeInspector]{
		ID:        InspectorNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.MergeInspector, error) {
			return NewInspector(), nil
		},
	})
}
