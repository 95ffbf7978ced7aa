package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lockstep/internal/core/ports"
)

// NodeID is the unique identifier for the file store Graft node.
const NodeID graft.ID = "adapter.fs"

func init() {
	graft.Register(graft.Node[ports.FileStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FileStore, error) {
			return NewStore(), nil
		},
	})
}
