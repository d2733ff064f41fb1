package sync2

import (
	"context"
	"io"

	"github.com/spacemeshos/profilesync/common/types"
)

//go:generate mockgen -typed -package=sync2 -destination=./mocks.go -source=./interface.go

// Engine finds the hashes a peer has that are missing from the local index.
// ReconcileAsServer and ReconcileAsClient take over the stream until they return and must
// not read past their own messages.
type Engine interface {
	Add(ctx context.Context, hashes []types.Hash32) error
	Delete(ctx context.Context, hashes []types.Hash32) error
	ReconcileAsServer(ctx context.Context, stream io.ReadWriter) ([]types.Hash32, error)
	ReconcileAsClient(ctx context.Context, stream io.ReadWriter) ([]types.Hash32, error)
}

// StateSource provides the local states and ghosts exchanged with partners.
type StateSource interface {
	// ValidState returns the state with the hash, stripped if it is too old to vouch for.
	ValidState(hash types.Hash32) (types.State, error)
	// ByHash returns the state with the hash as stored.
	ByHash(hash types.Hash32) (types.State, error)
	// Ghost returns the ghost of a deleted state.
	Ghost(hash types.Hash32) (types.Ghost, error)
}
