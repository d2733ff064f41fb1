package statestore

import (
	"context"

	"github.com/spacemeshos/profilesync/common/types"
)

//go:generate mockgen -typed -package=statestore -destination=./mocks.go -source=./interface.go

// Index is the reconciliation index kept in lock-step with stored states.
type Index interface {
	Add(ctx context.Context, hashes []types.Hash32) error
	Delete(ctx context.Context, hashes []types.Hash32) error
}
