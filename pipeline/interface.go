package pipeline

import (
	"context"

	"github.com/spacemeshos/profilesync/common/types"
)

//go:generate mockgen -typed -package=pipeline -destination=./mocks.go -source=./interface.go

// Fetcher retrieves the current state of an address from the address itself.
type Fetcher interface {
	Fetch(ctx context.Context, address string) (types.State, error)
}

// TrustEngine decides whether partner claims are trusted and records audit outcomes.
type TrustEngine interface {
	Partner(name string) (types.Partner, error)
	RecordSuccess(partner string) error
	RecordFailure(ctx context.Context, partner, address string) (bool, error)
	RecordViolation(ctx context.Context, partner, description string) error
}

// StateStore commits trusted states.
type StateStore interface {
	Save(ctx context.Context, state types.State) (bool, error)
}

// Verifier checks profile signatures.
type Verifier interface {
	VerifyProfile(state *types.State) error
}
