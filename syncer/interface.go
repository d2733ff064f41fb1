package syncer

import (
	"context"
	"io"
	"time"

	"github.com/spacemeshos/profilesync/common/types"
)

//go:generate mockgen -typed -package=syncer -destination=./mocks.go -source=./interface.go

type sessionRunner interface {
	SyncAsServer(ctx context.Context, partner string, stream io.ReadWriter) ([]types.Claim, error)
	SyncAsClient(ctx context.Context, partner string, stream io.ReadWriter) ([]types.Claim, error)
}

type partnerStore interface {
	Partner(name string) (types.Partner, error)
	UpdateLastConnection(name string, t time.Time) error
}

type claimSink interface {
	SubmitAddress(address string) error
	SubmitClaims(claims []types.Claim) int
}

type dialer interface {
	Session(ctx context.Context, address, name, password string, fn func(io.ReadWriter) error) error
}
