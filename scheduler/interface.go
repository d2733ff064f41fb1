package scheduler

import (
	"context"

	"github.com/spacemeshos/profilesync/common/types"
)

//go:generate mockgen -typed -package=scheduler -destination=./mocks.go -source=./interface.go

type partnerLister interface {
	Partners() ([]types.Partner, error)
}

type clientSyncer interface {
	SynchronizeAsClient(ctx context.Context, name string) error
}
