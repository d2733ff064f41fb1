package sync2

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/spacemeshos/profilesync/common/types"
)

// Gateway wraps the reconciliation engine. Index updates are passed through, while
// failed or timed out reconciliations are reported as no missing hashes.
type Gateway struct {
	logger  *zap.Logger
	engine  Engine
	timeout time.Duration
}

// GatewayOpt configures Gateway.
type GatewayOpt func(*Gateway)

// WithGatewayLogger sets the logger of the gateway.
func WithGatewayLogger(logger *zap.Logger) GatewayOpt {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// WithReconcileTimeout bounds the duration of reconciliation.
func WithReconcileTimeout(timeout time.Duration) GatewayOpt {
	return func(g *Gateway) {
		g.timeout = timeout
	}
}

// NewGateway creates a gateway for the engine.
func NewGateway(engine Engine, opts ...GatewayOpt) *Gateway {
	g := &Gateway{
		logger:  zap.NewNop(),
		engine:  engine,
		timeout: DefaultConfig().Timeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Add adds hashes to the index.
func (g *Gateway) Add(ctx context.Context, hashes []types.Hash32) error {
	return g.engine.Add(ctx, hashes)
}

// Delete removes hashes from the index.
func (g *Gateway) Delete(ctx context.Context, hashes []types.Hash32) error {
	return g.engine.Delete(ctx, hashes)
}

// ReconcileAsServer returns the hashes the peer has that are missing locally.
func (g *Gateway) ReconcileAsServer(ctx context.Context, stream io.ReadWriter) []types.Hash32 {
	return g.reconcile(ctx, "server", stream, g.engine.ReconcileAsServer)
}

// ReconcileAsClient returns the hashes the peer has that are missing locally.
func (g *Gateway) ReconcileAsClient(ctx context.Context, stream io.ReadWriter) []types.Hash32 {
	return g.reconcile(ctx, "client", stream, g.engine.ReconcileAsClient)
}

func (g *Gateway) reconcile(
	ctx context.Context,
	role string,
	stream io.ReadWriter,
	fn func(context.Context, io.ReadWriter) ([]types.Hash32, error),
) []types.Hash32 {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	hashes, err := fn(ctx, stream)
	if err != nil {
		reconcileFailures.WithLabelValues(role).Inc()
		g.logger.Warn("reconciliation failed",
			zap.String("role", role),
			zap.Error(err),
		)
		return nil
	}
	return hashes
}
