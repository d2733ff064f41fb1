// Package rangesync reconciles two sets of hashes by recursively comparing range
// fingerprints until the ranges are small enough to exchange their items.
package rangesync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"go.uber.org/zap"

	"github.com/spacemeshos/profilesync/common/types"
)

const (
	// DefaultMaxSendRange is the default number of items below which a range is sent
	// instead of being split further.
	DefaultMaxSendRange = 16
	// DefaultMaxRounds bounds the number of rounds in a single sync run.
	DefaultMaxRounds = 128
	// maxReceived bounds the number of items received in a single sync run.
	maxReceived = 1 << 22
)

var errTooManyRounds = errors.New("too many sync rounds")

// RangeSetReconcilerOption is a configuration option for RangeSetReconciler.
type RangeSetReconcilerOption func(*RangeSetReconciler)

// WithMaxSendRange sets the maximum range size to send instead of further subdividing the input range.
func WithMaxSendRange(n int) RangeSetReconcilerOption {
	return func(r *RangeSetReconciler) {
		r.maxSendRange = n
	}
}

// WithMaxRounds sets the maximum number of rounds in a single sync run.
func WithMaxRounds(n int) RangeSetReconcilerOption {
	return func(r *RangeSetReconciler) {
		r.maxRounds = n
	}
}

// WithLogger specifies the logger for RangeSetReconciler.
func WithLogger(logger *zap.Logger) RangeSetReconcilerOption {
	return func(r *RangeSetReconciler) {
		r.logger = logger
	}
}

// RangeSetReconciler reconciles a set with the set of a peer.
type RangeSetReconciler struct {
	set          *Set
	logger       *zap.Logger
	maxSendRange int
	maxRounds    int
}

// NewRangeSetReconciler creates a reconciler for the set. The set must not be modified
// while a sync run is in progress.
func NewRangeSetReconciler(set *Set, opts ...RangeSetReconcilerOption) *RangeSetReconciler {
	rsr := &RangeSetReconciler{
		set:          set,
		logger:       zap.NewNop(),
		maxSendRange: DefaultMaxSendRange,
		maxRounds:    DefaultMaxRounds,
	}
	for _, opt := range opts {
		opt(rsr)
	}
	if rsr.maxSendRange <= 0 {
		panic("bad maxSendRange")
	}
	return rsr
}

// SyncAsClient initiates a sync run and returns the items the peer has that are missing
// from the local set.
func (rsr *RangeSetReconciler) SyncAsClient(ctx context.Context, c Conduit) ([]types.Hash32, error) {
	r := rsr.newRun(c)
	info := rsr.set.GetRangeInfo(types.Hash32{}, types.Hash32{})
	var err error
	if info.Count == 0 {
		err = c.Send(&EmptySetMessage{})
	} else {
		err = c.Send(&FingerprintMessage{
			RangeFingerprint: info.Fingerprint,
			NumItems:         uint32(info.Count),
		})
	}
	if err != nil {
		return nil, err
	}
	if err := c.Send(&EndRoundMessage{}); err != nil {
		return nil, err
	}
	if err := c.Flush(); err != nil {
		return nil, err
	}
	return r.run(ctx)
}

// SyncAsServer serves a sync run initiated by the peer and returns the items the peer
// has that are missing from the local set.
func (rsr *RangeSetReconciler) SyncAsServer(ctx context.Context, c Conduit) ([]types.Hash32, error) {
	return rsr.newRun(c).run(ctx)
}

func (rsr *RangeSetReconciler) newRun(c Conduit) *syncRun {
	return &syncRun{
		rsr:      rsr,
		c:        c,
		received: make(map[types.Hash32]struct{}),
	}
}

type syncRun struct {
	rsr      *RangeSetReconciler
	c        Conduit
	received map[types.Hash32]struct{}
}

func (r *syncRun) run(ctx context.Context) ([]types.Hash32, error) {
	for round := 0; round < r.rsr.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		done, err := r.processRound()
		if err != nil {
			return nil, err
		}
		if done {
			missing := r.missing()
			r.rsr.logger.Debug("sync run done",
				zap.Int("rounds", round+1),
				zap.Int("received", len(r.received)),
				zap.Int("missing", len(missing)),
			)
			return missing, nil
		}
	}
	return nil, errTooManyRounds
}

// processRound handles the messages of a single round from the peer and sends the
// response. It returns true if the sync run is complete.
func (r *syncRun) processRound() (bool, error) {
	needReply := false
	for {
		msg, err := r.c.NextMessage()
		if err != nil {
			return false, err
		}
		switch m := msg.(type) {
		case *DoneMessage:
			return true, nil
		case *EndRoundMessage:
			if needReply {
				err = r.c.Send(&EndRoundMessage{})
			} else {
				err = r.c.Send(&DoneMessage{})
			}
			if err != nil {
				return false, err
			}
			if err := r.c.Flush(); err != nil {
				return false, err
			}
			return !needReply, nil
		case *ItemBatchMessage:
			err = r.receive(m.ContentKeys)
		case *EmptySetMessage:
			err = r.sendItems(r.rsr.set.Items())
		case *EmptyRangeMessage:
			err = r.sendItems(r.rsr.set.GetRangeInfo(m.X, m.Y).Items)
		case *RangeContentsMessage:
			err = r.sendMissing(m.Range)
		case *FingerprintMessage:
			var sent bool
			sent, err = r.handleFingerprint(m)
			needReply = needReply || sent
		default:
			err = fmt.Errorf("unexpected message %s", msg.Type())
		}
		if err != nil {
			return false, err
		}
	}
}

// handleFingerprint compares the peer's range fingerprint with the local one and
// returns true if the peer is expected to reply.
func (r *syncRun) handleFingerprint(m *FingerprintMessage) (bool, error) {
	info := r.rsr.set.GetRangeInfo(m.X, m.Y)
	switch {
	case info.Fingerprint == m.RangeFingerprint && info.Count == int(m.NumItems):
		return false, nil
	case info.Count == 0:
		return true, r.c.Send(&EmptyRangeMessage{Range: m.Range})
	case m.NumItems == 0:
		return false, r.sendItems(info.Items)
	case info.Count <= r.rsr.maxSendRange:
		if err := r.sendItems(info.Items); err != nil {
			return false, err
		}
		return true, r.c.Send(&RangeContentsMessage{Range: m.Range, NumItems: uint32(info.Count)})
	}
	middle := info.Items[info.Count/2]
	for _, part := range []Range{{X: m.X, Y: middle}, {X: middle, Y: m.Y}} {
		pi := r.rsr.set.GetRangeInfo(part.X, part.Y)
		if err := r.c.Send(&FingerprintMessage{
			Range:            part,
			RangeFingerprint: pi.Fingerprint,
			NumItems:         uint32(pi.Count),
		}); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (r *syncRun) sendMissing(rng Range) error {
	items := r.rsr.set.GetRangeInfo(rng.X, rng.Y).Items
	items = slices.DeleteFunc(items, func(k types.Hash32) bool {
		_, found := r.received[k]
		return found
	})
	return r.sendItems(items)
}

func (r *syncRun) sendItems(items []types.Hash32) error {
	for chunk := range slices.Chunk(items, maxItemBatch) {
		if err := r.c.Send(&ItemBatchMessage{ContentKeys: chunk}); err != nil {
			return err
		}
	}
	return nil
}

func (r *syncRun) receive(keys []types.Hash32) error {
	for _, k := range keys {
		r.received[k] = struct{}{}
	}
	if len(r.received) > maxReceived {
		return fmt.Errorf("received more than %d items", maxReceived)
	}
	return nil
}

func (r *syncRun) missing() []types.Hash32 {
	var missing []types.Hash32
	for k := range r.received {
		if !r.rsr.set.Has(k) {
			missing = append(missing, k)
		}
	}
	slices.SortFunc(missing, compareHashes)
	return missing
}

// Engine is an in-process reconciliation engine maintaining its own Set.
type Engine struct {
	set  *Set
	opts []RangeSetReconcilerOption
}

// NewEngine creates an engine with an empty set.
func NewEngine(opts ...RangeSetReconcilerOption) *Engine {
	return &Engine{set: NewSet(), opts: opts}
}

// Set returns the set of the engine.
func (e *Engine) Set() *Set {
	return e.set
}

// Add adds hashes to the set.
func (e *Engine) Add(_ context.Context, hashes []types.Hash32) error {
	e.set.Add(hashes...)
	return nil
}

// Delete removes hashes from the set.
func (e *Engine) Delete(_ context.Context, hashes []types.Hash32) error {
	e.set.Delete(hashes...)
	return nil
}

// ReconcileAsServer serves a sync run over the stream.
func (e *Engine) ReconcileAsServer(ctx context.Context, stream io.ReadWriter) ([]types.Hash32, error) {
	rsr := NewRangeSetReconciler(e.set.Copy(), e.opts...)
	return rsr.SyncAsServer(ctx, newWireConduit(stream))
}

// ReconcileAsClient initiates a sync run over the stream.
func (e *Engine) ReconcileAsClient(ctx context.Context, stream io.ReadWriter) ([]types.Hash32, error) {
	rsr := NewRangeSetReconciler(e.set.Copy(), e.opts...)
	return rsr.SyncAsClient(ctx, newWireConduit(stream))
}
