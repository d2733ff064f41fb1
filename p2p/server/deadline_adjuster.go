package server

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

//go:generate mockgen -typed -package=mocks -destination=./mocks/mocks.go -source=./deadline_adjuster.go

type peerStream interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	SetDeadline(t time.Time) error
}

// deadlineAdjuster moves the stream deadline forward while the peer keeps talking, so that
// a stream fails once the peer has been silent for the idle timeout, and in any case once
// the hard timeout has passed since the stream was opened.
// It is safe to read and write concurrently.
type deadlineAdjuster struct {
	peerStream
	desc         string
	timeout      time.Duration
	hardDeadline time.Time
	clock        clockwork.Clock

	mu         sync.Mutex
	nextAdjust time.Time

	totalRead    atomic.Int64
	totalWritten atomic.Int64
}

func newDeadlineAdjuster(
	stream peerStream,
	desc string,
	timeout, hardTimeout time.Duration,
	clock clockwork.Clock,
) *deadlineAdjuster {
	dadj := &deadlineAdjuster{
		peerStream: stream,
		desc:       desc,
		timeout:    timeout,
		clock:      clock,
	}
	if hardTimeout > 0 {
		dadj.hardDeadline = clock.Now().Add(hardTimeout)
	}
	return dadj
}

func (dadj *deadlineAdjuster) augmentError(what string, err error) error {
	return fmt.Errorf("%s: %s: %d bytes read, %d bytes written, timeout %v: %w",
		dadj.desc, what, dadj.totalRead.Load(), dadj.totalWritten.Load(), dadj.timeout, err)
}

// adjust pushes the deadline to timeout from now. The deadline is moved at most every
// quarter of the timeout.
func (dadj *deadlineAdjuster) adjust() error {
	dadj.mu.Lock()
	defer dadj.mu.Unlock()
	now := dadj.clock.Now()
	if now.Before(dadj.nextAdjust) {
		return nil
	}
	deadline := now.Add(dadj.timeout)
	if !dadj.hardDeadline.IsZero() && deadline.After(dadj.hardDeadline) {
		deadline = dadj.hardDeadline
	}
	if err := dadj.SetDeadline(deadline); err != nil {
		return err
	}
	dadj.nextAdjust = now.Add(dadj.timeout / 4)
	return nil
}

func (dadj *deadlineAdjuster) Read(p []byte) (int, error) {
	if err := dadj.adjust(); err != nil {
		return 0, dadj.augmentError("set deadline", err)
	}
	n, err := dadj.peerStream.Read(p)
	dadj.totalRead.Add(int64(n))
	if err != nil && err != io.EOF {
		return n, dadj.augmentError("read", err)
	}
	return n, err
}

func (dadj *deadlineAdjuster) Write(p []byte) (int, error) {
	if err := dadj.adjust(); err != nil {
		return 0, dadj.augmentError("set deadline", err)
	}
	n, err := dadj.peerStream.Write(p)
	dadj.totalWritten.Add(int64(n))
	if err != nil {
		return n, dadj.augmentError("write", err)
	}
	return n, nil
}
