// Package procsync is a client for a reconciliation engine running as a separate process.
//
// Commands are text lines written to the process. ADD and DELETE are followed by one hex
// encoded hash per line and an empty line. SYNCHRONIZE_AS_SERVER and SYNCHRONIZE_AS_CLIENT
// hand the peer stream to the process: frames prefixed with a single length byte are relayed
// in both directions until each side sends an empty frame. The process then reports
// the missing hashes as hex lines between NUMBERS and an empty line, followed by DONE.
// Every command is acknowledged with OK.
package procsync

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/metrics"
)

var respawnCount = metrics.NewCounter(
	"engine_respawns",
	"sync",
	"Number of times a failed reconciliation process was replaced",
	nil,
).WithLabelValues()

const (
	cmdAdd          = "ADD"
	cmdDelete       = "DELETE"
	cmdSyncAsServer = "SYNCHRONIZE_AS_SERVER"
	cmdSyncAsClient = "SYNCHRONIZE_AS_CLIENT"
	respOK          = "OK"
	respNumbers     = "NUMBERS"
	respDone        = "DONE"
)

var (
	// ErrProtocol is returned when the process response doesn't follow the protocol.
	ErrProtocol = errors.New("procsync: protocol error")
	// ErrBroken is returned after the process was abandoned in the middle of a command
	// and couldn't be replaced.
	ErrBroken = errors.New("procsync: engine broken")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("procsync: engine closed")
)

// Process is a running reconciliation process.
type Process struct {
	Pid    int
	Stdout io.Reader
	// Closing Stdin makes the process terminate.
	Stdin io.WriteCloser
	Wait  func() error
	// Kill is optional. It is used to get rid of a process that failed.
	Kill func() error
}

// Spawner launches a reconciliation process.
type Spawner func() (*Process, error)

// Command spawns the executable at path.
func Command(path string, args []string) Spawner {
	return func() (*Process, error) {
		cmd := exec.Command(path, args...)
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, fmt.Errorf("stdin pipe: %w", err)
		}
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, fmt.Errorf("stdout pipe: %w", err)
		}
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("start %s: %w", path, err)
		}
		return &Process{
			Pid:    cmd.Process.Pid,
			Stdout: stdout,
			Stdin:  stdin,
			Wait:   cmd.Wait,
			Kill:   cmd.Process.Kill,
		}, nil
	}
}

// Opt configures Engine.
type Opt func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Engine sends commands to the reconciliation process. Commands are serialized.
//
// An engine created with a Spawner replaces a process that failed before the next command
// and replays the hashes added so far into the new one.
type Engine struct {
	logger *zap.Logger
	spawn  Spawner

	mu     sync.Mutex
	proc   *Process
	r      *bufio.Reader
	w      *bufio.Writer
	index  map[types.Hash32]struct{}
	broken bool
	closed bool
}

// New creates an engine that reads process output from r and writes commands to w.
// Closing w must make the process terminate. The engine stays broken after a failure.
func New(r io.Reader, w io.WriteCloser, opts ...Opt) *Engine {
	e := &Engine{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	e.attach(&Process{Stdout: r, Stdin: w})
	return e
}

// NewRespawning spawns the first process and returns an engine that replaces failed ones.
func NewRespawning(spawn Spawner, opts ...Opt) (*Engine, error) {
	e := &Engine{
		logger: zap.NewNop(),
		spawn:  spawn,
		index:  make(map[types.Hash32]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	proc, err := spawn()
	if err != nil {
		return nil, err
	}
	e.attach(proc)
	return e, nil
}

// Start launches the reconciliation process at path.
func Start(path string, args []string, opts ...Opt) (*Engine, error) {
	e, err := NewRespawning(Command(path, args), opts...)
	if err != nil {
		return nil, err
	}
	e.logger.Info("started reconciliation process", zap.String("path", path), zap.Int("pid", e.proc.Pid))
	return e, nil
}

func (e *Engine) attach(proc *Process) {
	if proc.Wait == nil {
		proc.Wait = func() error { return nil }
	}
	e.proc = proc
	e.r = bufio.NewReader(proc.Stdout)
	e.w = bufio.NewWriter(proc.Stdin)
	e.broken = false
}

func (e *Engine) stop(kill bool) error {
	proc := e.proc
	if proc == nil {
		return nil
	}
	e.proc = nil
	err := proc.Stdin.Close()
	if kill && proc.Kill != nil {
		if kerr := proc.Kill(); kerr != nil {
			e.logger.Debug("failed to kill reconciliation process", zap.Error(kerr))
		}
	}
	return errors.Join(err, proc.Wait())
}

// Close closes the process input and waits for it to exit.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.broken = true
	return e.stop(false)
}

// Add adds hashes to the process index.
func (e *Engine) Add(ctx context.Context, hashes []types.Hash32) error {
	return e.update(ctx, cmdAdd, hashes)
}

// Delete removes hashes from the process index.
func (e *Engine) Delete(ctx context.Context, hashes []types.Hash32) error {
	return e.update(ctx, cmdDelete, hashes)
}

// ReconcileAsServer relays a reconciliation initiated by the peer.
func (e *Engine) ReconcileAsServer(ctx context.Context, stream io.ReadWriter) ([]types.Hash32, error) {
	return e.synchronize(ctx, cmdSyncAsServer, stream)
}

// ReconcileAsClient relays a reconciliation initiated by the process.
func (e *Engine) ReconcileAsClient(ctx context.Context, stream io.ReadWriter) ([]types.Hash32, error) {
	return e.synchronize(ctx, cmdSyncAsClient, stream)
}

func (e *Engine) update(ctx context.Context, cmd string, hashes []types.Hash32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.index != nil && !e.closed {
		// a replacement process gets the hashes the caller asked for, whether or not
		// the current process acknowledges them
		for _, h := range hashes {
			if cmd == cmdAdd {
				e.index[h] = struct{}{}
			} else {
				delete(e.index, h)
			}
		}
	}
	if err := e.begin(ctx); err != nil {
		return err
	}
	e.writeLine(cmd)
	for _, h := range hashes {
		e.writeLine(h.Hex())
	}
	e.writeLine("")
	if err := e.w.Flush(); err != nil {
		return e.fail(fmt.Errorf("%s: %w", cmd, err))
	}
	if err := e.expect(respOK); err != nil {
		return e.fail(fmt.Errorf("%s: %w", cmd, err))
	}
	return nil
}

func (e *Engine) synchronize(ctx context.Context, cmd string, stream io.ReadWriter) ([]types.Hash32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.begin(ctx); err != nil {
		return nil, err
	}
	e.writeLine(cmd)
	if err := e.w.Flush(); err != nil {
		return nil, e.fail(fmt.Errorf("%s: %w", cmd, err))
	}
	if err := e.expect(respOK); err != nil {
		return nil, e.fail(fmt.Errorf("%s: %w", cmd, err))
	}

	stdin := e.proc.Stdin
	var eg errgroup.Group
	eg.Go(func() error {
		if err := relayFrames(stream, e.r); err != nil {
			return fmt.Errorf("relay to peer: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		err := relayFrames(e.w, stream)
		if err != nil {
			// the process is waiting for the peer, make it give up
			stdin.Close()
			return fmt.Errorf("relay to process: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, e.fail(err)
	}
	hashes, err := e.readNumbers()
	if err != nil {
		return nil, e.fail(fmt.Errorf("%s: %w", cmd, err))
	}
	return hashes, nil
}

func (e *Engine) begin(ctx context.Context) error {
	switch {
	case e.closed:
		return ErrClosed
	case ctx.Err() != nil:
		return ctx.Err()
	case !e.broken:
		return nil
	case e.spawn == nil:
		return ErrBroken
	}
	return e.respawn()
}

func (e *Engine) respawn() error {
	if err := e.stop(true); err != nil {
		e.logger.Debug("failed reconciliation process exited", zap.Error(err))
	}
	proc, err := e.spawn()
	if err != nil {
		return fmt.Errorf("%w: respawn: %w", ErrBroken, err)
	}
	e.attach(proc)
	respawnCount.Inc()
	e.writeLine(cmdAdd)
	for h := range e.index {
		e.writeLine(h.Hex())
	}
	e.writeLine("")
	if err := e.w.Flush(); err != nil {
		return e.fail(fmt.Errorf("replay index: %w", err))
	}
	if err := e.expect(respOK); err != nil {
		return e.fail(fmt.Errorf("replay index: %w", err))
	}
	e.logger.Info("replaced reconciliation process",
		zap.Int("pid", proc.Pid),
		zap.Int("hashes", len(e.index)),
	)
	return nil
}

func (e *Engine) fail(err error) error {
	e.broken = true
	e.logger.Error("reconciliation process failed", zap.Error(err))
	return err
}

func (e *Engine) writeLine(line string) {
	// errors are sticky and reported by Flush
	e.w.WriteString(line)
	e.w.WriteByte('\n')
}

func (e *Engine) readLine() (string, error) {
	line, err := e.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (e *Engine) expect(want string) error {
	line, err := e.readLine()
	if err != nil {
		return err
	}
	if line != want {
		return fmt.Errorf("%w: expected %q, got %q", ErrProtocol, want, line)
	}
	return nil
}

func (e *Engine) readNumbers() ([]types.Hash32, error) {
	if err := e.expect(respNumbers); err != nil {
		return nil, err
	}
	var hashes []types.Hash32
	for {
		line, err := e.readLine()
		if err != nil {
			return nil, err
		}
		if line == "" {
			break
		}
		h, err := types.HexToHash32(line)
		if err != nil {
			return nil, fmt.Errorf("%w: bad hash %q: %w", ErrProtocol, line, err)
		}
		hashes = append(hashes, h)
	}
	if err := e.expect(respDone); err != nil {
		return nil, err
	}
	return hashes, nil
}

type flusher interface {
	Flush() error
}

// relayFrames copies length-prefixed frames from src to dst up to and including an empty frame.
func relayFrames(dst io.Writer, src io.Reader) error {
	var buf [256]byte
	for {
		if _, err := io.ReadFull(src, buf[:1]); err != nil {
			return err
		}
		n := int(buf[0])
		if _, err := io.ReadFull(src, buf[1:1+n]); err != nil {
			return err
		}
		if _, err := dst.Write(buf[:1+n]); err != nil {
			return err
		}
		if f, ok := dst.(flusher); ok {
			if err := f.Flush(); err != nil {
				return err
			}
		}
		if n == 0 {
			return nil
		}
	}
}
