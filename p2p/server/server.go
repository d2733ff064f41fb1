// Package server carries synchronization sessions between partners over QUIC.
// Every session uses its own connection with a single bidirectional stream that
// starts with the authentication handshake.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/quic-go/quic-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/spacemeshos/profilesync/p2p/handshake"
)

// Config of the partner transport.
type Config struct {
	Listen string `mapstructure:"listen"`
	// IdleTimeout is how long a peer may stay silent before the stream fails.
	IdleTimeout time.Duration `mapstructure:"idle-timeout"`
	// HardTimeout bounds a whole session.
	HardTimeout time.Duration `mapstructure:"hard-timeout"`
	// QueueSize is the number of inbound sessions waiting to be served.
	QueueSize           int           `mapstructure:"queue-size"`
	RequestsPerInterval int           `mapstructure:"requests-per-interval"`
	Interval            time.Duration `mapstructure:"interval"`
}

func DefaultConfig() Config {
	return Config{
		Listen:              "0.0.0.0:7513",
		IdleTimeout:         30 * time.Second,
		HardTimeout:         10 * time.Minute,
		QueueSize:           16,
		RequestsPerInterval: 10,
		Interval:            time.Second,
	}
}

// StreamHandler serves an authenticated session of the named partner.
type StreamHandler func(ctx context.Context, partner string, stream io.ReadWriter) error

// Opt is a type to configure a server.
type Opt func(s *Server)

// WithConfig overrides the default configuration.
func WithConfig(cfg Config) Opt {
	return func(s *Server) {
		s.cfg = cfg
	}
}

// WithLog configures logger for the server.
func WithLog(log *zap.Logger) Opt {
	return func(s *Server) {
		s.logger = log
	}
}

// WithClock sets the clock used for stream deadlines.
func WithClock(clock clockwork.Clock) Opt {
	return func(s *Server) {
		s.clock = clock
	}
}

// Server accepts sessions from partners.
type Server struct {
	logger    *zap.Logger
	clock     clockwork.Clock
	cfg       Config
	handler   StreamHandler
	passwords handshake.PasswordFunc
	metrics   tracker

	mu       sync.Mutex
	listener *quic.Listener
}

// New creates a server. Initiators are authenticated against passwords before
// the handler is called.
func New(handler StreamHandler, passwords handshake.PasswordFunc, opts ...Opt) *Server {
	srv := &Server{
		logger:    zap.NewNop(),
		clock:     clockwork.NewRealClock(),
		cfg:       DefaultConfig(),
		handler:   handler,
		passwords: passwords,
		metrics:   newTracker("server"),
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

func quicConfig(cfg Config) *quic.Config {
	return &quic.Config{
		MaxIdleTimeout:       cfg.IdleTimeout,
		HandshakeIdleTimeout: cfg.IdleTimeout,
		KeepAlivePeriod:      cfg.IdleTimeout / 3,
	}
}

// Listen binds the listening socket. Run calls it if it wasn't called before.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}
	tlsConf, err := serverTLSConfig(s.clock.Now())
	if err != nil {
		return err
	}
	listener, err := quic.ListenAddr(s.cfg.Listen, tlsConf, quicConfig(s.cfg))
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Listen, err)
	}
	s.listener = listener
	s.logger.Info("listening for partners", zap.Stringer("address", listener.Addr()))
	return nil
}

// Addr returns the listening address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

type request struct {
	conn     *quic.Conn
	stream   *quic.Stream
	received time.Time
}

// Run serves partner sessions until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	limit := rate.NewLimiter(
		rate.Every(s.cfg.Interval/time.Duration(max(s.cfg.RequestsPerInterval, 1))),
		max(s.cfg.RequestsPerInterval, 1),
	)
	queue := make(chan request, max(s.cfg.QueueSize, 1))
	queueCapacity.WithLabelValues().Set(float64(cap(queue)))
	sessionRate.WithLabelValues().Set(float64(limit.Limit()))

	var accepting errgroup.Group
	accepting.Go(func() error {
		s.acceptConns(ctx, &accepting, queue)
		return nil
	})
	defer func() {
		s.listener.Close()
		accepting.Wait()
	}()

	var eg errgroup.Group
	eg.SetLimit(cap(queue))
	for {
		select {
		case <-ctx.Done():
			eg.Wait()
			return nil
		case req := <-queue:
			queueLength.WithLabelValues().Set(float64(len(queue)))
			if err := limit.Wait(ctx); err != nil {
				req.stream.CancelRead(0)
				req.stream.Close()
				eg.Wait()
				return nil
			}
			eg.Go(func() error {
				outcome := s.serve(ctx, req)
				s.metrics.finished(outcome, time.Since(req.received).Seconds())
				return nil
			})
		}
	}
}

func (s *Server) acceptConns(ctx context.Context, eg *errgroup.Group, queue chan<- request) {
	for {
		conn, err := s.listener.Accept(ctx)
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, quic.ErrServerClosed) {
				s.logger.Error("accept failed", zap.Error(err))
			}
			return
		}
		eg.Go(func() error {
			s.acceptStreams(ctx, conn, queue)
			return nil
		})
	}
}

func (s *Server) acceptStreams(ctx context.Context, conn *quic.Conn, queue chan<- request) {
	for {
		stream, err := conn.AcceptStream(ctx)
		if err != nil {
			s.logger.Debug("connection done",
				zap.Stringer("remote", conn.RemoteAddr()),
				zap.Error(err),
			)
			return
		}
		select {
		case queue <- request{conn: conn, stream: stream, received: time.Now()}:
			queueLength.WithLabelValues().Set(float64(len(queue)))
			s.metrics.session(outcomeAccepted)
		default:
			s.metrics.session(outcomeDropped)
			s.logger.Warn("session queue is full", zap.Stringer("remote", conn.RemoteAddr()))
			stream.CancelRead(0)
			stream.Close()
		}
	}
}

func (s *Server) serve(ctx context.Context, req request) string {
	remote := req.conn.RemoteAddr().String()
	dadj := newDeadlineAdjuster(req.stream, remote, s.cfg.IdleTimeout, s.cfg.HardTimeout, s.clock)
	defer req.stream.Close()
	partner, err := handshake.Accept(dadj, s.passwords)
	if err != nil {
		s.logger.Warn("partner handshake failed", zap.String("remote", remote), zap.Error(err))
		req.stream.CancelRead(0)
		return outcomeUnauthorized
	}
	if err := s.handler(ctx, partner, dadj); err != nil {
		s.logger.Warn("session failed",
			zap.String("remote", remote),
			zap.String("partner", partner),
			zap.Error(err),
		)
		req.stream.CancelRead(0)
		return outcomeFailed
	}
	return outcomeCompleted
}

// Dialer opens sessions to partners.
type Dialer struct {
	logger  *zap.Logger
	clock   clockwork.Clock
	cfg     Config
	tls     *tls.Config
	metrics tracker
}

// NewDialer creates a dialer. Only the timeouts of the configuration are used.
func NewDialer(opts ...Opt) *Dialer {
	srv := New(nil, nil, opts...)
	return &Dialer{
		logger:  srv.logger,
		clock:   srv.clock,
		cfg:     srv.cfg,
		tls:     clientTLSConfig(),
		metrics: newTracker("client"),
	}
}

// Session connects to address, authenticates as name and runs fn on the stream.
func (d *Dialer) Session(
	ctx context.Context,
	address, name, password string,
	fn func(stream io.ReadWriter) error,
) (err error) {
	start := time.Now()
	defer func() {
		outcome := outcomeCompleted
		if errors.Is(err, handshake.ErrAuthFailed) {
			outcome = outcomeUnauthorized
		} else if err != nil {
			outcome = outcomeFailed
		}
		d.metrics.finished(outcome, time.Since(start).Seconds())
	}()
	if d.cfg.HardTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.HardTimeout)
		defer cancel()
	}
	conn, err := quic.DialAddr(ctx, address, d.tls, quicConfig(d.cfg))
	if err != nil {
		return fmt.Errorf("dial %s: %w", address, err)
	}
	defer conn.CloseWithError(0, "")
	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		return fmt.Errorf("open stream to %s: %w", address, err)
	}
	dadj := newDeadlineAdjuster(stream, address, d.cfg.IdleTimeout, d.cfg.HardTimeout, d.clock)
	if err := handshake.Initiate(dadj, name, password); err != nil {
		stream.CancelRead(0)
		stream.Close()
		return fmt.Errorf("handshake with %s: %w", address, err)
	}
	if err := fn(dadj); err != nil {
		stream.CancelRead(0)
		stream.Close()
		return err
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("close stream to %s: %w", address, err)
	}
	// wait for the partner to finish reading before the connection is torn down
	if _, err := io.Copy(io.Discard, dadj); err != nil {
		d.logger.Debug("partner didn't close the stream", zap.String("address", address), zap.Error(err))
	}
	return nil
}
