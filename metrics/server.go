// Package metrics define telemetry primitives to use across components. it uses the prometheus format.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Config of the metrics endpoint.
type Config struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

// DefaultConfig serves metrics on localhost only.
func DefaultConfig() Config {
	return Config{
		Enabled: false,
		Listen:  "127.0.0.1:1010",
	}
}

// Server exposes /metrics over http.
type Server struct {
	logger *zap.Logger
	srv    *http.Server
	lis    net.Listener
}

// NewServer listens on the configured address. Serving starts with Run.
func NewServer(logger *zap.Logger, listen string) (*Server, error) {
	lis, err := net.Listen("tcp", listen)
	if err != nil {
		return nil, fmt.Errorf("listen metrics %s: %w", listen, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Server{
		logger: logger,
		srv:    &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		lis:    lis,
	}, nil
}

// Addr returns the bound address.
func (s *Server) Addr() net.Addr {
	return s.lis.Addr()
}

// Run serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("metrics server shutdown", zap.Error(err))
		}
	}()
	s.logger.Info("serving metrics", zap.Stringer("address", s.lis.Addr()))
	if err := s.srv.Serve(s.lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}
	return nil
}
