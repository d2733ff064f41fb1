package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/spacemeshos/profilesync/log/logtest"
	"github.com/spacemeshos/profilesync/p2p/handshake"
)

func passwords(name string) (string, error) {
	if name == "alice" {
		return "secret", nil
	}
	return "", fmt.Errorf("unknown partner %s", name)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Listen = "127.0.0.1:0"
	cfg.IdleTimeout = 5 * time.Second
	cfg.HardTimeout = 10 * time.Second
	return cfg
}

func runServer(t *testing.T, handler StreamHandler) *Server {
	t.Helper()
	srv := New(handler, passwords, WithConfig(testConfig()), WithLog(logtest.New(t)))
	require.NoError(t, srv.Listen())
	ctx, cancel := context.WithCancel(context.Background())
	var eg errgroup.Group
	eg.Go(func() error { return srv.Run(ctx) })
	t.Cleanup(func() {
		cancel()
		require.NoError(t, eg.Wait())
	})
	return srv
}

func TestSession(t *testing.T) {
	partners := make(chan string, 1)
	srv := runServer(t, func(_ context.Context, partner string, stream io.ReadWriter) error {
		partners <- partner
		buf := make([]byte, 5)
		if _, err := io.ReadFull(stream, buf); err != nil {
			return err
		}
		_, err := stream.Write(bytes.ToUpper(buf))
		return err
	})

	dialer := NewDialer(WithConfig(testConfig()), WithLog(logtest.New(t)))
	var got []byte
	err := dialer.Session(context.Background(), srv.Addr().String(), "alice", "secret",
		func(stream io.ReadWriter) error {
			if _, err := stream.Write([]byte("hello")); err != nil {
				return err
			}
			got = make([]byte, 5)
			_, err := io.ReadFull(stream, got)
			return err
		})
	require.NoError(t, err)
	require.Equal(t, "HELLO", string(got))
	require.Equal(t, "alice", <-partners)
}

func TestSessionAuthFailure(t *testing.T) {
	srv := runServer(t, func(context.Context, string, io.ReadWriter) error {
		return errors.New("handler must not be called")
	})
	dialer := NewDialer(WithConfig(testConfig()), WithLog(logtest.New(t)))
	for _, tc := range []struct {
		name, user, password string
	}{
		{name: "wrong password", user: "alice", password: "guess"},
		{name: "unknown partner", user: "mallory", password: "secret"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			err := dialer.Session(context.Background(), srv.Addr().String(), tc.user, tc.password,
				func(io.ReadWriter) error {
					called = true
					return nil
				})
			require.ErrorIs(t, err, handshake.ErrAuthFailed)
			require.False(t, called)
		})
	}
}

func TestSessionUnreachable(t *testing.T) {
	cfg := testConfig()
	cfg.HardTimeout = 500 * time.Millisecond
	dialer := NewDialer(WithConfig(cfg), WithLog(logtest.New(t)))
	err := dialer.Session(context.Background(), "127.0.0.1:1", "alice", "secret",
		func(io.ReadWriter) error { return nil })
	require.Error(t, err)
}
