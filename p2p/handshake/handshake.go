// Package handshake authenticates partners on a freshly opened stream.
//
// The initiator sends a prefix and its name. The acceptor answers with a random challenge and
// the initiator proves knowledge of the shared password with HMAC-SHA256(password, challenge || name).
// The acceptor ends the handshake with a single status byte. All variable sized fields are
// prefixed with their uvarint encoded length, and nothing past the handshake is read from the stream.
package handshake

import (
	"bytes"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/multiformats/go-varint"
)

const (
	challengeSize = 32
	maxNameSize   = 256
	maxFrameSize  = maxNameSize

	statusOK       byte = 0
	statusRejected byte = 1
)

var streamPrefix = []byte{0x70, 0x73, 0x79, 0x01}

var (
	// ErrAuthFailed is returned when the peer could not be authenticated.
	ErrAuthFailed = errors.New("handshake: authentication failed")
	// ErrProtocol is returned when the peer doesn't speak the handshake protocol.
	ErrProtocol = errors.New("handshake: protocol error")
)

// PasswordFunc returns the password a named partner must prove.
type PasswordFunc func(name string) (string, error)

type config struct {
	rand io.Reader
}

// Option specifies a handshake option.
type Option func(*config)

// WithRand sets the source of challenges.
func WithRand(r io.Reader) Option {
	return func(c *config) {
		c.rand = r
	}
}

func newConfig(opts []Option) *config {
	c := &config{rand: rand.Reader}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initiate authenticates as name on the stream.
func Initiate(stream io.ReadWriter, name, password string) error {
	if len(name) == 0 || len(name) > maxNameSize {
		return fmt.Errorf("%w: invalid name length %d", ErrProtocol, len(name))
	}
	if _, err := stream.Write(streamPrefix); err != nil {
		return fmt.Errorf("write prefix: %w", err)
	}
	if err := writeFrame(stream, []byte(name)); err != nil {
		return fmt.Errorf("write name: %w", err)
	}
	challenge, err := readFrame(stream)
	if err != nil {
		return fmt.Errorf("read challenge: %w", err)
	}
	if len(challenge) != challengeSize {
		return fmt.Errorf("%w: challenge size %d", ErrProtocol, len(challenge))
	}
	if err := writeFrame(stream, mac(password, challenge, name)); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	var status [1]byte
	if _, err := io.ReadFull(stream, status[:]); err != nil {
		return fmt.Errorf("read status: %w", err)
	}
	switch status[0] {
	case statusOK:
		return nil
	case statusRejected:
		return ErrAuthFailed
	default:
		return fmt.Errorf("%w: status %d", ErrProtocol, status[0])
	}
}

// Accept authenticates the initiator and returns its name. Unknown names and wrong
// passwords are rejected the same way.
func Accept(stream io.ReadWriter, passwords PasswordFunc, opts ...Option) (string, error) {
	cfg := newConfig(opts)
	prefix := make([]byte, len(streamPrefix))
	if _, err := io.ReadFull(stream, prefix); err != nil {
		return "", fmt.Errorf("read prefix: %w", err)
	}
	if !bytes.Equal(prefix, streamPrefix) {
		return "", fmt.Errorf("%w: unexpected prefix %x", ErrProtocol, prefix)
	}
	rawName, err := readFrame(stream)
	if err != nil {
		return "", fmt.Errorf("read name: %w", err)
	}
	name := string(rawName)

	challenge := make([]byte, challengeSize)
	if _, err := io.ReadFull(cfg.rand, challenge); err != nil {
		return "", fmt.Errorf("generate challenge: %w", err)
	}
	if err := writeFrame(stream, challenge); err != nil {
		return "", fmt.Errorf("write challenge: %w", err)
	}
	response, err := readFrame(stream)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	password, lookupErr := passwords(name)
	if lookupErr != nil || !hmac.Equal(response, mac(password, challenge, name)) {
		if _, err := stream.Write([]byte{statusRejected}); err != nil {
			return "", fmt.Errorf("write status: %w", err)
		}
		if lookupErr != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrAuthFailed, name, lookupErr)
		}
		return "", fmt.Errorf("%w: %s: wrong password", ErrAuthFailed, name)
	}
	if _, err := stream.Write([]byte{statusOK}); err != nil {
		return "", fmt.Errorf("write status: %w", err)
	}
	return name, nil
}

func mac(password string, challenge []byte, name string) []byte {
	h := hmac.New(sha256.New, []byte(password))
	h.Write(challenge)
	h.Write([]byte(name))
	return h.Sum(nil)
}

func writeFrame(w io.Writer, data []byte) error {
	buf := make([]byte, 0, varint.UvarintSize(uint64(len(data)))+len(data))
	buf = append(buf, varint.ToUvarint(uint64(len(data)))...)
	buf = append(buf, data...)
	_, err := w.Write(buf)
	return err
}

// byteReader reads a single byte at a time so that nothing past the frame is consumed.
type byteReader struct {
	r io.Reader
}

func (b byteReader) ReadByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(b.r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func readFrame(r io.Reader) ([]byte, error) {
	size, err := varint.ReadUvarint(byteReader{r})
	if err != nil {
		return nil, err
	}
	if size == 0 || size > maxFrameSize {
		return nil, fmt.Errorf("%w: frame size %d", ErrProtocol, size)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
