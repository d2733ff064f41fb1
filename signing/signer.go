// Package signing signs and verifies profile signatures.
//
// A profile signature is the ed25519 public key of the profile owner followed by the
// signature of the state hash, see types.State.Hash. The signed message is prefixed with
// an optional network prefix and the signature domain.
package signing

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"

	"github.com/oasisprotocol/curve25519-voi/primitives/ed25519"

	"github.com/spacemeshos/profilesync/common/types"
)

type Domain byte

const (
	PROFILE Domain = 1
)

func (d Domain) String() string {
	switch d {
	case PROFILE:
		return "PROFILE"
	default:
		return "UNKNOWN"
	}
}

const (
	SignatureSize = ed25519.SignatureSize
	PublicKeySize = ed25519.PublicKeySize
	// ProfileSignatureSize is the size of the public key and the signature.
	ProfileSignatureSize = PublicKeySize + SignatureSize
)

type signerOptions struct {
	key    ed25519.PrivateKey
	rand   io.Reader
	prefix []byte
}

// SignerOpt configures an EdSigner.
type SignerOpt func(*signerOptions) error

// WithPrefix prepends prefix to every signed message.
func WithPrefix(prefix []byte) SignerOpt {
	return func(opts *signerOptions) error {
		opts.prefix = prefix
		return nil
	}
}

// WithPrivateKey uses an existing key instead of generating one.
func WithPrivateKey(key []byte) SignerOpt {
	return func(opts *signerOptions) error {
		if len(key) != ed25519.PrivateKeySize {
			return fmt.Errorf("invalid key length %d", len(key))
		}
		derived := ed25519.NewKeyFromSeed(key[:ed25519.SeedSize])
		if subtle.ConstantTimeCompare(derived, key) != 1 {
			return errors.New("private and public do not match")
		}
		opts.key = ed25519.PrivateKey(key)
		return nil
	}
}

// WithKeyFromRand generates the key from rand.
func WithKeyFromRand(rand io.Reader) SignerOpt {
	return func(opts *signerOptions) error {
		opts.rand = rand
		return nil
	}
}

// EdSigner signs profiles on behalf of their owner.
type EdSigner struct {
	key    ed25519.PrivateKey
	prefix []byte
}

func NewEdSigner(opts ...SignerOpt) (*EdSigner, error) {
	var options signerOptions
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return nil, err
		}
	}
	if options.key == nil {
		_, key, err := ed25519.GenerateKey(options.rand)
		if err != nil {
			return nil, fmt.Errorf("generate key: %w", err)
		}
		options.key = key
	}
	return &EdSigner{key: options.key, prefix: options.prefix}, nil
}

// Sign signs m in domain d.
func (s *EdSigner) Sign(d Domain, m []byte) []byte {
	return ed25519.Sign(s.key, signedMessage(s.prefix, d, m))
}

// SignProfile returns the signature to store in state.Profile.Signature.
func (s *EdSigner) SignProfile(state *types.State) []byte {
	hash := state.Hash()
	sig := make([]byte, 0, ProfileSignatureSize)
	sig = append(sig, s.PublicKey()...)
	return append(sig, s.Sign(PROFILE, hash[:])...)
}

func (s *EdSigner) PublicKey() ed25519.PublicKey {
	return s.key.Public().(ed25519.PublicKey)
}

func (s *EdSigner) PrivateKey() []byte {
	return s.key
}

func signedMessage(prefix []byte, d Domain, m []byte) []byte {
	msg := make([]byte, 0, len(prefix)+1+len(m))
	msg = append(msg, prefix...)
	msg = append(msg, byte(d))
	return append(msg, m...)
}
