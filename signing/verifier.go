package signing

import (
	"errors"
	"fmt"

	"github.com/oasisprotocol/curve25519-voi/primitives/ed25519"

	"github.com/spacemeshos/profilesync/common/types"
)

// ErrInvalidSignature is returned when a profile signature doesn't verify.
var ErrInvalidSignature = errors.New("invalid profile signature")

type edVerifierOption struct {
	prefix []byte
}

// VerifierOptionFunc to modify verifier.
type VerifierOptionFunc func(*edVerifierOption) error

// WithVerifierPrefix sets the prefix used by EdVerifier.
func WithVerifierPrefix(prefix []byte) VerifierOptionFunc {
	return func(opts *edVerifierOption) error {
		opts.prefix = prefix
		return nil
	}
}

// EdVerifier verifies ed25519 signatures.
type EdVerifier struct {
	prefix []byte
}

func NewEdVerifier(opts ...VerifierOptionFunc) (*EdVerifier, error) {
	cfg := &edVerifierOption{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return &EdVerifier{prefix: cfg.prefix}, nil
}

// Verify verifies that a signature matches public key and message.
func (es *EdVerifier) Verify(d Domain, pub, m, sig []byte) bool {
	if len(pub) != PublicKeySize || len(sig) != SignatureSize {
		return false
	}
	return ed25519.Verify(pub, signedMessage(es.prefix, d, m), sig)
}

// VerifyProfile checks the signature carried by the profile of the state against the state hash.
func (es *EdVerifier) VerifyProfile(state *types.State) error {
	if !state.HasProfile() {
		return nil
	}
	blob := state.Profile.Signature
	if len(blob) != ProfileSignatureSize {
		return fmt.Errorf("%w: size %d", ErrInvalidSignature, len(blob))
	}
	hash := state.Hash()
	if !es.Verify(PROFILE, blob[:PublicKeySize], hash[:], blob[PublicKeySize:]) {
		return ErrInvalidSignature
	}
	return nil
}
