package signing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/signing"
)

func signedState(t *testing.T, signer *signing.EdSigner) types.State {
	t.Helper()
	state := types.State{
		Address:            "alice@example.org",
		RetrievalTimestamp: time.Unix(2000, 0),
		Profile: &types.Profile{
			FullName:            "Alice",
			Hometown:            "Zurich",
			CountryCode:         "CH",
			Services:            []string{"mail", "chat"},
			SubmissionTimestamp: time.Unix(1000, 0),
		},
	}
	state.Profile.Signature = signer.SignProfile(&state)
	require.Len(t, state.Profile.Signature, signing.ProfileSignatureSize)
	return state
}

func TestVerifyProfile(t *testing.T) {
	signer, err := signing.NewEdSigner(signing.WithPrefix([]byte("net")))
	require.NoError(t, err)
	verifier, err := signing.NewEdVerifier(signing.WithVerifierPrefix([]byte("net")))
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		state := signedState(t, signer)
		require.NoError(t, verifier.VerifyProfile(&state))
	})
	t.Run("no profile", func(t *testing.T) {
		require.NoError(t, verifier.VerifyProfile(&types.State{Address: "alice@example.org"}))
	})
	t.Run("retrieval timestamp is not signed", func(t *testing.T) {
		state := signedState(t, signer)
		state.RetrievalTimestamp = state.RetrievalTimestamp.Add(time.Hour)
		require.NoError(t, verifier.VerifyProfile(&state))
	})
	t.Run("modified content", func(t *testing.T) {
		state := signedState(t, signer)
		state.Profile.Hometown = "Geneva"
		require.ErrorIs(t, verifier.VerifyProfile(&state), signing.ErrInvalidSignature)
	})
	t.Run("truncated", func(t *testing.T) {
		state := signedState(t, signer)
		state.Profile.Signature = state.Profile.Signature[:signing.ProfileSignatureSize-1]
		require.ErrorIs(t, verifier.VerifyProfile(&state), signing.ErrInvalidSignature)
	})
	t.Run("other key", func(t *testing.T) {
		state := signedState(t, signer)
		other, err := signing.NewEdSigner()
		require.NoError(t, err)
		copy(state.Profile.Signature, other.PublicKey())
		require.ErrorIs(t, verifier.VerifyProfile(&state), signing.ErrInvalidSignature)
	})
	t.Run("other prefix", func(t *testing.T) {
		state := signedState(t, signer)
		plain, err := signing.NewEdVerifier()
		require.NoError(t, err)
		require.ErrorIs(t, plain.VerifyProfile(&state), signing.ErrInvalidSignature)
	})
}

func TestVerifyRejectsBadSizes(t *testing.T) {
	verifier, err := signing.NewEdVerifier()
	require.NoError(t, err)
	require.False(t, verifier.Verify(signing.PROFILE, []byte{1}, []byte("msg"), make([]byte, signing.SignatureSize)))
	require.False(t, verifier.Verify(signing.PROFILE, make([]byte, signing.PublicKeySize), []byte("msg"), []byte{1}))
}
