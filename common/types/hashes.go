package types

import (
	"encoding/hex"
	"fmt"

	"github.com/spacemeshos/go-scale"

	"github.com/spacemeshos/profilesync/hash"
)

// Hash32Length is 32, the expected length of the hash.
const Hash32Length = hash.Size

// Hash32 is the content hash of a State.
type Hash32 [Hash32Length]byte

// EmptyHash32 is the zero value of Hash32. It is never the hash of a stored State.
var EmptyHash32 = Hash32{}

// CalcHash32 returns the 32-byte digest of the given chunks.
func CalcHash32(chunks ...[]byte) Hash32 {
	return hash.Sum(chunks...)
}

// Bytes returns the byte representation of the hash.
func (h Hash32) Bytes() []byte { return h[:] }

// Hex converts a hash to a lowercase hex string without prefix.
func (h Hash32) Hex() string { return hex.EncodeToString(h[:]) }

// String implements fmt.Stringer.
func (h Hash32) String() string { return h.Hex() }

// ShortString returns the first 5 characters of the hash, for logging purposes.
func (h Hash32) ShortString() string { return h.Hex()[:5] }

// MarshalText implements encoding.TextMarshaler.
func (h Hash32) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

// UnmarshalText parses a hash in hex syntax.
func (h *Hash32) UnmarshalText(input []byte) error {
	decoded, err := HexToHash32(string(input))
	if err != nil {
		return err
	}
	*h = decoded
	return nil
}

// Compare returns -1, 0 or 1 when h sorts before, equal to or after other.
func (h Hash32) Compare(other Hash32) int {
	for i := range h {
		switch {
		case h[i] < other[i]:
			return -1
		case h[i] > other[i]:
			return 1
		}
	}
	return 0
}

// EncodeScale implements scale codec interface.
func (h *Hash32) EncodeScale(e *scale.Encoder) (int, error) {
	return scale.EncodeByteArray(e, h[:])
}

// DecodeScale implements scale codec interface.
func (h *Hash32) DecodeScale(d *scale.Decoder) (int, error) {
	return scale.DecodeByteArray(d, h[:])
}

// HexToHash32 parses a hex string, optionally prefixed with 0x, into a Hash32.
func HexToHash32(s string) (Hash32, error) {
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	var h Hash32
	if len(s) != 2*Hash32Length {
		return h, fmt.Errorf("invalid hash length %d", len(s))
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return h, fmt.Errorf("decode hash: %w", err)
	}
	return h, nil
}
