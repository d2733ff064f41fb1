package types

import (
	"encoding/binary"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/profilesync/hash"
)

// Profile is the identity record published at a webfinger address.
// Profiles are immutable once constructed; field bounds are checked by validation.
type Profile struct {
	FullName            string
	Hometown            string
	CountryCode         string
	Services            []string
	Signature           []byte
	SubmissionTimestamp time.Time
}

// ServicesString joins services the way they are length-checked and stored.
func (p *Profile) ServicesString() string {
	return strings.Join(p.Services, ",")
}

// State is the locally known status of an address.
// A nil Profile means the address currently has no valid profile.
type State struct {
	Address            string
	RetrievalTimestamp time.Time
	Profile            *Profile
}

// HasProfile reports whether the state carries a profile.
func (s *State) HasProfile() bool {
	return s.Profile != nil
}

// Hash returns the content hash of the state. RetrievalTimestamp and the signature are not part
// of it. The hash of a state without a profile is EmptyHash32.
func (s *State) Hash() Hash32 {
	if s.Profile == nil {
		return EmptyHash32
	}
	hh := hash.GetHasher()
	defer hash.PutHasher(hh)
	writeField(hh, s.Address)
	writeField(hh, s.Profile.FullName)
	writeField(hh, s.Profile.Hometown)
	writeField(hh, s.Profile.CountryCode)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(len(s.Profile.Services)))
	hh.Write(buf[:])
	for _, svc := range s.Profile.Services {
		writeField(hh, svc)
	}
	binary.BigEndian.PutUint64(buf[:], uint64(s.Profile.SubmissionTimestamp.UnixNano()))
	hh.Write(buf[:])
	var rst Hash32
	hh.Sum(rst[:0])
	return rst
}

// Equal reports whether both states lack a profile, or both have profiles with the same hash.
func (s *State) Equal(other *State) bool {
	switch {
	case s.Profile == nil && other.Profile == nil:
		return true
	case s.Profile == nil || other.Profile == nil:
		return false
	}
	return s.Hash() == other.Hash()
}

// Stripped returns a copy of the state that carries only the address.
func (s *State) Stripped() State {
	return State{Address: s.Address}
}

// MarshalLogObject implements logging encoder for State.
func (s *State) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("address", s.Address)
	if !s.RetrievalTimestamp.IsZero() {
		encoder.AddTime("retrieved", s.RetrievalTimestamp)
	}
	if s.Profile != nil {
		encoder.AddString("hash", s.Hash().ShortString())
		encoder.AddTime("submitted", s.Profile.SubmissionTimestamp)
	}
	return nil
}

type fieldWriter interface {
	Write([]byte) (int, error)
}

func writeField(w fieldWriter, value string) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(len(value)))
	w.Write(buf[:])
	w.Write([]byte(value))
}

// Ghost records that the state with Hash was replaced or deleted.
type Ghost struct {
	Hash               Hash32
	RetrievalTimestamp time.Time
}

// MarshalLogObject implements logging encoder for Ghost.
func (g *Ghost) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("hash", g.Hash.ShortString())
	encoder.AddTime("retrieved", g.RetrievalTimestamp)
	return nil
}
