package wire

import (
	"fmt"
	"time"

	"github.com/spacemeshos/go-scale"

	"github.com/spacemeshos/profilesync/codec"
	"github.com/spacemeshos/profilesync/common/types"
)

// MessageType specifies the type of a sync message.
type MessageType byte

const (
	// MessageTypeTerminator ends a list of messages of the same kind.
	MessageTypeTerminator MessageType = iota + 1
	// MessageTypeDeletionRequest announces a deleted hash.
	MessageTypeDeletionRequest
	// MessageTypeStateRequest asks for the state with a hash.
	MessageTypeStateRequest
	// MessageTypeState carries a state.
	MessageTypeState
)

func (mtype MessageType) String() string {
	switch mtype {
	case MessageTypeTerminator:
		return "terminator"
	case MessageTypeDeletionRequest:
		return "deletion-request"
	case MessageTypeStateRequest:
		return "state-request"
	case MessageTypeState:
		return "state"
	}
	return fmt.Sprintf("<unknown %02x>", int(mtype))
}

const (
	maxStringLength   = 4096
	maxServices       = 1024
	maxSignatureBytes = 1024
)

// Message is a message that can be sent over a Conduit.
type Message interface {
	codec.Encodable
	codec.Decodable
	Type() MessageType
}

// Terminator ends a list of messages.
type Terminator struct{}

var _ Message = &Terminator{}

func (*Terminator) Type() MessageType { return MessageTypeTerminator }

// EncodeScale implements scale.Encodable.
func (*Terminator) EncodeScale(*scale.Encoder) (int, error) { return 0, nil }

// DecodeScale implements scale.Decodable.
func (*Terminator) DecodeScale(*scale.Decoder) (int, error) { return 0, nil }

// DeletionRequest announces that the state with Hash was replaced or deleted.
// A zero RetrievalTimestamp means the sender doesn't vouch for when that happened.
type DeletionRequest struct {
	Hash               types.Hash32
	RetrievalTimestamp time.Time
}

var _ Message = &DeletionRequest{}

func (*DeletionRequest) Type() MessageType { return MessageTypeDeletionRequest }

// EncodeScale implements scale.Encodable.
func (m *DeletionRequest) EncodeScale(e *scale.Encoder) (int, error) {
	total, err := m.Hash.EncodeScale(e)
	if err != nil {
		return total, err
	}
	n, err := encodeOptionalTime(e, m.RetrievalTimestamp)
	return total + n, err
}

// DecodeScale implements scale.Decodable.
func (m *DeletionRequest) DecodeScale(d *scale.Decoder) (int, error) {
	total, err := m.Hash.DecodeScale(d)
	if err != nil {
		return total, err
	}
	ts, n, err := decodeOptionalTime(d)
	m.RetrievalTimestamp = ts
	return total + n, err
}

// StateRequest asks the peer for the state with Hash.
type StateRequest struct {
	Hash types.Hash32
}

var _ Message = &StateRequest{}

func (*StateRequest) Type() MessageType { return MessageTypeStateRequest }

// EncodeScale implements scale.Encodable.
func (m *StateRequest) EncodeScale(e *scale.Encoder) (int, error) {
	return m.Hash.EncodeScale(e)
}

// DecodeScale implements scale.Decodable.
func (m *StateRequest) DecodeScale(d *scale.Decoder) (int, error) {
	return m.Hash.DecodeScale(d)
}

// StateMessage carries a state. A state without a profile is sent as its address only.
type StateMessage struct {
	State types.State
}

var _ Message = &StateMessage{}

func (*StateMessage) Type() MessageType { return MessageTypeState }

// EncodeScale implements scale.Encodable.
func (m *StateMessage) EncodeScale(e *scale.Encoder) (int, error) {
	total := 0
	n, err := encodeString(e, m.State.Address)
	if err != nil {
		return total, err
	}
	total += n
	p := m.State.Profile
	n, err = encodeFlag(e, p != nil)
	if err != nil {
		return total, err
	}
	total += n
	if p == nil {
		return total, nil
	}
	n, err = encodeTime(e, m.State.RetrievalTimestamp)
	if err != nil {
		return total, err
	}
	total += n
	for _, s := range []string{p.FullName, p.Hometown, p.CountryCode} {
		n, err = encodeString(e, s)
		if err != nil {
			return total, err
		}
		total += n
	}
	if len(p.Services) > maxServices {
		return total, fmt.Errorf("%w: %d services", ErrMalformed, len(p.Services))
	}
	n, err = scale.EncodeCompact32(e, uint32(len(p.Services)))
	if err != nil {
		return total, err
	}
	total += n
	for _, s := range p.Services {
		n, err = encodeString(e, s)
		if err != nil {
			return total, err
		}
		total += n
	}
	n, err = scale.EncodeByteSliceWithLimit(e, p.Signature, maxSignatureBytes)
	if err != nil {
		return total, err
	}
	total += n
	n, err = encodeTime(e, p.SubmissionTimestamp)
	return total + n, err
}

// DecodeScale implements scale.Decodable.
func (m *StateMessage) DecodeScale(d *scale.Decoder) (int, error) {
	total := 0
	address, n, err := decodeString(d)
	if err != nil {
		return total, err
	}
	total += n
	m.State = types.State{Address: address}
	hasProfile, n, err := decodeFlag(d)
	if err != nil {
		return total, err
	}
	total += n
	if !hasProfile {
		return total, nil
	}
	m.State.RetrievalTimestamp, n, err = decodeTime(d)
	if err != nil {
		return total, err
	}
	total += n
	p := &types.Profile{}
	for _, dst := range []*string{&p.FullName, &p.Hometown, &p.CountryCode} {
		*dst, n, err = decodeString(d)
		if err != nil {
			return total, err
		}
		total += n
	}
	count, n, err := scale.DecodeCompact32(d)
	if err != nil {
		return total, err
	}
	total += n
	if count > maxServices {
		return total, fmt.Errorf("%w: %d services", ErrMalformed, count)
	}
	if count > 0 {
		p.Services = make([]string, count)
	}
	for i := range p.Services {
		p.Services[i], n, err = decodeString(d)
		if err != nil {
			return total, err
		}
		total += n
	}
	p.Signature, n, err = scale.DecodeByteSliceWithLimit(d, maxSignatureBytes)
	if err != nil {
		return total, err
	}
	total += n
	p.SubmissionTimestamp, n, err = decodeTime(d)
	if err != nil {
		return total, err
	}
	total += n
	m.State.Profile = p
	return total, nil
}

func encodeString(e *scale.Encoder, s string) (int, error) {
	return scale.EncodeByteSliceWithLimit(e, []byte(s), maxStringLength)
}

func decodeString(d *scale.Decoder) (string, int, error) {
	b, n, err := scale.DecodeByteSliceWithLimit(d, maxStringLength)
	return string(b), n, err
}

func encodeFlag(e *scale.Encoder, flag bool) (int, error) {
	var v uint8
	if flag {
		v = 1
	}
	return scale.EncodeCompact8(e, v)
}

func decodeFlag(d *scale.Decoder) (bool, int, error) {
	v, n, err := scale.DecodeCompact8(d)
	if err != nil {
		return false, n, err
	}
	switch v {
	case 0:
		return false, n, nil
	case 1:
		return true, n, nil
	}
	return false, n, fmt.Errorf("%w: flag value %d", ErrMalformed, v)
}

func encodeTime(e *scale.Encoder, t time.Time) (int, error) {
	return scale.EncodeCompact64(e, uint64(t.UnixNano()))
}

func decodeTime(d *scale.Decoder) (time.Time, int, error) {
	v, n, err := scale.DecodeCompact64(d)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.Unix(0, int64(v)), n, nil
}

func encodeOptionalTime(e *scale.Encoder, t time.Time) (int, error) {
	total, err := encodeFlag(e, !t.IsZero())
	if err != nil || t.IsZero() {
		return total, err
	}
	n, err := encodeTime(e, t)
	return total + n, err
}

func decodeOptionalTime(d *scale.Decoder) (time.Time, int, error) {
	set, total, err := decodeFlag(d)
	if err != nil || !set {
		return time.Time{}, total, err
	}
	t, n, err := decodeTime(d)
	return t, total + n, err
}
