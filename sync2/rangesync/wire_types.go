package rangesync

import (
	"fmt"

	"github.com/spacemeshos/go-scale"

	"github.com/spacemeshos/profilesync/common/types"
)

// MessageType specifies the type of a sync message.
type MessageType byte

const (
	// Done message is sent to indicate the completion of the whole sync run.
	MessageTypeDone MessageType = iota + 1
	// EndRoundMessage is sent to indicate the completion of a single round.
	MessageTypeEndRound
	// EmptySetMessage is sent to indicate that the set is empty. In response, the
	// receiving side sends its whole set using ItemBatch messages.
	MessageTypeEmptySet
	// EmptyRangeMessage is sent to indicate that the specified range is empty. In
	// response, the receiving side sends the contents of the range.
	MessageTypeEmptyRange
	// FingerprintMessage carries a range fingerprint and the number of items in it.
	MessageTypeFingerprint
	// RangeContentsMessage follows the items of a range. The receiving side answers with
	// its items in the range that were not sent.
	MessageTypeRangeContents
	// ItemBatchMessage carries a batch of set items.
	MessageTypeItemBatch
)

func (mtype MessageType) String() string {
	switch mtype {
	case MessageTypeDone:
		return "done"
	case MessageTypeEndRound:
		return "endRound"
	case MessageTypeEmptySet:
		return "emptySet"
	case MessageTypeEmptyRange:
		return "emptyRange"
	case MessageTypeFingerprint:
		return "fingerprint"
	case MessageTypeRangeContents:
		return "rangeContents"
	case MessageTypeItemBatch:
		return "itemBatch"
	}
	return fmt.Sprintf("<unknown %02x>", int(mtype))
}

// maxItemBatch is the maximum number of keys in an ItemBatchMessage.
const maxItemBatch = 1024

// SyncMessage is a message that is a part of the sync protocol.
type SyncMessage interface {
	scale.Encodable
	scale.Decodable
	// Type returns the type of the message.
	Type() MessageType
}

// Marker is a message without payload.
type Marker struct{}

// EncodeScale implements scale.Encodable.
func (*Marker) EncodeScale(*scale.Encoder) (int, error) { return 0, nil }

// DecodeScale implements scale.Decodable.
func (*Marker) DecodeScale(*scale.Decoder) (int, error) { return 0, nil }

// DoneMessage is a SyncMessage that denotes the end of the synchronization.
// The peer should stop any further processing after receiving this message.
type DoneMessage struct{ Marker }

var _ SyncMessage = &DoneMessage{}

func (*DoneMessage) Type() MessageType { return MessageTypeDone }

// EndRoundMessage is a SyncMessage that denotes the end of the sync round.
type EndRoundMessage struct{ Marker }

var _ SyncMessage = &EndRoundMessage{}

func (*EndRoundMessage) Type() MessageType { return MessageTypeEndRound }

// EmptySetMessage is a SyncMessage that denotes an empty set, requesting the
// peer to send all of its items.
type EmptySetMessage struct{ Marker }

var _ SyncMessage = &EmptySetMessage{}

func (*EmptySetMessage) Type() MessageType { return MessageTypeEmptySet }

// Range is a half-open interval [X, Y) of the key space. X == Y denotes the whole set.
type Range struct {
	X, Y types.Hash32
}

// EncodeScale implements scale.Encodable.
func (r *Range) EncodeScale(e *scale.Encoder) (int, error) {
	total, err := r.X.EncodeScale(e)
	if err != nil {
		return total, err
	}
	n, err := r.Y.EncodeScale(e)
	return total + n, err
}

// DecodeScale implements scale.Decodable.
func (r *Range) DecodeScale(d *scale.Decoder) (int, error) {
	total, err := r.X.DecodeScale(d)
	if err != nil {
		return total, err
	}
	n, err := r.Y.DecodeScale(d)
	return total + n, err
}

// EmptyRangeMessage notifies the peer that it needs to send all of its items in
// the specified range.
type EmptyRangeMessage struct {
	Range
}

var _ SyncMessage = &EmptyRangeMessage{}

func (*EmptyRangeMessage) Type() MessageType { return MessageTypeEmptyRange }

// FingerprintMessage contains range fingerprint for comparison against the
// peer's fingerprint of the range with the same bounds [X, Y).
type FingerprintMessage struct {
	Range
	RangeFingerprint Fingerprint
	NumItems         uint32
}

var _ SyncMessage = &FingerprintMessage{}

func (*FingerprintMessage) Type() MessageType { return MessageTypeFingerprint }

// EncodeScale implements scale.Encodable.
func (m *FingerprintMessage) EncodeScale(e *scale.Encoder) (int, error) {
	total, err := m.Range.EncodeScale(e)
	if err != nil {
		return total, err
	}
	n, err := m.RangeFingerprint.EncodeScale(e)
	if err != nil {
		return total + n, err
	}
	total += n
	n, err = scale.EncodeCompact32(e, m.NumItems)
	return total + n, err
}

// DecodeScale implements scale.Decodable.
func (m *FingerprintMessage) DecodeScale(d *scale.Decoder) (int, error) {
	total, err := m.Range.DecodeScale(d)
	if err != nil {
		return total, err
	}
	n, err := m.RangeFingerprint.DecodeScale(d)
	if err != nil {
		return total + n, err
	}
	total += n
	m.NumItems, n, err = scale.DecodeCompact32(d)
	return total + n, err
}

// RangeContentsMessage denotes a range for which the set of items has been sent.
// The peer needs to send back any items it has in the same range bounded
// by [X, Y).
type RangeContentsMessage struct {
	Range
	NumItems uint32
}

var _ SyncMessage = &RangeContentsMessage{}

func (*RangeContentsMessage) Type() MessageType { return MessageTypeRangeContents }

// EncodeScale implements scale.Encodable.
func (m *RangeContentsMessage) EncodeScale(e *scale.Encoder) (int, error) {
	total, err := m.Range.EncodeScale(e)
	if err != nil {
		return total, err
	}
	n, err := scale.EncodeCompact32(e, m.NumItems)
	return total + n, err
}

// DecodeScale implements scale.Decodable.
func (m *RangeContentsMessage) DecodeScale(d *scale.Decoder) (int, error) {
	total, err := m.Range.DecodeScale(d)
	if err != nil {
		return total, err
	}
	var n int
	m.NumItems, n, err = scale.DecodeCompact32(d)
	return total + n, err
}

// ItemBatchMessage denotes a batch of items to be added to the peer's set.
type ItemBatchMessage struct {
	ContentKeys []types.Hash32
}

var _ SyncMessage = &ItemBatchMessage{}

func (*ItemBatchMessage) Type() MessageType { return MessageTypeItemBatch }

// EncodeScale implements scale.Encodable.
func (m *ItemBatchMessage) EncodeScale(e *scale.Encoder) (int, error) {
	if len(m.ContentKeys) > maxItemBatch {
		return 0, fmt.Errorf("item batch too large: %d", len(m.ContentKeys))
	}
	total, err := scale.EncodeCompact32(e, uint32(len(m.ContentKeys)))
	if err != nil {
		return total, err
	}
	for i := range m.ContentKeys {
		n, err := m.ContentKeys[i].EncodeScale(e)
		if err != nil {
			return total + n, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale.Decodable.
func (m *ItemBatchMessage) DecodeScale(d *scale.Decoder) (int, error) {
	count, total, err := scale.DecodeCompact32(d)
	if err != nil {
		return total, err
	}
	if count > maxItemBatch {
		return total, fmt.Errorf("item batch too large: %d", count)
	}
	m.ContentKeys = make([]types.Hash32, count)
	for i := range m.ContentKeys {
		n, err := m.ContentKeys[i].DecodeScale(d)
		if err != nil {
			return total + n, err
		}
		total += n
	}
	return total, nil
}
