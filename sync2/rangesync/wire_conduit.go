package rangesync

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spacemeshos/profilesync/codec"
)

// Conduit handles receiving and sending peer messages.
type Conduit interface {
	// NextMessage returns the next SyncMessage.
	NextMessage() (SyncMessage, error)
	// Send sends a SyncMessage to the peer. The message may be buffered until Flush.
	Send(SyncMessage) error
	// Flush writes the buffered messages.
	Flush() error
}

// wireConduit reads messages from the stream without any read-ahead so that the stream
// can be handed back to the caller after the sync is done.
//
// Outgoing messages of a round are kept in memory and written only by Flush, after the
// whole round of the peer was read. On a synchronous stream a write blocks until the peer
// reads it, so writing while the peer is still writing its own round would deadlock.
type wireConduit struct {
	stream io.ReadWriter
	out    bytes.Buffer
}

var _ Conduit = &wireConduit{}

func newWireConduit(stream io.ReadWriter) *wireConduit {
	return &wireConduit{stream: stream}
}

func (c *wireConduit) NextMessage() (SyncMessage, error) {
	var b [1]byte
	if _, err := io.ReadFull(c.stream, b[:]); err != nil {
		return nil, fmt.Errorf("read message type: %w", err)
	}
	var m SyncMessage
	switch mtype := MessageType(b[0]); mtype {
	case MessageTypeDone:
		return &DoneMessage{}, nil
	case MessageTypeEndRound:
		return &EndRoundMessage{}, nil
	case MessageTypeEmptySet:
		return &EmptySetMessage{}, nil
	case MessageTypeEmptyRange:
		m = &EmptyRangeMessage{}
	case MessageTypeFingerprint:
		m = &FingerprintMessage{}
	case MessageTypeRangeContents:
		m = &RangeContentsMessage{}
	case MessageTypeItemBatch:
		m = &ItemBatchMessage{}
	default:
		return nil, fmt.Errorf("invalid message code %02x", b[0])
	}
	if _, err := codec.DecodeFrom(c.stream, m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", m.Type(), err)
	}
	return m, nil
}

func (c *wireConduit) Send(m SyncMessage) error {
	c.out.WriteByte(byte(m.Type()))
	_, err := codec.EncodeTo(&c.out, m)
	return err
}

func (c *wireConduit) Flush() error {
	if c.out.Len() == 0 {
		return nil
	}
	_, err := c.out.WriteTo(c.stream)
	c.out.Reset()
	return err
}
