// Package wire implements the messages exchanged by two partners after reconciliation.
package wire

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spacemeshos/profilesync/codec"
	"github.com/spacemeshos/profilesync/common/types"
)

var (
	// ErrUnexpectedMessage is returned when the peer sends a message that is not allowed
	// at this point of the exchange.
	ErrUnexpectedMessage = errors.New("wire: unexpected message")
	// ErrMalformed is returned when a message can't be decoded.
	ErrMalformed = errors.New("wire: malformed message")
)

// MaxListLength bounds the number of messages before a terminator.
const MaxListLength = 1 << 20

// Conduit reads and writes messages on a stream. Writes are buffered until a list
// is terminated.
type Conduit struct {
	r *bufio.Reader
	w *bufio.Writer
}

// NewConduit creates a conduit over the stream. The conduit may read ahead, the stream must
// not be used directly afterwards.
func NewConduit(stream io.ReadWriter) *Conduit {
	return &Conduit{
		r: bufio.NewReader(stream),
		w: bufio.NewWriter(stream),
	}
}

// Send writes a message into the buffer.
func (c *Conduit) Send(m Message) error {
	if err := c.w.WriteByte(byte(m.Type())); err != nil {
		return err
	}
	if _, err := codec.EncodeTo(c.w, m); err != nil {
		return err
	}
	return nil
}

// Flush writes buffered messages to the stream.
func (c *Conduit) Flush() error {
	return c.w.Flush()
}

// Terminate sends a terminator and flushes the buffer.
func (c *Conduit) Terminate() error {
	if err := c.Send(&Terminator{}); err != nil {
		return err
	}
	return c.Flush()
}

// Receive reads the next message. A stream that ends before a complete message is an error.
func (c *Conduit) Receive() (Message, error) {
	var b [1]byte
	if _, err := io.ReadFull(c.r, b[:]); err != nil {
		return nil, fmt.Errorf("read message type: %w", err)
	}
	var m Message
	switch mtype := MessageType(b[0]); mtype {
	case MessageTypeTerminator:
		return &Terminator{}, nil
	case MessageTypeDeletionRequest:
		m = &DeletionRequest{}
	case MessageTypeStateRequest:
		m = &StateRequest{}
	case MessageTypeState:
		m = &StateMessage{}
	default:
		return nil, fmt.Errorf("%w: invalid message code %02x", ErrMalformed, b[0])
	}
	if _, err := codec.DecodeFrom(c.r, m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, m.Type(), err)
	}
	return m, nil
}

// receiveList reads messages of one type until a terminator. On error, the messages
// received so far are returned along with it.
func receiveList[T Message](c *Conduit) ([]T, error) {
	var rst []T
	for {
		m, err := c.Receive()
		if err != nil {
			return rst, err
		}
		if _, ok := m.(*Terminator); ok {
			return rst, nil
		}
		typed, ok := m.(T)
		if !ok {
			return rst, fmt.Errorf("%w: %s", ErrUnexpectedMessage, m.Type())
		}
		if len(rst) == MaxListLength {
			return rst, fmt.Errorf("%w: more than %d messages", ErrMalformed, MaxListLength)
		}
		rst = append(rst, typed)
	}
}

// SendDeletionRequests sends a terminated list of deletion requests.
func (c *Conduit) SendDeletionRequests(reqs []DeletionRequest) error {
	for i := range reqs {
		if err := c.Send(&reqs[i]); err != nil {
			return err
		}
	}
	return c.Terminate()
}

// ReceiveDeletionRequests reads a terminated list of deletion requests.
// On error, the requests received so far are returned along with it.
func (c *Conduit) ReceiveDeletionRequests() ([]DeletionRequest, error) {
	msgs, err := receiveList[*DeletionRequest](c)
	rst := make([]DeletionRequest, len(msgs))
	for i, m := range msgs {
		rst[i] = *m
	}
	return rst, err
}

// SendStateRequests sends a terminated list of state requests.
func (c *Conduit) SendStateRequests(hashes []types.Hash32) error {
	for _, h := range hashes {
		if err := c.Send(&StateRequest{Hash: h}); err != nil {
			return err
		}
	}
	return c.Terminate()
}

// ReceiveStateRequests reads a terminated list of state requests.
func (c *Conduit) ReceiveStateRequests() ([]types.Hash32, error) {
	msgs, err := receiveList[*StateRequest](c)
	rst := make([]types.Hash32, len(msgs))
	for i, m := range msgs {
		rst[i] = m.Hash
	}
	return rst, err
}

// SendStates sends a terminated list of states.
func (c *Conduit) SendStates(states []types.State) error {
	for _, st := range states {
		if err := c.Send(&StateMessage{State: st}); err != nil {
			return err
		}
	}
	return c.Terminate()
}

// ReceiveStates reads a terminated list of states.
func (c *Conduit) ReceiveStates() ([]types.State, error) {
	msgs, err := receiveList[*StateMessage](c)
	rst := make([]types.State, len(msgs))
	for i, m := range msgs {
		rst[i] = m.State
	}
	return rst, err
}
