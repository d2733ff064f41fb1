package server

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spacemeshos/profilesync/p2p/server/mocks"
)

func TestDeadlineAdjuster(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mocks.NewMockpeerStream(ctrl)
	clock := clockwork.NewFakeClock()
	now := clock.Now()

	var sdCalls []any
	for _, n := range []int{8, 10, 12, 20} {
		sdCalls = append(sdCalls, s.EXPECT().
			SetDeadline(now.Add(time.Duration(n)*time.Second)).
			Return(nil))
	}
	gomock.InOrder(sdCalls...)

	var calls []any
	for range 3 {
		calls = append(calls, s.EXPECT().
			Read(gomock.Any()).
			DoAndReturn(func(b []byte) (int, error) {
				clock.Advance(time.Second)
				return copy(b, "ab"), nil
			}))
	}
	calls = append(calls, s.EXPECT().
		Write([]byte("foo")).
		DoAndReturn(func(b []byte) (int, error) {
			clock.Advance(time.Second)
			return len(b), nil
		}))
	calls = append(calls, s.EXPECT().
		Write([]byte("bar")).
		DoAndReturn(func(b []byte) (int, error) {
			clock.Advance(10 * time.Second)
			return len(b), nil
		}))
	calls = append(calls, s.EXPECT().
		Read(gomock.Any()).
		DoAndReturn(func(b []byte) (int, error) {
			return copy(b, "x"), os.ErrDeadlineExceeded
		}))
	gomock.InOrder(calls...)

	dadj := newDeadlineAdjuster(s, "test", 8*time.Second, 20*time.Second, clock)
	b := make([]byte, 2)
	for range 3 {
		n, err := dadj.Read(b)
		require.NoError(t, err)
		require.Equal(t, 2, n)
		require.Equal(t, "ab", string(b))
	}
	for _, chunk := range []string{"foo", "bar"} {
		n, err := dadj.Write([]byte(chunk))
		require.NoError(t, err)
		require.Equal(t, 3, n)
	}

	n, err := dadj.Read(b)
	require.Equal(t, 1, n)
	require.ErrorIs(t, err, os.ErrDeadlineExceeded)
	require.ErrorContains(t, err, "test: read: 7 bytes read, 6 bytes written, timeout 8s")
}

func TestDeadlineAdjusterEOF(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mocks.NewMockpeerStream(ctrl)
	clock := clockwork.NewFakeClock()
	s.EXPECT().SetDeadline(clock.Now().Add(time.Second)).Return(nil)
	s.EXPECT().Read(gomock.Any()).Return(0, io.EOF)

	dadj := newDeadlineAdjuster(s, "test", time.Second, 0, clock)
	_, err := dadj.Read(make([]byte, 1))
	require.Equal(t, io.EOF, err)
}

func TestDeadlineAdjusterSetDeadlineFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mocks.NewMockpeerStream(ctrl)
	s.EXPECT().SetDeadline(gomock.Any()).Return(io.ErrClosedPipe)

	dadj := newDeadlineAdjuster(s, "test", time.Second, 0, clockwork.NewFakeClock())
	_, err := dadj.Write([]byte("x"))
	require.ErrorIs(t, err, io.ErrClosedPipe)
	require.ErrorContains(t, err, "set deadline")
}
