package priorityq

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const defLen = 1000

func intLess(a, b int) bool { return a < b }

func TestPriorityQ_Order(t *testing.T) {
	r := require.New(t)
	pq := New(defLen, intLess)
	for _, v := range []int{5, 1, 4, 1, 3} {
		r.NoError(pq.TryPush(v))
	}
	r.Equal(5, pq.Len())
	ctx := context.Background()
	var got []int
	for pq.Len() > 0 {
		v, err := pq.Pop(ctx)
		r.NoError(err)
		got = append(got, v)
	}
	r.Equal([]int{1, 1, 3, 4, 5}, got)
}

type item struct {
	prio, id int
}

func TestPriorityQ_StableForEqual(t *testing.T) {
	r := require.New(t)
	pq := New(defLen, func(a, b item) bool { return a.prio < b.prio })
	for i := 0; i < 10; i++ {
		r.NoError(pq.TryPush(item{prio: i % 2, id: i}))
	}
	ctx := context.Background()
	last := map[int]int{0: -1, 1: -1}
	for i := 0; i < 10; i++ {
		v, err := pq.Pop(ctx)
		r.NoError(err)
		if i < 5 {
			r.Equal(0, v.prio)
		}
		r.Greater(v.id, last[v.prio])
		last[v.prio] = v.id
	}
}

func TestPriorityQ_FIFO(t *testing.T) {
	r := require.New(t)
	pq := New(3, FIFO[string])
	for _, v := range []string{"c", "a", "b"} {
		r.NoError(pq.TryPush(v))
	}
	ctx := context.Background()
	for _, expected := range []string{"c", "a", "b"} {
		v, err := pq.Pop(ctx)
		r.NoError(err)
		r.Equal(expected, v)
	}
}

func TestPriorityQ_Full(t *testing.T) {
	r := require.New(t)
	pq := New(2, intLess)
	r.NoError(pq.TryPush(1))
	r.NoError(pq.TryPush(2))
	r.ErrorIs(pq.TryPush(3), ErrFull)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	r.ErrorIs(pq.Push(ctx, 3), context.DeadlineExceeded)
}

func TestPriorityQ_PushBlocksUntilPop(t *testing.T) {
	r := require.New(t)
	pq := New(1, intLess)
	r.NoError(pq.TryPush(1))

	var eg errgroup.Group
	eg.Go(func() error {
		return pq.Push(context.Background(), 2)
	})
	v, err := pq.Pop(context.Background())
	r.NoError(err)
	r.Equal(1, v)
	r.NoError(eg.Wait())
	r.Equal(1, pq.Len())
}

func TestPriorityQ_PopBlocksUntilPush(t *testing.T) {
	r := require.New(t)
	pq := New(defLen, intLess)
	result := make(chan int, 1)
	go func() {
		v, err := pq.Pop(context.Background())
		if err == nil {
			result <- v
		}
		close(result)
	}()
	r.NoError(pq.Push(context.Background(), 7))
	select {
	case v := <-result:
		r.Equal(7, v)
	case <-time.After(5 * time.Second):
		r.FailNow("pop didn't return")
	}
}

func TestPriorityQ_ConcurrentWriteRead(t *testing.T) {
	r := require.New(t)
	pq := New(10, intLess)
	ctx := context.Background()

	var writers sync.WaitGroup
	for w := 0; w < 3; w++ {
		writers.Add(1)
		go func() {
			defer writers.Done()
			for i := 0; i < defLen; i++ {
				r.NoError(pq.Push(ctx, i))
			}
		}()
	}
	read := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, err := pq.Pop(ctx); err != nil {
				return
			}
			read++
		}
	}()
	writers.Wait()
	pq.Close()
	<-done
	r.Equal(3*defLen, read)
}

func TestPriorityQ_Close(t *testing.T) {
	r := require.New(t)
	pq := New(defLen, intLess)
	r.NoError(pq.TryPush(2))
	r.NoError(pq.TryPush(1))
	pq.Close()
	pq.Close()

	r.ErrorIs(pq.TryPush(3), ErrClosed)
	r.ErrorIs(pq.Push(context.Background(), 3), ErrClosed)

	ctx := context.Background()
	v, err := pq.Pop(ctx)
	r.NoError(err)
	r.Equal(1, v)
	v, err = pq.Pop(ctx)
	r.NoError(err)
	r.Equal(2, v)
	_, err = pq.Pop(ctx)
	r.ErrorIs(err, ErrClosed)
}

func TestPriorityQ_CloseWakesReaders(t *testing.T) {
	pq := New(defLen, intLess)
	var eg errgroup.Group
	for i := 0; i < 4; i++ {
		eg.Go(func() error {
			_, err := pq.Pop(context.Background())
			return err
		})
	}
	time.Sleep(10 * time.Millisecond)
	pq.Close()
	require.ErrorIs(t, eg.Wait(), ErrClosed)
}
