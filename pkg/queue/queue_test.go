package queue_test

import (
	"sync"
	"testing"
	"time"

	wserrors "github.com/iamNilotpal/tupleflow/pkg/errors"
	"github.com/iamNilotpal/tupleflow/pkg/queue"
	"github.com/stretchr/testify/require"
)

func TestPushPopFIFO(t *testing.T) {
	q, err := queue.New(queue.Config{Capacity: 4, AttemptCap: 10})
	require.NoError(t, err)

	require.True(t, q.Push(1, "a"))
	require.True(t, q.Push(2, "b"))

	it, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, 1, it.Data)
	require.Equal(t, "a", it.Aux)

	it, ok = q.Pop()
	require.True(t, ok)
	require.Equal(t, 2, it.Data)
}

func TestPopEmptyNonblocking(t *testing.T) {
	q, err := queue.New(queue.Config{Capacity: 2, AttemptCap: 10})
	require.NoError(t, err)
	_, ok := q.Pop()
	require.False(t, ok)
}

func TestPushFullNonblocking(t *testing.T) {
	q, err := queue.New(queue.Config{Capacity: 1, AttemptCap: 10})
	require.NoError(t, err)
	require.True(t, q.Push(1, nil))
	require.False(t, q.Push(2, nil))
}

// TestPushBlockingBackpressure implements spec.md §8's bounded-queue
// back-pressure scenario: a full queue's blocking push gives up after its
// attempt cap rather than waiting forever.
func TestPushBlockingBackpressure(t *testing.T) {
	q, err := queue.New(queue.Config{Capacity: 1, AttemptCap: 3})
	require.NoError(t, err)
	require.True(t, q.Push(1, nil))

	err = q.PushBlocking(2, nil)
	require.Error(t, err)
	pe, ok := wserrors.AsPoolError(err)
	require.True(t, ok)
	require.Equal(t, 1, pe.Capacity())
}

func TestPushBlockingUnblocksOnPop(t *testing.T) {
	q, err := queue.New(queue.Config{Capacity: 1, AttemptCap: 1000})
	require.NoError(t, err)
	require.True(t, q.Push(1, nil))

	done := make(chan error, 1)
	go func() {
		done <- q.PushBlocking(2, nil)
	}()

	time.Sleep(10 * time.Millisecond)
	_, ok := q.Pop()
	require.True(t, ok)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("PushBlocking did not unblock after Pop")
	}
}

func TestConcurrentProducersConsumers(t *testing.T) {
	q, err := queue.New(queue.Config{Capacity: 8, AttemptCap: 1000})
	require.NoError(t, err)

	const n = 200
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			require.NoError(t, q.PushBlocking(i, nil))
		}(i)
	}

	received := make([]any, 0, n)
	var mu sync.Mutex
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			it := q.PopBlocking()
			mu.Lock()
			received = append(received, it.Data)
			mu.Unlock()
		}()
	}
	wg.Wait()
	require.Len(t, received, n)
}
