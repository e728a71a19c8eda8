package stack_test

import (
	"sync"
	"testing"

	"github.com/iamNilotpal/tupleflow/pkg/stack"
	"github.com/stretchr/testify/require"
)

func TestPushPopOrder(t *testing.T) {
	s := stack.New()
	s.Push(1)
	s.Push(2)
	s.Push(3)

	v, ok := s.Pop()
	require.True(t, ok)
	require.Equal(t, 3, v)

	v, ok = s.Pop()
	require.True(t, ok)
	require.Equal(t, 2, v)

	require.Equal(t, int64(1), s.Size())
}

func TestPopEmpty(t *testing.T) {
	s := stack.New()
	_, ok := s.Pop()
	require.False(t, ok)
}

func TestClearDetachesWholeChain(t *testing.T) {
	s := stack.New()
	for i := 0; i < 5; i++ {
		s.Push(i)
	}

	values := s.Clear()
	require.Len(t, values, 5)
	require.Equal(t, int64(0), s.Size())

	_, ok := s.Pop()
	require.False(t, ok)
}

// TestConcurrentPushPop implements spec.md §8's property that push/pop races
// never lose or duplicate an element (the ABA hazard the tagged snapshot
// exists to prevent).
func TestConcurrentPushPop(t *testing.T) {
	s := stack.New()
	const n = 2000

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			s.Push(i)
		}(i)
	}
	wg.Wait()
	require.Equal(t, int64(n), s.Size())

	seen := make(map[any]bool)
	var mu sync.Mutex
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			v, ok := s.Pop()
			require.True(t, ok)
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, seen, n)
	require.Equal(t, int64(0), s.Size())
}
