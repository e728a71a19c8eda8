package rbtree_test

import (
	"math/rand"
	"testing"

	"github.com/iamNilotpal/tupleflow/pkg/rbtree"
	"github.com/stretchr/testify/require"
)

func intCmp(a, b any) int {
	x, y := a.(int), b.(int)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func newTree(t *testing.T) *rbtree.Tree {
	tr, err := rbtree.New(rbtree.Config{Comparator: intCmp})
	require.NoError(t, err)
	return tr
}

// TestOrderedEmit implements spec.md §8's ordered-emit property: entries
// drain in ascending key order regardless of insertion order.
func TestOrderedEmit(t *testing.T) {
	tr := newTree(t)
	keys := []int{50, 10, 40, 30, 20, 60, 5, 70, 35}
	for _, k := range keys {
		require.True(t, tr.Insert(k, k, 0))
	}

	var got []int
	for {
		rec, _, ok := tr.DeleteMin()
		if !ok {
			break
		}
		got = append(got, rec.(int))
	}

	want := append([]int(nil), keys...)
	sortInts(want)
	require.Equal(t, want, got)
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func TestMinMaxCaches(t *testing.T) {
	tr := newTree(t)
	for _, k := range []int{10, 5, 20, 1, 30} {
		require.True(t, tr.Insert(k, k, 0))
	}

	min, ok := tr.Min()
	require.True(t, ok)
	require.Equal(t, 1, min.Key)

	max, ok := tr.Max()
	require.True(t, ok)
	require.Equal(t, 30, max.Key)
}

func TestInsertAfterLastAscendingRun(t *testing.T) {
	tr := newTree(t)
	for i := 0; i < 500; i++ {
		require.True(t, tr.InsertAfterLast(i, i, 0))
	}

	entries := tr.Enumerate(0, 499)
	require.Len(t, entries, 500)
	for i, e := range entries {
		require.Equal(t, i, e.Key)
	}
}

func TestEnumerateClosedRange(t *testing.T) {
	tr := newTree(t)
	for i := 0; i < 100; i++ {
		require.True(t, tr.Insert(i, i, 0))
	}

	entries := tr.Enumerate(10, 20)
	require.Len(t, entries, 11)
	require.Equal(t, 10, entries[0].Key)
	require.Equal(t, 20, entries[len(entries)-1].Key)
}

func TestDeleteArbitraryKey(t *testing.T) {
	tr := newTree(t)
	for _, k := range []int{10, 5, 20, 1, 30, 15} {
		require.True(t, tr.Insert(k, k, 0))
	}

	rec, _, ok := tr.Delete(20)
	require.True(t, ok)
	require.Equal(t, 20, rec)

	_, _, ok = tr.Delete(20)
	require.False(t, ok)

	entries := tr.Enumerate(0, 100)
	require.Len(t, entries, 5)
}

func TestNodePoolExhaustion(t *testing.T) {
	tr, err := rbtree.New(rbtree.Config{Comparator: intCmp, NodePoolSize: 3})
	require.NoError(t, err)

	require.True(t, tr.Insert(1, 1, 0))
	require.True(t, tr.Insert(2, 2, 0))
	require.True(t, tr.Insert(3, 3, 0))
	require.False(t, tr.Insert(4, 4, 0), "insert beyond the preallocated node pool must fail, not panic")
}

func TestRandomizedOrderingHoldsUnderChurn(t *testing.T) {
	tr := newTree(t)
	present := make(map[int]bool)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 2000; i++ {
		k := rng.Intn(500)
		if present[k] {
			continue
		}
		present[k] = true
		require.True(t, tr.Insert(k, k, 0))
	}

	var prev int
	first := true
	for {
		rec, _, ok := tr.DeleteMin()
		if !ok {
			break
		}
		k := rec.(int)
		if !first {
			require.Greater(t, k, prev)
		}
		prev = k
		first = false
	}
}
