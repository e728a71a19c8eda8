package wsdata_test

import (
	"testing"

	"github.com/iamNilotpal/tupleflow/pkg/freelist"
	"github.com/iamNilotpal/tupleflow/pkg/label"
	"github.com/iamNilotpal/tupleflow/pkg/logger"
	"github.com/iamNilotpal/tupleflow/pkg/wsdata"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, name string) (*wsdata.Datatype, *wsdata.Pool) {
	t.Helper()
	reg, err := wsdata.NewRegistry(&wsdata.RegistryConfig{Logger: logger.Nop()})
	require.NoError(t, err)

	destroyed := 0
	dt := reg.Register(name, wsdata.Callbacks{
		Init: func(rec *wsdata.Record) { rec.Payload = uint32(0) },
		Destroy: func(rec *wsdata.Record) error {
			destroyed++
			return nil
		},
	})

	pool, err := wsdata.NewPool(wsdata.PoolConfig{
		Datatype: dt, Backend: freelist.BackendMutexHomed, BlockSize: 16,
	})
	require.NoError(t, err)
	return dt, pool
}

func TestRegistryOneShotRegistration(t *testing.T) {
	reg, err := wsdata.NewRegistry(&wsdata.RegistryConfig{Logger: logger.Nop()})
	require.NoError(t, err)

	first := reg.Register("uint32", wsdata.Callbacks{})
	second := reg.Register("uint32", wsdata.Callbacks{
		Init: func(rec *wsdata.Record) {},
	})
	require.Same(t, first, second, "second registration of the same name must be ignored")
	require.Equal(t, 1, reg.Len())
}

// TestPoolAllocateReleaseRoundTrip implements spec.md §8 scenario: allocate
// a record, release it, and confirm the envelope returns to the free list
// (allocated stays 1, size goes back to 1).
func TestPoolAllocateReleaseRoundTrip(t *testing.T) {
	_, pool := newTestPool(t, "uint32")

	rec, ok := pool.Allocate()
	require.True(t, ok)
	require.Equal(t, uint32(0), rec.Payload)
	require.Equal(t, 1, rec.References())

	require.NoError(t, pool.Release(rec))
	require.Equal(t, 1, pool.Allocated())
	require.Equal(t, 1, pool.Size())

	again, ok := pool.Allocate()
	require.True(t, ok)
	require.Same(t, rec, again, "released envelope must be reused, not reconstructed")
	require.Equal(t, 1, pool.Allocated())
}

// TestDependencyReleaseChain implements spec.md §8's dependency-release
// scenario: releasing a child record that holds a dependency on a parent
// must release the parent's extra reference too, and once the parent's
// count reaches zero it returns to its own free list.
func TestDependencyReleaseChain(t *testing.T) {
	_, parentPool := newTestPool(t, "parent")
	_, childPool := newTestPool(t, "child")

	parent, ok := parentPool.Allocate()
	require.True(t, ok)

	child, ok := childPool.Allocate()
	require.True(t, ok)

	require.NoError(t, child.AssignDependency(parent))
	require.Equal(t, 2, parent.References(), "AssignDependency must add a reference to the parent")

	require.NoError(t, childPool.Release(child))
	require.Equal(t, 1, parent.References(), "releasing the child must drop its dependency reference on the parent")

	require.NoError(t, parentPool.Release(parent))
	require.Equal(t, 1, parentPool.Size())
}

func TestAssignDependencyRejectsSelfCycle(t *testing.T) {
	_, pool := newTestPool(t, "self")
	rec, ok := pool.Allocate()
	require.True(t, ok)

	err := rec.AssignDependency(rec)
	require.Error(t, err)
}

func TestRemoveReferenceUnderflow(t *testing.T) {
	_, pool := newTestPool(t, "underflow")
	rec, ok := pool.Allocate()
	require.True(t, ok)

	require.NoError(t, pool.Release(rec))
	_, err := rec.RemoveReference()
	require.Error(t, err)
}

func TestMaxContainerLabels(t *testing.T) {
	_, pool := newTestPool(t, "labeled")
	rec, ok := pool.Allocate()
	require.True(t, ok)

	labelReg, err := label.New(&label.Config{Logger: logger.Nop()})
	require.NoError(t, err)

	for i := 0; i < wsdata.MaxContainerLabels; i++ {
		lbl := labelReg.Register(string(rune('A' + i)))
		require.True(t, rec.AddLabel(lbl))
	}

	overflow := labelReg.Register("OVERFLOW")
	require.False(t, rec.AddLabel(overflow), "the 21st label must be refused")
}
