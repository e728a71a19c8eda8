package tuple_test

import (
	"fmt"
	"testing"

	"github.com/iamNilotpal/tupleflow/pkg/freelist"
	"github.com/iamNilotpal/tupleflow/pkg/label"
	"github.com/iamNilotpal/tupleflow/pkg/logger"
	"github.com/iamNilotpal/tupleflow/pkg/tuple"
	"github.com/iamNilotpal/tupleflow/pkg/wsdata"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*tuple.Store, *wsdata.Registry, *wsdata.Pool, *wsdata.Datatype) {
	t.Helper()
	reg, err := wsdata.NewRegistry(&wsdata.RegistryConfig{Logger: logger.Nop()})
	require.NoError(t, err)

	store, err := tuple.NewStore(tuple.Config{
		Registry: reg, Backend: freelist.BackendMutexHomed, BlockSize: 16,
		SmallCap: 4, MediumCap: 8, LargeCap: 16, Ceiling: 16,
	})
	require.NoError(t, err)

	u32 := reg.Register("uint32", wsdata.Callbacks{
		Init: func(rec *wsdata.Record) { rec.Payload = uint32(0) },
	})
	u32Pool, err := wsdata.NewPool(wsdata.PoolConfig{Datatype: u32, Backend: freelist.BackendMutexHomed, BlockSize: 16})
	require.NoError(t, err)

	return store, reg, u32Pool, u32
}

// TestTuplePoolRoundTrip implements spec.md §8 scenario 2: allocate a
// small-bucket tuple, add 10 uint32 members under labels K0..K9, emit to
// one consumer that drops it, and verify the payload returns to its bucket's
// free list (the large one, after promotion) and the envelope to the tuple
// datatype's record free list.
//
// SmallCap is 4 here so the 10-member run also exercises promotion through
// medium into large.
func TestTuplePoolRoundTrip(t *testing.T) {
	store, _, u32Pool, _ := newStore(t)
	labelReg, err := label.New(&label.Config{Logger: logger.Nop()})
	require.NoError(t, err)

	rec, err := store.Allocate()
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		member, ok := u32Pool.Allocate()
		require.True(t, ok)
		member.Payload = uint32(i)
		lbl := labelReg.Register(fmt.Sprintf("K%d", i))
		member.AddLabel(lbl)
		require.NoError(t, store.AddMember(rec, member, false))
	}

	bkt := rec.Payload.(*tuple.Bucket)
	require.Equal(t, tuple.BucketLarge, bkt.Kind, "10 members into a 4/8/16-cap ladder must land in the large bucket")

	require.NoError(t, store.Pool().Release(rec))
	require.Equal(t, 1, store.BucketSize(tuple.BucketLarge), "released large bucket payload must return to the large free list")

	rec2, err := store.Allocate()
	require.NoError(t, err)
	require.Equal(t, 1, store.Pool().Allocated(), "tuple envelope must be reused from its free list")
	_ = rec2
}

func TestAddMemberPromotesAcrossBuckets(t *testing.T) {
	store, _, u32Pool, _ := newStore(t)

	rec, err := store.Allocate()
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		member, ok := u32Pool.Allocate()
		require.True(t, ok)
		require.NoError(t, store.AddMember(rec, member, false))
	}

	bkt := rec.Payload.(*tuple.Bucket)
	require.Equal(t, tuple.BucketMedium, bkt.Kind, "5th member must promote a 4-cap small bucket to medium")
	require.Equal(t, 5, bkt.Len())
}

func TestAddMemberFullLargeBucketFails(t *testing.T) {
	store, _, u32Pool, _ := newStore(t)
	rec, err := store.Allocate()
	require.NoError(t, err)

	for i := 0; i < 16; i++ {
		member, ok := u32Pool.Allocate()
		require.True(t, ok)
		require.NoError(t, store.AddMember(rec, member, false))
	}

	overflow, ok := u32Pool.Allocate()
	require.True(t, ok)
	err = store.AddMember(rec, overflow, false)
	require.Error(t, err)
}

func TestSharedMemberDependency(t *testing.T) {
	store, _, u32Pool, _ := newStore(t)
	rec, err := store.Allocate()
	require.NoError(t, err)

	member, ok := u32Pool.Allocate()
	require.True(t, ok)

	require.NoError(t, store.AddMember(rec, member, true))
	require.Equal(t, 2, rec.References(), "a shared member must add a dependency reference on the tuple")
}
