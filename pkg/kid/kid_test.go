package kid_test

import (
	"testing"

	"github.com/iamNilotpal/tupleflow/pkg/kid"
	"github.com/iamNilotpal/tupleflow/pkg/label"
	"github.com/iamNilotpal/tupleflow/pkg/logger"
	"github.com/iamNilotpal/tupleflow/pkg/wsdata"
	"github.com/stretchr/testify/require"
)

func TestOutlistEmitRoutesThroughConstructorClosure(t *testing.T) {
	reg, err := wsdata.NewRegistry(&wsdata.RegistryConfig{Logger: logger.Nop()})
	require.NoError(t, err)
	dtype := reg.Register("uint32", wsdata.Callbacks{})

	labels, err := label.New(&label.Config{Logger: logger.Nop()})
	require.NoError(t, err)
	lbl := labels.Register("OUT")

	var emitted []*wsdata.Record
	out := kid.NewOutlist(func(rec *wsdata.Record, ot *kid.Outtype) error {
		emitted = append(emitted, rec)
		return nil
	})

	ot := out.AddOuttype(dtype, lbl)
	require.Len(t, out.Outtypes(), 1)

	pool, err := wsdata.NewPool(wsdata.PoolConfig{Datatype: dtype, BlockSize: 4})
	require.NoError(t, err)
	rec, ok := pool.Allocate()
	require.True(t, ok)

	require.NoError(t, out.Emit(rec, ot))
	require.Equal(t, []*wsdata.Record{rec}, emitted)
}

func TestSourceViewRegisterForwardsNameAndFunc(t *testing.T) {
	var gotName string
	var gotFn kid.SourceFunc
	sv := kid.NewSourceView(func(name string, fn kid.SourceFunc) {
		gotName = name
		gotFn = fn
	})

	fn := func(state any, out *kid.Outlist) (bool, error) { return false, nil }
	sv.Register("poll", fn)

	require.Equal(t, "poll", gotName)
	require.NotNil(t, gotFn)
}
