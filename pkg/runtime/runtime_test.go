package runtime_test

import (
	"testing"

	"github.com/iamNilotpal/tupleflow/pkg/kid"
	"github.com/iamNilotpal/tupleflow/pkg/logger"
	"github.com/iamNilotpal/tupleflow/pkg/options"
	"github.com/iamNilotpal/tupleflow/pkg/runtime"
	"github.com/stretchr/testify/require"
)

func newRuntime(t *testing.T) *runtime.Runtime {
	t.Helper()
	opts := options.NewDefaultOptions()
	rt, err := runtime.New(&runtime.Config{Options: &opts, Logger: logger.Nop()})
	require.NoError(t, err)
	return rt
}

func TestNewWiresLabelsDatatypesAndTuples(t *testing.T) {
	rt := newRuntime(t)
	require.NotNil(t, rt.Labels())
	require.NotNil(t, rt.Datatypes())
	require.NotNil(t, rt.Tuples())
	require.Equal(t, 1, rt.Datatypes().Len(), "tuple store must have registered the \"tuple\" datatype")
}

func TestTypeTableExposesBorrowedRegistries(t *testing.T) {
	rt := newRuntime(t)
	tt := rt.TypeTable()
	require.Same(t, rt.Labels(), tt.Labels)
	require.Same(t, rt.Datatypes(), tt.Datatypes)
}

func TestSourceViewRegistersIntoRuntime(t *testing.T) {
	rt := newRuntime(t)
	sv := rt.SourceView()

	sv.Register("poller", func(state any, out *kid.Outlist) (bool, error) { return false, nil })

	fn, ok := rt.Source("poller")
	require.True(t, ok)
	require.NotNil(t, fn)
}

func TestCloseIsIdempotent(t *testing.T) {
	rt := newRuntime(t)
	require.NoError(t, rt.Close())
	require.True(t, rt.Closed())
	require.Error(t, rt.Close())
}

func TestNewRejectsNilLogger(t *testing.T) {
	opts := options.NewDefaultOptions()
	_, err := runtime.New(&runtime.Config{Options: &opts})
	require.Error(t, err)
}
