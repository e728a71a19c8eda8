package flush_test

import (
	"testing"

	"github.com/iamNilotpal/tupleflow/pkg/flush"
	"github.com/stretchr/testify/require"
)

func TestIntermediateIsFlushNotTerminal(t *testing.T) {
	m := flush.Intermediate()
	require.True(t, m.IsFlush())
	require.False(t, m.IsTerminal())
}

func TestTerminalIsFlushAndTerminal(t *testing.T) {
	m := flush.Terminal()
	require.True(t, m.IsFlush())
	require.True(t, m.IsTerminal())
}

func TestDataMessageIsNotFlush(t *testing.T) {
	var m flush.Message
	require.False(t, m.IsFlush())
	require.False(t, m.IsTerminal())
}

func TestKindString(t *testing.T) {
	require.Equal(t, "data", flush.KindData.String())
	require.Equal(t, "intermediate", flush.KindIntermediate.String())
	require.Equal(t, "terminal", flush.KindTerminal.String())
}
