package label_test

import (
	"testing"

	wserrors "github.com/iamNilotpal/tupleflow/pkg/errors"
	"github.com/iamNilotpal/tupleflow/pkg/label"
	"github.com/iamNilotpal/tupleflow/pkg/logger"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) *label.Registry {
	t.Helper()
	reg, err := label.New(&label.Config{Logger: logger.Nop()})
	require.NoError(t, err)
	return reg
}

// TestRegisterAndLookup implements spec.md §8 scenario 1: register A, B, A
// again; expect 2 distinct label objects and find_by_hash(hash("A")) to
// return the first.
func TestRegisterAndLookup(t *testing.T) {
	reg := newRegistry(t)

	a1 := reg.Register("A")
	b := reg.Register("B")
	a2 := reg.Register("A")

	require.Same(t, a1, a2, "registering the same name twice must return the identical object")
	require.NotSame(t, a1, b)

	found, ok := reg.FindByHash(a1.Hash)
	require.True(t, ok)
	require.Same(t, a1, found)
}

func TestSearchAssignsStableIndex(t *testing.T) {
	reg := newRegistry(t)

	y, err := reg.Search("y")
	require.NoError(t, err)
	require.True(t, y.Searchable)
	require.NotZero(t, y.Index)

	again := reg.Register("y")
	require.Same(t, y, again)
	require.True(t, again.Searchable)
	require.Equal(t, y.Index, again.Index)

	// Searching again must not reassign the index id.
	y2, err := reg.Search("y")
	require.NoError(t, err)
	require.Equal(t, y.Index, y2.Index)
}

func TestSearchCeilingReached(t *testing.T) {
	reg, err := label.New(&label.Config{Logger: logger.Nop(), Ceiling: 2})
	require.NoError(t, err)

	_, err = reg.Search("a")
	require.NoError(t, err)
	_, err = reg.Search("b")
	require.NoError(t, err)

	_, err = reg.Search("c")
	require.Error(t, err)
	re, ok := wserrors.AsRegistryError(err)
	require.True(t, ok)
	require.Equal(t, 2, re.Ceiling())
}

func TestAlias(t *testing.T) {
	reg := newRegistry(t)

	base := reg.Register("dns.name")
	aliased, err := reg.Alias(base, "DNSNAME")
	require.NoError(t, err)
	require.Same(t, base, aliased)

	found, ok := reg.FindByName("DNSNAME")
	require.True(t, ok)
	require.Same(t, base, found)

	// Aliasing a name already bound to a different label is an error.
	other := reg.Register("OTHER")
	_, err = reg.Alias(other, "DNSNAME")
	require.Error(t, err)
}
