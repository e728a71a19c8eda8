// Package bundle implements the fixed-capacity record carrier spec.md §8
// scenario 6 exercises as a transport unit: a single record whose payload
// is a bounded slice of child records, used to batch many small records
// across one edge instead of pushing them one at a time.
//
// Grounded on original_source/src/datatypes/wsdt_bundle.c/.h: a
// wsdt_bundle_t is just a length and a fixed wsd[WSDT_BUNDLE_MAX] array,
// its init function only zeroes len, and its delete function releases
// every member up to len before moving the envelope back to its free
// queue. Unlike tuple (pkg/tuple), a bundle never promotes between
// capacities — it is sized once at Store construction, matching the
// original's single compile-time WSDT_BUNDLE_MAX.
package bundle

import (
	wserrors "github.com/iamNilotpal/tupleflow/pkg/errors"
	"github.com/iamNilotpal/tupleflow/pkg/freelist"
	"github.com/iamNilotpal/tupleflow/pkg/wsdata"
	"go.uber.org/multierr"
)

// Carrier is a bundle's payload: a fixed-capacity run of member records in
// arrival order, mirroring wsdt_bundle_t's len + wsd[] pair.
type Carrier struct {
	Members []*wsdata.Record
}

// Len returns the carrier's current member count.
func (c *Carrier) Len() int { return len(c.Members) }

// Full reports whether the carrier has reached its configured capacity.
func (c *Carrier) Full() bool { return len(c.Members) == cap(c.Members) }

// Store owns the "bundle" datatype and its record free list, implementing
// allocate_bundle / add / destroy.
type Store struct {
	dtype    *wsdata.Datatype
	pool     *wsdata.Pool
	capacity int
}

// Config configures a new Store.
type Config struct {
	Registry *wsdata.Registry

	// Capacity bounds a single bundle's member count, mirroring
	// WSDT_BUNDLE_MAX (1023 in the original; callers size this to their
	// own batch target — spec.md §8 scenario 6 uses 16).
	Capacity int

	Backend   freelist.Backend
	BlockSize int
}

// NewStore registers the "bundle" datatype on config.Registry.
func NewStore(config Config) (*Store, error) {
	if config.Registry == nil {
		return nil, wserrors.NewRequiredFieldError("Registry")
	}
	if config.Capacity <= 0 {
		return nil, wserrors.NewFieldRangeError("Capacity", config.Capacity, 1, -1)
	}

	s := &Store{capacity: config.Capacity}
	s.dtype = config.Registry.Register("bundle", wsdata.Callbacks{
		Init:    s.init,
		Destroy: s.destroy,
	})

	pool, err := wsdata.NewPool(wsdata.PoolConfig{
		Datatype: s.dtype, Backend: config.Backend, BlockSize: config.BlockSize,
	})
	if err != nil {
		return nil, err
	}
	s.pool = pool
	return s, nil
}

// init is wired as the bundle datatype's Init callback. It only resets the
// member slice's length, matching wsdt_init_bundle's "fast init ... just
// zero out the length" comment: the backing array itself is reused as-is.
func (s *Store) init(rec *wsdata.Record) {
	if c, ok := rec.Payload.(*Carrier); ok && c != nil {
		c.Members = c.Members[:0]
		return
	}
	rec.Payload = &Carrier{Members: make([]*wsdata.Record, 0, s.capacity)}
}

// Allocate creates a new, empty bundle record.
func (s *Store) Allocate() (*wsdata.Record, error) {
	rec, ok := s.pool.Allocate()
	if !ok {
		return nil, wserrors.NewPoolExhaustedError("bundle.record", 0, int64(s.pool.Allocated()))
	}
	return rec, nil
}

// Add appends member to rec's carrier, failing once capacity is reached —
// spec.md §8 scenario 6 relies on this to batch records in fixed-size
// groups rather than growing a bundle unboundedly.
func (s *Store) Add(rec *wsdata.Record, member *wsdata.Record) error {
	c := rec.Payload.(*Carrier)
	if c.Full() {
		return wserrors.NewTupleFullError(s.capacity)
	}
	c.Members = append(c.Members, member)
	return nil
}

// destroy is the bundle datatype's Destroy callback: it releases every
// member in arrival order before Pool.Release (the caller) returns rec's
// own envelope to the free list, mirroring wsdt_delete_bundle's
// "for i < len: wsdata_delete(wsd[i])" loop. One member's release failing
// does not stop the rest from being released; every error is aggregated
// via multierr and returned together.
func (s *Store) destroy(rec *wsdata.Record) error {
	c, ok := rec.Payload.(*Carrier)
	if !ok || c == nil {
		return nil
	}
	var releaseErr error
	for _, member := range c.Members {
		if member.Pool() != nil {
			releaseErr = multierr.Append(releaseErr, member.Pool().Release(member))
		}
	}
	c.Members = c.Members[:0]
	return releaseErr
}

// Capacity returns the fixed member-count bound configured at NewStore.
func (s *Store) Capacity() int { return s.capacity }

// Datatype returns the registered "bundle" datatype.
func (s *Store) Datatype() *wsdata.Datatype { return s.dtype }

// Pool returns the bundle record pool.
func (s *Store) Pool() *wsdata.Pool { return s.pool }
