// Package tuple implements the tuple store spec.md §4.4 (C4): a record
// whose payload is a fixed-capacity array of child-record pointers, backed
// by one of three bucketed free lists (small/medium/large), grounded on
// original_source/src/datatypes/wsdt_tuple.c's bucketed allocator
// (tuple_allocator_small/medium/large feeding a single wsdatatype_t's free
// queues) and its custom delete function's "release members, then parents,
// then the backing array" ordering.
package tuple

import (
	"sync"

	wserrors "github.com/iamNilotpal/tupleflow/pkg/errors"
	"github.com/iamNilotpal/tupleflow/pkg/freelist"
	"github.com/iamNilotpal/tupleflow/pkg/wsdata"
	"go.uber.org/multierr"
)

// BucketKind names which of the three fixed-capacity backing arrays a
// tuple's payload currently uses.
type BucketKind int

const (
	BucketSmall BucketKind = iota
	BucketMedium
	BucketLarge
	numBuckets
)

func (k BucketKind) String() string {
	switch k {
	case BucketSmall:
		return "small"
	case BucketMedium:
		return "medium"
	case BucketLarge:
		return "large"
	default:
		return "unknown"
	}
}

// Bucket is a tuple's payload: a fixed-capacity member array plus which
// bucket's free list it was drawn from, per spec.md §3's "each tuple
// payload remembers which bucket's free list it came from."
type Bucket struct {
	Kind    BucketKind
	Members []*wsdata.Record

	// owned[i] is true when the tuple is the primary owner of Members[i]
	// (Destroy releases it); false when the member was added by reference
	// (it is released by its true owner instead, and the tuple instead
	// depends on the member's caller keeping it alive separately).
	owned []bool
}

// Len returns the tuple's current member count.
func (b *Bucket) Len() int { return len(b.Members) }

// Store owns the tuple datatype and its three bucketed free lists,
// implementing allocate_tuple / add_member / promote / destroy
// (spec.md §4.4).
type Store struct {
	mu sync.Mutex

	dtype *wsdata.Datatype
	pool  *wsdata.Pool

	bucketLists [numBuckets]freelist.List
	caps        [numBuckets]int
	ceiling     int
}

// Config configures a new Store.
type Config struct {
	Registry  *wsdata.Registry
	Backend   freelist.Backend
	BlockSize int

	SmallCap  int
	MediumCap int
	LargeCap  int

	// Ceiling is the architectural hard ceiling on member count
	// (spec.md §6's 4096), independent of the concrete bucket capacities.
	Ceiling int
}

// NewStore registers the "tuple" datatype on config.Registry and builds its
// three bucketed free lists plus its record free list.
func NewStore(config Config) (*Store, error) {
	if config.Registry == nil {
		return nil, wserrors.NewRequiredFieldError("Registry")
	}

	s := &Store{
		caps:    [numBuckets]int{config.SmallCap, config.MediumCap, config.LargeCap},
		ceiling: config.Ceiling,
	}

	s.dtype = config.Registry.Register("tuple", wsdata.Callbacks{
		Destroy: s.destroy,
	})

	pool, err := wsdata.NewPool(wsdata.PoolConfig{
		Datatype: s.dtype, Backend: config.Backend, BlockSize: config.BlockSize,
	})
	if err != nil {
		return nil, err
	}
	s.pool = pool

	for i := range s.bucketLists {
		l, err := freelist.New(config.Backend, 0, config.BlockSize)
		if err != nil {
			return nil, err
		}
		s.bucketLists[i] = l
	}
	return s, nil
}

// Allocate creates a new tuple record backed by the smallest (small)
// bucket, matching spec.md §4.4's "allocate_tuple selects the smallest
// bucket by default."
func (s *Store) Allocate() (*wsdata.Record, error) {
	rec, ok := s.pool.Allocate()
	if !ok {
		return nil, wserrors.NewPoolExhaustedError("tuple.record", 0, int64(s.pool.Allocated()))
	}

	bv, ok := s.bucketLists[BucketSmall].Alloc(func() any {
		return &Bucket{Kind: BucketSmall, Members: make([]*wsdata.Record, 0, s.caps[BucketSmall])}
	})
	if !ok {
		_ = s.pool.Release(rec)
		return nil, wserrors.NewPoolExhaustedError("tuple.bucket.small", s.caps[BucketSmall], 0)
	}
	b := bv.(*Bucket)
	b.Kind = BucketSmall
	b.Members = b.Members[:0]
	b.owned = b.owned[:0]
	rec.Payload = b
	return rec, nil
}

// AddMember appends member to rec's bucket, promoting to the next bucket
// size when the current one is full (spec.md §4.4's explicit promote
// step), and failing with a ProgrammerError once the large bucket is also
// full — "the core does not silently drop."
//
// When shared is true, the insert is the "explicitly pointer-like" form:
// member is not owned by the tuple; instead the tuple is pushed onto
// member's dependency stack (spec.md §4.4/§4.5), keeping the tuple alive
// for as long as the shared member is.
func (s *Store) AddMember(rec *wsdata.Record, member *wsdata.Record, shared bool) error {
	b := rec.Payload.(*Bucket)

	if len(b.Members) >= s.caps[b.Kind] {
		if b.Kind == BucketLarge {
			return wserrors.NewTupleFullError(s.caps[BucketLarge])
		}
		if err := s.promote(rec, b); err != nil {
			return err
		}
		b = rec.Payload.(*Bucket)
	}

	if s.ceiling > 0 && len(b.Members) >= s.ceiling {
		return wserrors.NewTupleFullError(s.ceiling)
	}

	b.Members = append(b.Members, member)
	b.owned = append(b.owned, !shared)

	if shared {
		return member.AssignDependency(rec)
	}
	return nil
}

// promote copies rec's current bucket into the next larger bucket, returns
// the old backing array to its free list, and wires the new bucket onto
// rec — spec.md §4.4's "an explicit promote step copies the member array
// and returns the smaller backing to its list."
func (s *Store) promote(rec *wsdata.Record, old *Bucket) error {
	next := old.Kind + 1
	if next >= numBuckets {
		return wserrors.NewTupleFullError(s.caps[BucketLarge])
	}

	bv, ok := s.bucketLists[next].Alloc(func() any {
		return &Bucket{Kind: next, Members: make([]*wsdata.Record, 0, s.caps[next])}
	})
	if !ok {
		return wserrors.NewPoolExhaustedError("tuple.bucket."+next.String(), s.caps[next], 0)
	}

	nb := bv.(*Bucket)
	nb.Kind = next
	nb.Members = append(nb.Members[:0], old.Members...)
	nb.owned = append(nb.owned[:0], old.owned...)

	s.bucketLists[old.Kind].Release(old)
	rec.Payload = nb
	return nil
}

// destroy is the tuple datatype's Destroy callback, wired in at
// NewStore. It releases every owned member (the bucket's primary-owned
// children), per spec.md §4.4's "if the tuple is the primary owner, each
// member's destroy callback is invoked," then returns the bucket payload
// to its free list; Pool.Release — the caller of this callback — goes on
// to release rec's own dependency stack and return rec's envelope to the
// tuple record free list, completing spec.md's destruction order. One
// member's release failing does not stop the others from being released;
// every error is aggregated via multierr and returned together.
func (s *Store) destroy(rec *wsdata.Record) error {
	b, ok := rec.Payload.(*Bucket)
	if !ok || b == nil {
		return nil
	}

	var releaseErr error
	for i, member := range b.Members {
		if b.owned[i] && member.Pool() != nil {
			releaseErr = multierr.Append(releaseErr, member.Pool().Release(member))
		}
	}

	s.bucketLists[b.Kind].Release(b)
	rec.Payload = nil
	return releaseErr
}

// DeepCopy recursively duplicates src into a freshly allocated tuple,
// duplicating container labels at every level and, for non-tuple members,
// invoking the member datatype's Copy callback — spec.md §4.4's
// `deep_copy(src, dst)`.
func (s *Store) DeepCopy(src *wsdata.Record) (*wsdata.Record, error) {
	dst, err := s.Allocate()
	if err != nil {
		return nil, err
	}
	src.CopyLabelsTo(dst)

	b := src.Payload.(*Bucket)
	for _, member := range b.Members {
		if _, isTuple := member.Payload.(*Bucket); isTuple && member.Datatype == s.dtype {
			copied, err := s.DeepCopy(member)
			if err != nil {
				return nil, err
			}
			if err := s.AddMember(dst, copied, false); err != nil {
				return nil, err
			}
			continue
		}

		if member.Datatype.Callbacks.Copy != nil {
			// Mirrors wsdatatype_default_copy: allocate a real pool-owned
			// record via the member's own pool (so it starts with
			// references==1 and a non-nil Pool for destroy to find), then
			// overwrite its payload with the deep-copied value.
			copied, ok := member.Pool().Allocate()
			if !ok {
				return nil, wserrors.NewPoolExhaustedError(member.Datatype.Name, 0, int64(member.Pool().Allocated()))
			}
			copied.Payload = member.Datatype.Callbacks.Copy(member)
			member.CopyLabelsTo(copied)
			if err := s.AddMember(dst, copied, false); err != nil {
				return nil, err
			}
			continue
		}

		// member cannot be duplicated (no Copy callback). Rather than
		// alias it into dst as owned — which would double-release it —
		// dst shares the original via a dependency, matching
		// wsdatatype_default_copy's own fallback of assigning the
		// original dependency onto the new record instead of recursively
		// copying it.
		if err := s.AddMember(dst, member, true); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// BucketSize reports the idle count of the given bucket's free list, for
// diagnostics and tests.
func (s *Store) BucketSize(kind BucketKind) int {
	return s.bucketLists[kind].Size()
}

// Datatype returns the registered "tuple" datatype.
func (s *Store) Datatype() *wsdata.Datatype { return s.dtype }

// Pool returns the tuple record pool, for diagnostics and for code that
// needs to Release a tuple record directly.
func (s *Store) Pool() *wsdata.Pool { return s.pool }
