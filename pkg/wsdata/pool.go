package wsdata

import (
	"github.com/iamNilotpal/tupleflow/pkg/freelist"
	"go.uber.org/multierr"
)

// Pool routes record allocation and release through a Datatype's two free
// lists, implementing spec.md §4.3's allocate/make_alias/release contract
// (C3). One Pool is constructed per datatype the first time it is needed;
// Registry callers typically keep one Pool per Datatype alongside it.
type Pool struct {
	dtype   *Datatype
	normal  freelist.List
	pointer freelist.List
}

// PoolConfig configures a new Pool for dtype.
type PoolConfig struct {
	Datatype  *Datatype
	Backend   freelist.Backend
	Cap       int
	BlockSize int
}

// NewPool constructs the normal and pointer free lists for config.Datatype
// and records them on the Datatype as well as on the returned Pool.
func NewPool(config PoolConfig) (*Pool, error) {
	normal, err := freelist.New(config.Backend, config.Cap, config.BlockSize)
	if err != nil {
		return nil, err
	}
	pointer, err := freelist.New(config.Backend, config.Cap, config.BlockSize)
	if err != nil {
		return nil, err
	}

	config.Datatype.normalList = normal
	config.Datatype.pointerList = pointer

	return &Pool{dtype: config.Datatype, normal: normal, pointer: pointer}, nil
}

// Allocate pops an envelope from the normal free list (or constructs one),
// wires it to the pool's datatype, resets its container labels, sets its
// reference count to 1, clears its cached hash location, and runs the
// datatype's Init callback — exactly the sequence spec.md §4.3 describes
// for `allocate`.
func (p *Pool) Allocate() (*Record, bool) {
	v, ok := p.normal.Alloc(func() any { return &Record{} })
	if !ok {
		return nil, false
	}

	rec := v.(*Record)
	rec.reset()
	rec.Datatype = p.dtype
	rec.pool = p
	rec.references = 1

	if p.dtype.Callbacks.Init != nil {
		p.dtype.Callbacks.Init(rec)
	}
	return rec, true
}

// MakeAlias allocates from the pointer free list, shares src's payload,
// marks the result as a pointer record, and assigns src as a dependency —
// spec.md §4.3's `make_alias(src)`. The alias starts with its own reference
// count of 1, independent of src's count (AssignDependency separately adds
// a reference to src on behalf of the alias).
func (p *Pool) MakeAlias(src *Record) (*Record, bool, error) {
	v, ok := p.pointer.Alloc(func() any { return &Record{} })
	if !ok {
		return nil, false, nil
	}

	rec := v.(*Record)
	rec.reset()
	rec.Datatype = p.dtype
	rec.pool = p
	rec.references = 1
	rec.IsPointer = true
	rec.Payload = src.Payload

	if err := rec.AssignDependency(src); err != nil {
		p.pointer.Release(rec)
		return nil, false, err
	}
	return rec, true, nil
}

// Release drops one reference from rec. At zero, spec.md §4.3's generic
// destroy behavior runs: the datatype's Destroy callback fires (if any, and
// only for a non-pointer record, since an alias does not own the payload
// it shares), every record on rec's dependency stack is released in turn (a borrow
// graph traversal), and the envelope returns to the datatype's normal or
// pointer free list depending on rec.IsPointer. Release is a no-op once
// the count is still above zero after decrementing.
func (p *Pool) Release(rec *Record) error {
	remaining, err := rec.RemoveReference()
	if err != nil {
		return err
	}
	if remaining > 0 {
		return nil
	}

	// A dependency-stack walk may visit many parents; one failing release
	// must not stop the rest from being released, so every error is
	// collected via multierr rather than returned on the first one.
	var releaseErr error
	if !rec.IsPointer && p.dtype.Callbacks.Destroy != nil {
		releaseErr = multierr.Append(releaseErr, p.dtype.Callbacks.Destroy(rec))
	}

	for _, parent := range rec.Dependencies() {
		if parentPool := parent.pool; parentPool != nil {
			releaseErr = multierr.Append(releaseErr, parentPool.Release(parent))
		}
	}

	if rec.IsPointer {
		p.pointer.Release(rec)
	} else {
		p.normal.Release(rec)
	}
	return releaseErr
}

// Size returns the number of envelopes currently idle in the pool's normal
// and pointer free lists combined.
func (p *Pool) Size() int {
	return p.normal.Size() + p.pointer.Size()
}

// Allocated returns the lifetime high-water mark of envelopes constructed
// across both of the pool's free lists.
func (p *Pool) Allocated() int {
	return p.normal.Allocated() + p.pointer.Allocated()
}
