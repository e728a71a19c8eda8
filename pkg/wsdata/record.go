package wsdata

import (
	"sync"

	wserrors "github.com/iamNilotpal/tupleflow/pkg/errors"
	"github.com/iamNilotpal/tupleflow/pkg/label"
)

// MaxContainerLabels bounds how many labels a single record may carry,
// matching original_source's WSDATA_MAX_LABELS (20).
const MaxContainerLabels = 20

// Record is the generic data envelope spec.md §4.2/§4.5 describes: a
// payload tagged with its Datatype, up to MaxContainerLabels labels, a
// reference count, and an optional dependency stack of parent records kept
// alive on its behalf. It is original_source's wsdata_t.
type Record struct {
	Datatype *Datatype
	Payload  any

	// pool is the Pool this record was allocated from, remembered so that
	// releasing a dependency parent (see Pool.Release) can route back
	// through the correct free list without the caller needing to carry
	// every ancestor's Pool around by hand.
	pool *Pool

	// IsPointer marks a record that is an alias of another record's
	// payload rather than an owner of its own, mirroring wsdata_t's isptr
	// bit. Pool.Release routes isptr records to the Datatype's pointer
	// free list instead of running Destroy.
	IsPointer bool

	mu     sync.Mutex
	labels [MaxContainerLabels]*label.Label
	nlbl   int

	references int

	dependency []*Record

	hasHashLoc  bool
	hashOffset  int
	hashLength  int
}

// AddLabel attaches lbl to the record, enforcing MaxContainerLabels exactly
// as wsdata_add_label refuses once label_len reaches WSDATA_MAX_LABELS.
// Reports false when lbl is nil or the record is already at capacity.
func (r *Record) AddLabel(lbl *label.Label) bool {
	if lbl == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nlbl >= MaxContainerLabels {
		return false
	}
	r.labels[r.nlbl] = lbl
	r.nlbl++
	return true
}

// HasLabel reports whether lbl was attached to the record, mirroring
// wsdata_check_label's linear scan.
func (r *Record) HasLabel(lbl *label.Label) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < r.nlbl; i++ {
		if r.labels[i] == lbl {
			return true
		}
	}
	return false
}

// Labels returns the record's attached labels in attachment order.
func (r *Record) Labels() []*label.Label {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*label.Label, r.nlbl)
	copy(out, r.labels[:r.nlbl])
	return out
}

// CopyLabelsTo attaches every label of r onto dst, mirroring
// wsdata_duplicate_labels. Labels dst already has are not deduplicated,
// matching the original's unconditional append behavior.
func (r *Record) CopyLabelsTo(dst *Record) {
	for _, lbl := range r.Labels() {
		dst.AddLabel(lbl)
	}
}

// References returns the record's current reference count.
func (r *Record) References() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.references
}

// AddReference increments the record's reference count, mirroring
// wsdata_add_reference.
func (r *Record) AddReference() {
	r.mu.Lock()
	r.references++
	r.mu.Unlock()
}

// RemoveReference decrements the record's reference count and returns the
// count after decrementing, mirroring wsdata_remove_reference. A caller
// that drives the count below zero gets a ProgrammerError rather than a
// silently negative count — the original C leaves that as undefined
// behavior, but spec.md §4.5 calls underflow an invariant violation the Go
// port should surface instead of hiding.
func (r *Record) RemoveReference() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.references <= 0 {
		return r.references, wserrors.NewRefCountUnderflowError(r.typeName())
	}
	r.references--
	return r.references, nil
}

// AssignDependency records that r depends on parent staying alive — parent
// gets an extra reference, and r remembers parent on its dependency stack
// so Pool.Release can drop that reference once r itself is freed. Mirrors
// wsdata_assign_dependency. Returns a DependencyCycle error if parent is r
// itself or already depends (directly or transitively) on r, since
// original_source's stack push has no such guard and a cycle there would
// leak references forever.
func (r *Record) AssignDependency(parent *Record) error {
	if parent == nil || r == nil {
		return wserrors.NewRequiredFieldError("parent")
	}
	if parent == r {
		return wserrors.NewDependencyCycleError(r.typeName())
	}

	pending := parent.Dependencies()
	for len(pending) > 0 {
		p := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if p == r {
			return wserrors.NewDependencyCycleError(r.typeName())
		}
		pending = append(pending, p.Dependencies()...)
	}

	parent.AddReference()

	r.mu.Lock()
	r.dependency = append(r.dependency, parent)
	r.mu.Unlock()
	return nil
}

// Dependencies returns the records r has taken a dependency reference on.
func (r *Record) Dependencies() []*Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Record, len(r.dependency))
	copy(out, r.dependency)
	return out
}

// SetHashLocation caches the byte range a content hash should be computed
// over, mirroring wsdata_t's hashloc/has_hashloc fields.
func (r *Record) SetHashLocation(offset, length int) {
	r.mu.Lock()
	r.hashOffset, r.hashLength, r.hasHashLoc = offset, length, true
	r.mu.Unlock()
}

// HashLocation returns the cached hash byte range, if any was set.
func (r *Record) HashLocation() (offset int, length int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hashOffset, r.hashLength, r.hasHashLoc
}

// Pool returns the Pool this record was allocated from, or nil for a
// record constructed directly rather than through a Pool.
func (r *Record) Pool() *Pool {
	return r.pool
}

func (r *Record) typeName() string {
	if r.Datatype == nil {
		return "<untyped>"
	}
	return r.Datatype.Name
}

// reset clears a record for reuse from a free list, run by Pool.Allocate
// and Pool.MakeAlias on the envelope they take from a free list. Payload reset is
// the Datatype's own job (via Callbacks.Destroy); reset only clears the
// generic envelope fields original_source's allocator would otherwise leave
// stale across reuse.
func (r *Record) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < r.nlbl; i++ {
		r.labels[i] = nil
	}
	r.nlbl = 0
	r.references = 0
	r.dependency = nil
	r.hasHashLoc = false
	r.hashOffset = 0
	r.hashLength = 0
	r.IsPointer = false
}
