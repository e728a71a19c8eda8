// Package wsdata implements the datatype registry, the record envelope, and
// reference-counted dependency tracking described in spec.md §4.2/§4.3/§4.5
// (components C2, C3, and C5). The three live in one package — mirroring
// original_source/src/lib/waterslidedata.c, where wsdatatype_t and wsdata_t
// are defined and manipulated together — because a Datatype owns the free
// lists that hand out *Record values, and a *Record points back at its
// Datatype: splitting them into separate packages would create an import
// cycle that the original C file never had to worry about.
package wsdata

import (
	"hash/fnv"
	"sync"

	wserrors "github.com/iamNilotpal/tupleflow/pkg/errors"
	"github.com/iamNilotpal/tupleflow/pkg/label"
	"go.uber.org/zap"
)

// MaxSubElements bounds how many sub-element descriptors a Datatype may
// register, matching original_source's WSDTYPE_MAX_SUBELEMENTS (64).
const MaxSubElements = 64

// Callbacks are the behavior hooks a Datatype supplies, modeled on the
// function-pointer table in original_source's wsdatatype_t: init_func,
// delete_func, print_func/snprint_func, copy_func, hash_func, serialize_func,
// and the to_* scalar coercions. Every field is optional; a nil callback
// means the operation is unsupported for this datatype and callers fall
// back to a sensible default (see Pool.Allocate and Pool.Release). There
// are no print/snprint hooks; a datatype cannot supply its own printer.
type Callbacks struct {
	// Init runs once on a freshly allocated record's payload before it is
	// handed to a caller, mirroring wsdatatype_init.
	Init func(rec *Record)

	// Destroy runs before a record's payload is returned to its free list,
	// mirroring wsdatatype_delete. It must leave the payload ready for
	// Init to run again on reuse. Any error it returns is aggregated by
	// Pool.Release alongside dependency-release errors rather than
	// stopping the release.
	Destroy func(rec *Record) error

	// Copy produces a deep copy of src's payload for use by a new record of
	// the same datatype, mirroring wsdatatype_copy. Used by
	// tuple.Store.DeepCopy for non-tuple members; pointer records made by
	// Pool.MakeAlias share their source's payload instead.
	Copy func(src *Record) any

	// Hash returns the byte range of rec's payload that should seed a
	// content hash, mirroring wsdatatype_hash's ws_hashloc_t result.
	Hash func(rec *Record) (offset int, length int)

	// ToString, ToUint64, ToFloat64 implement the scalar coercions
	// original_source exposes as to_string/to_uint64/to_double.
	ToString  func(rec *Record) (string, bool)
	ToUint64  func(rec *Record) (uint64, bool)
	ToFloat64 func(rec *Record) (float64, bool)

	// Serialize produces the wire bytes for rec's payload, mirroring
	// serialize_func.
	Serialize func(rec *Record) ([]byte, error)
}

// SubElement describes one field of a structured datatype reachable by
// label, mirroring original_source's wssubelement_t.
type SubElement struct {
	Label  *label.Label
	Name   string
	Offset int
	Func   func(parent *Record, dst *Record, aux any) *Record
	Aux    any
}

// Datatype is a registered record kind: a name, a content hash, payload
// behavior callbacks, and the two free lists (spec.md §4.6) that hand out
// its normal and pointer-alias record variants.
type Datatype struct {
	Name     string
	NameHash uint64

	Callbacks Callbacks

	mu           sync.Mutex
	subElements  []SubElement
	normalList   pooler
	pointerList  pooler
}

// pooler is the subset of freelist.List that Datatype needs; declared here
// (rather than importing pkg/freelist directly) so this file states its
// dependency narrowly — the concrete free lists are wired in by NewPool.
type pooler interface {
	Alloc(newFn func() any) (any, bool)
	Release(v any)
	Size() int
	Allocated() int
}

// RegisterSubElement appends a sub-element descriptor, enforcing
// MaxSubElements exactly as original_source's wsdatatype_register_subelement
// refuses once num_subelements reaches WSDTYPE_MAX_SUBELEMENTS.
func (d *Datatype) RegisterSubElement(sub SubElement) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.subElements) >= MaxSubElements {
		return wserrors.NewFieldRangeError("subElements", len(d.subElements)+1, 0, MaxSubElements)
	}
	d.subElements = append(d.subElements, sub)
	return nil
}

// FindSubElement returns the sub-element registered under lbl, if any,
// mirroring wsdatatype_find_subelement's linear scan.
func (d *Datatype) FindSubElement(lbl *label.Label) (SubElement, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.subElements {
		if s.Label == lbl {
			return s, true
		}
	}
	return SubElement{}, false
}

// Registry interns Datatype objects by name, aliasing lookups by name hash
// the same way label.Registry does for labels — grounded on
// original_source's wsdatatype_get / wsdatatype_t namehash field, and
// adapted from the teacher's internal/index double-checked-locking shape.
type Registry struct {
	log *zap.SugaredLogger

	mu     sync.RWMutex
	byName map[string]*Datatype
	byHash map[uint64]*Datatype
}

// RegistryConfig configures a new datatype Registry.
type RegistryConfig struct {
	Logger *zap.SugaredLogger
}

// NewRegistry creates an empty datatype Registry.
func NewRegistry(config *RegistryConfig) (*Registry, error) {
	if config == nil || config.Logger == nil {
		return nil, wserrors.NewRequiredFieldError("Logger")
	}
	return &Registry{
		log:    config.Logger,
		byName: make(map[string]*Datatype, 64),
		byHash: make(map[uint64]*Datatype, 64),
	}, nil
}

// Register creates and interns a new Datatype under name, or returns the
// existing one. Re-registration under the same name is reported once and
// ignored — original_source's wsdatatype_register behaves the same way,
// treating a second registration of a built-in type as a harmless no-op
// rather than a fatal error.
func (r *Registry) Register(name string, cb Callbacks) *Datatype {
	r.mu.RLock()
	if dt, ok := r.byName[name]; ok {
		r.mu.RUnlock()
		r.log.Warnw("datatype already registered, ignoring re-registration", "datatype", name)
		return dt
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if dt, ok := r.byName[name]; ok {
		r.log.Warnw("datatype already registered, ignoring re-registration", "datatype", name)
		return dt
	}

	dt := &Datatype{Name: name, NameHash: hashTypeName(name), Callbacks: cb}
	r.byName[name] = dt
	r.byHash[dt.NameHash] = dt
	return dt
}

// Get returns the Datatype registered under name.
func (r *Registry) Get(name string) (*Datatype, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dt, ok := r.byName[name]
	if !ok {
		return nil, wserrors.NewNotFoundError("datatype", name)
	}
	return dt, nil
}

// GetByHash mirrors Get but looks the datatype up by its name hash, for the
// wire-level path that carries a type hash instead of its string name.
func (r *Registry) GetByHash(h uint64) (*Datatype, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dt, ok := r.byHash[h]
	return dt, ok
}

// Len reports how many distinct datatypes are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

func hashTypeName(name string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return h.Sum64()
}
