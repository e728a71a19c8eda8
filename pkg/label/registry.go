package label

import (
	"sync"
	"sync/atomic"

	wserrors "github.com/iamNilotpal/tupleflow/pkg/errors"
	"go.uber.org/zap"
)

// Registry interns label names into stable Label objects and assigns dense
// index ids to searchable labels. It is the runtime-wide table spec.md
// §4.1 describes: "Two lookup tables keyed by (a) the label's original
// bytes and (b) its 64-bit hash, both mapped to the same label object."
//
// A Registry is safe for concurrent use: registration is serialized by a
// single mutex (spec.md §5: "created via registry ops that are serialized
// by a registry mutex"), while the resulting *Label objects are immutable
// on the hot path except for the one-time Searchable/Index assignment.
type Registry struct {
	log *zap.SugaredLogger

	mu       sync.RWMutex
	byName   map[string]*Label
	byHash   map[uint64]*Label
	nextID   uint16
	ceiling  int
	overflow atomic.Bool // true once the ceiling has been hit and logged once
}

// Config configures a new label Registry.
type Config struct {
	// Logger is required; the registry never logs through the standard
	// library logger.
	Logger *zap.SugaredLogger

	// Ceiling bounds how many searchable labels may receive a dense index
	// id (spec.md §4.1's default of 1024). Zero falls back to the package
	// default.
	Ceiling int
}

const defaultCeiling = 1024

// New creates an empty label Registry.
func New(config *Config) (*Registry, error) {
	if config == nil || config.Logger == nil {
		return nil, wserrors.NewRequiredFieldError("Logger")
	}

	ceiling := config.Ceiling
	if ceiling <= 0 {
		ceiling = defaultCeiling
	}

	return &Registry{
		log:     config.Logger,
		byName:  make(map[string]*Label, 256),
		byHash:  make(map[uint64]*Label, 256),
		ceiling: ceiling,
	}, nil
}

// Register interns name, creating a new Label the first time it is seen.
// Per spec.md §8's register-and-lookup scenario, Register("x") called twice
// returns the identical object both times. Register never assigns an index
// id; use Search for that.
func (r *Registry) Register(name string) *Label {
	if lbl, ok := r.lookup(name); ok {
		return lbl
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under the write lock: another goroutine may have registered
	// name between our read-locked lookup and acquiring the write lock.
	if lbl, ok := r.byName[name]; ok {
		return lbl
	}

	lbl := &Label{Name: name, Hash: hashName(name), Registered: true}
	r.byName[name] = lbl
	r.byHash[lbl.Hash] = lbl
	return lbl
}

// Search behaves like Register but additionally marks the label searchable
// and allocates it the next dense index id, per spec.md §4.1. Calling
// Search on an already-searchable label is a no-op that returns the
// existing object and index id unchanged.
func (r *Registry) Search(name string) (*Label, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lbl, ok := r.byName[name]
	if !ok {
		lbl = &Label{Name: name, Hash: hashName(name), Registered: true}
		r.byName[name] = lbl
		r.byHash[lbl.Hash] = lbl
	}

	if lbl.Searchable {
		return lbl, nil
	}

	if int(r.nextID)+1 > r.ceiling {
		if !r.overflow.Swap(true) {
			r.log.Errorw("label index ceiling reached",
				"ceiling", r.ceiling, "label", name)
		}
		return nil, wserrors.NewLabelCeilingReachedError(r.ceiling)
	}

	r.nextID++
	lbl.Index = r.nextID
	lbl.Searchable = true
	return lbl, nil
}

// Alias registers newName as a secondary name resolving to the same Label
// object as existing. If newName is already registered as a distinct label,
// Alias reports a duplicate-registration error and leaves both labels
// untouched — an alias can only bind a previously-unseen name.
func (r *Registry) Alias(existing *Label, newName string) (*Label, error) {
	if existing == nil {
		return nil, wserrors.NewRequiredFieldError("existing")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if other, ok := r.byName[newName]; ok {
		if other == existing {
			return existing, nil
		}
		return nil, wserrors.NewDuplicateRegistrationError("label", newName)
	}

	r.byName[newName] = existing
	return existing, nil
}

// FindByHash performs the O(1) lookup spec.md §4.1 describes for
// serialized/on-the-wire label references.
func (r *Registry) FindByHash(h uint64) (*Label, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lbl, ok := r.byHash[h]
	return lbl, ok
}

// FindByName returns the interned Label for name without creating one.
func (r *Registry) FindByName(name string) (*Label, bool) {
	return r.lookup(name)
}

// Ceiling returns the registry's configured dense index-id ceiling.
func (r *Registry) Ceiling() int {
	return r.ceiling
}

// Len returns the number of distinct names interned (aliases of the same
// Label count once per name, matching map cardinality, not object count).
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

func (r *Registry) lookup(name string) (*Label, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lbl, ok := r.byName[name]
	return lbl, ok
}
