// Package freelist implements the free-list primitive spec.md §4.6 (C6)
// describes: a bounded pool of reusable values exposing alloc/release/
// size/allocated, with three interchangeable backends. spec.md collapses
// the original four C backends to three — the "thread-local unhomed cache"
// variant is dropped outright, per spec.md §9's redesign note that it is
// documented upstream as buggy and should be omitted rather than ported.
package freelist

import wserrors "github.com/iamNilotpal/tupleflow/pkg/errors"

// List is the common free-list contract every backend implements.
type List interface {
	// Alloc returns a value from the list, calling newFn to construct one
	// if the list is empty and the list is not at its hard cap. Alloc
	// returns (nil, false) only when the list is at cap and empty —
	// spec.md §4.6's "alloc may return null only if the pool is at its
	// hard cap."
	Alloc(newFn func() any) (any, bool)

	// Release returns v to the list. Release never fails for a v
	// originally obtained from this list (spec.md §4.6).
	Release(v any)

	// Size is a point-in-time count of values currently held by the list,
	// and may be stale under concurrent use.
	Size() int

	// Allocated is the lifetime high-water mark of values constructed by
	// this list (i.e., every time newFn actually ran).
	Allocated() int
}

// Backend names the free-list implementation strategy, matching
// options.FreeListBackend's three values.
type Backend string

const (
	BackendSingleThread Backend = "single_thread"
	BackendMutexHomed   Backend = "mutex_homed"
	BackendAtomicStack  Backend = "atomic_stack"
)

// New constructs a List using the named backend. cap of 0 means unbounded.
// blockSize is only meaningful for BackendMutexHomed (spec.md §4.6's
// BLOCK_SIZE) and is ignored by the other two backends.
func New(backend Backend, cap int, blockSize int) (List, error) {
	switch backend {
	case BackendSingleThread, "":
		return newSingleThread(cap), nil
	case BackendMutexHomed:
		return newMutexHomed(cap, blockSize), nil
	case BackendAtomicStack:
		return newAtomicStack(cap), nil
	default:
		return nil, wserrors.NewRequiredFieldError("backend")
	}
}
