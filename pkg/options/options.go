// Package options provides data structures and functions for configuring
// the runtime core. It defines the resource caps spec.md §6 calls
// "advisory to the free lists and registries": label index ceiling, queue
// capacity and attempt cap, free-list block size, tuple bucket capacities,
// container-label cap, and RB-tree node-pool size.
package options

// bucketOptions configures one of the tuple store's three bucketed free
// lists (small/medium/large). Each bucket has a fixed member capacity and an
// optional hard cap on how many tuples of that bucket may be live at once.
type bucketOptions struct {
	// Capacity is the fixed number of member slots a tuple allocated from
	// this bucket can hold before promotion to the next bucket is required.
	//
	//  - Small default: 16
	//  - Medium default: 256
	//  - Large default: 2048
	Capacity int `json:"capacity"`

	// PoolCap is a cap on live allocations from this bucket's free list,
	// zero meaning unbounded. Neither runtime.New nor pkg/tuple reads it:
	// the tuple store's bucket free lists are built unbounded.
	PoolCap int `json:"poolCap"`
}

// Options defines the configuration parameters for the runtime core. It
// provides control over registry ceilings, pool sizing, and the concurrency
// primitives' tunables, mirroring the resource caps spec.md §6 reads from
// the environment.
type Options struct {
	// LabelIndexCeiling bounds how many searchable labels may be assigned a
	// dense index id (spec.md §4.1). Exceeding it is a hard error reported
	// once.
	//
	// Default: 1024
	LabelIndexCeiling int `json:"labelIndexCeiling"`

	// StateStoreCeiling bounds how many records a long-lived operator state
	// (e.g. the ordered key index) may retain, advisory per spec.md §6.
	//
	// Default: 350000
	StateStoreCeiling int `json:"stateStoreCeiling"`

	// MaxContainerLabels bounds how many container labels a single record
	// may carry (spec.md §3/§4.5).
	//
	// Default: 20
	MaxContainerLabels int `json:"maxContainerLabels"`

	// TupleCeiling is the architectural hard ceiling on a tuple's member
	// count (spec.md §6), independent of which bucket backs it.
	//
	// Default: 4096
	TupleCeiling int `json:"tupleCeiling"`

	// SmallBucket, MediumBucket, and LargeBucket configure the tuple
	// store's three bucketed free lists (spec.md §4.4).
	SmallBucket  *bucketOptions `json:"smallBucket"`
	MediumBucket *bucketOptions `json:"mediumBucket"`
	LargeBucket  *bucketOptions `json:"largeBucket"`

	// FreeListBlockSize is spec.md §4.6's BLOCK_SIZE: a mutex-homed shard
	// cache that reaches twice this many idle values is trimmed back to
	// this many, the excess moving to the central list. Caches are not
	// refilled in blocks.
	//
	// Default: 16
	FreeListBlockSize int `json:"freeListBlockSize"`

	// FreeListBackend selects which free-list backend (spec.md §4.6, §9) a
	// pool uses: one of the two concurrent backends, or the single-thread
	// one.
	//
	// Default: FreeListBackendMutexHomed
	FreeListBackend FreeListBackend `json:"freeListBackend"`

	// QueueCapacity is the MWMR event queue's ring-buffer slot count
	// (spec.md §4.7).
	//
	// Default: 16
	QueueCapacity int `json:"queueCapacity"`

	// QueueAttemptCap bounds how many wait-and-retry cycles a blocking push
	// performs before returning failure (spec.md §4.7).
	//
	// Default: 1000
	QueueAttemptCap int `json:"queueAttemptCap"`

	// RBTreeNodePoolSize is the ordered key index's preallocated node-pool
	// capacity (spec.md §4.9). Zero means the pool grows on demand.
	//
	// Default: 0 (grow on demand)
	RBTreeNodePoolSize int `json:"rbTreeNodePoolSize"`
}

// FreeListBackend selects a free-list implementation. Per spec.md §9's
// design note, the two independently-maintained backends collapse to one
// default (mutex-homed) and one opt-in (atomic stack); the documented-buggy
// thread-local-unhomed variant (spec.md §4.6 backend 2) is not implemented.
type FreeListBackend string

const (
	// FreeListBackendMutexHomed is the default: shard caches, each guarded
	// by its own mutex, picked round-robin on every alloc and release.
	FreeListBackendMutexHomed FreeListBackend = "mutex_homed"

	// FreeListBackendAtomicStack is the opt-in lock-free Treiber-stack
	// backend (spec.md §4.8).
	FreeListBackendAtomicStack FreeListBackend = "atomic_stack"

	// FreeListBackendSingleThread is the plain unsynchronized LIFO used in
	// non-threaded builds/tests (spec.md §4.6 backend 1).
	FreeListBackendSingleThread FreeListBackend = "single_thread"
)

// OptionFunc is a function type that modifies the runtime core's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies the package's predefined defaults, used as the
// base every runtime.New call starts from before applying overrides.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithLabelIndexCeiling overrides the label registry's dense index-id
// ceiling.
func WithLabelIndexCeiling(ceiling int) OptionFunc {
	return func(o *Options) {
		if ceiling > 0 {
			o.LabelIndexCeiling = ceiling
		}
	}
}

// WithStateStoreCeiling overrides the advisory long-lived-state record
// ceiling.
func WithStateStoreCeiling(ceiling int) OptionFunc {
	return func(o *Options) {
		if ceiling > 0 {
			o.StateStoreCeiling = ceiling
		}
	}
}

// WithQueueCapacity overrides the MWMR queue's ring-buffer slot count.
func WithQueueCapacity(capacity int) OptionFunc {
	return func(o *Options) {
		if capacity > 0 {
			o.QueueCapacity = capacity
		}
	}
}

// WithQueueAttemptCap overrides the blocking-push retry-attempt cap.
func WithQueueAttemptCap(attempts int) OptionFunc {
	return func(o *Options) {
		if attempts > 0 {
			o.QueueAttemptCap = attempts
		}
	}
}

// WithFreeListBackend selects which free-list implementation new pools use.
func WithFreeListBackend(backend FreeListBackend) OptionFunc {
	return func(o *Options) {
		o.FreeListBackend = backend
	}
}

// WithFreeListBlockSize overrides the size a shard cache is trimmed back to.
func WithFreeListBlockSize(size int) OptionFunc {
	return func(o *Options) {
		if size > 0 {
			o.FreeListBlockSize = size
		}
	}
}

// WithBucketCapacities overrides the small/medium/large tuple bucket member
// capacities. A zero value leaves that bucket's existing capacity
// untouched.
func WithBucketCapacities(small, medium, large int) OptionFunc {
	return func(o *Options) {
		if small > 0 {
			o.SmallBucket.Capacity = small
		}
		if medium > 0 {
			o.MediumBucket.Capacity = medium
		}
		if large > 0 {
			o.LargeBucket.Capacity = large
		}
	}
}

// WithRBTreeNodePoolSize overrides the ordered key index's preallocated
// node-pool capacity.
func WithRBTreeNodePoolSize(size int) OptionFunc {
	return func(o *Options) {
		if size >= 0 {
			o.RBTreeNodePoolSize = size
		}
	}
}
