package options

import "os"

const (
	// DefaultLabelIndexCeiling bounds the label registry's dense index-id
	// space (spec.md §4.1).
	DefaultLabelIndexCeiling = 1024

	// DefaultStateStoreCeiling bounds long-lived operator state such as the
	// ordered key index (spec.md §6).
	DefaultStateStoreCeiling = 350_000

	// DefaultMaxContainerLabels bounds how many container labels a single
	// record may carry (spec.md §3/§4.5).
	DefaultMaxContainerLabels = 20

	// DefaultTupleCeiling is the architectural hard ceiling on a tuple's
	// member count (spec.md §6).
	DefaultTupleCeiling = 4096

	// DefaultSmallBucketCapacity, DefaultMediumBucketCapacity, and
	// DefaultLargeBucketCapacity are the three concrete bucket sizes
	// spec.md §3/§4.4 suggests.
	DefaultSmallBucketCapacity  = 16
	DefaultMediumBucketCapacity = 256
	DefaultLargeBucketCapacity  = 2048

	// DefaultFreeListBlockSize is spec.md §4.6's BLOCK_SIZE.
	DefaultFreeListBlockSize = 16

	// DefaultQueueCapacity is the MWMR queue's default slot count
	// (spec.md §4.7).
	DefaultQueueCapacity = 16

	// DefaultQueueAttemptCap is the blocking-push attempt limit
	// (spec.md §4.7).
	DefaultQueueAttemptCap = 1000

	// DefaultRBTreeNodePoolSize of 0 means the ordered key index grows its
	// node pool on demand rather than preallocating a fixed arena.
	DefaultRBTreeNodePoolSize = 0
)

// Environment variable names the runtime core reads for the two resource
// caps spec.md §6 calls out by name: a state-store ceiling and a label
// index ceiling. Both are advisory overrides layered on top of
// NewDefaultOptions, matching the "core reads a small set of environment
// variables for resource caps" language in spec.md §6.
const (
	EnvStateStoreCeiling = "WS_STATE_STORE_CEILING"
	EnvLabelIndexCeiling = "WS_LABEL_INDEX_CEILING"
)

// defaultOptions holds the baseline configuration every runtime starts from
// before environment overrides and caller-supplied OptionFuncs are applied.
var defaultOptions = Options{
	LabelIndexCeiling:  DefaultLabelIndexCeiling,
	StateStoreCeiling:  DefaultStateStoreCeiling,
	MaxContainerLabels: DefaultMaxContainerLabels,
	TupleCeiling:       DefaultTupleCeiling,
	SmallBucket:        &bucketOptions{Capacity: DefaultSmallBucketCapacity},
	MediumBucket:       &bucketOptions{Capacity: DefaultMediumBucketCapacity},
	LargeBucket:        &bucketOptions{Capacity: DefaultLargeBucketCapacity},
	FreeListBlockSize:  DefaultFreeListBlockSize,
	FreeListBackend:    FreeListBackendMutexHomed,
	QueueCapacity:      DefaultQueueCapacity,
	QueueAttemptCap:    DefaultQueueAttemptCap,
	RBTreeNodePoolSize: DefaultRBTreeNodePoolSize,
}

// NewDefaultOptions returns a fresh copy of the package defaults, with the
// bucket-option pointers deep-copied so callers can mutate their own copy
// without disturbing the package-level template.
func NewDefaultOptions() Options {
	opts := defaultOptions
	small := *defaultOptions.SmallBucket
	medium := *defaultOptions.MediumBucket
	large := *defaultOptions.LargeBucket
	opts.SmallBucket = &small
	opts.MediumBucket = &medium
	opts.LargeBucket = &large
	return opts
}

// NewDefaultOptionsFromEnv returns the package defaults with the
// WS_STATE_STORE_CEILING / WS_LABEL_INDEX_CEILING environment variables
// applied on top, per spec.md §6. Malformed values are ignored and the
// compiled-in default is kept.
func NewDefaultOptionsFromEnv() Options {
	opts := NewDefaultOptions()
	if v := os.Getenv(EnvStateStoreCeiling); v != "" {
		if n, ok := parsePositiveInt(v); ok {
			opts.StateStoreCeiling = n
		}
	}
	if v := os.Getenv(EnvLabelIndexCeiling); v != "" {
		if n, ok := parsePositiveInt(v); ok {
			opts.LabelIndexCeiling = n
		}
	}
	return opts
}

func parsePositiveInt(s string) (int, bool) {
	n := 0
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if n <= 0 {
		return 0, false
	}
	return n, true
}
