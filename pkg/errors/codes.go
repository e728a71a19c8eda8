package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures surfaced by a collaborator outside the
	// core's control reaching back into it — a decoder's malformed payload,
	// a user-supplied comparator or sub-element extractor erroring out.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents a configuration problem caught at
	// init time: a bad option value, conflicting kid options, a malformed
	// label-set pattern.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories: assertion failures, invariant violations, or
	// other programming errors that shouldn't occur during normal operation.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Resource-exhaustion codes back the "operation returns null/false, caller
// increments a drop counter and continues" policy for free lists, the
// RB-tree's node pool, and registry ceilings.
const (
	// ErrorCodePoolExhausted indicates a free list or bucketed tuple pool has
	// reached its configured hard cap (0 means unbounded).
	ErrorCodePoolExhausted ErrorCode = "POOL_EXHAUSTED"

	// ErrorCodeNodePoolExhausted indicates the ordered key index's
	// preallocated node pool has no nodes left to hand out.
	ErrorCodeNodePoolExhausted ErrorCode = "NODE_POOL_EXHAUSTED"

	// ErrorCodeLabelCeilingReached indicates the label registry's dense
	// index-id space (default ceiling 1024) has been exhausted.
	ErrorCodeLabelCeilingReached ErrorCode = "LABEL_CEILING_REACHED"

	// ErrorCodeQueueFull indicates a nonblocking push found the MWMR queue
	// at capacity, or a blocking push exhausted its attempt cap.
	ErrorCodeQueueFull ErrorCode = "QUEUE_FULL"

	// ErrorCodeQueueEmpty indicates a nonblocking pop found the MWMR queue
	// empty.
	ErrorCodeQueueEmpty ErrorCode = "QUEUE_EMPTY"
)

// Programmer-error codes cover invariant violations the core detects where
// possible: ref-count underflow, tuple overflow, label-cap overflow. These
// are logged with context and the offending record is not forwarded.
const (
	// ErrorCodeRefCountUnderflow indicates Release was called more times
	// than AddRef, which should never happen in correct operator code.
	ErrorCodeRefCountUnderflow ErrorCode = "REFCOUNT_UNDERFLOW"

	// ErrorCodeTupleFull indicates AddMember was called on a tuple whose
	// member array is already at its bucket's capacity.
	ErrorCodeTupleFull ErrorCode = "TUPLE_FULL"

	// ErrorCodeContainerLabelCapReached indicates a record already carries
	// the maximum of 20 container labels.
	ErrorCodeContainerLabelCapReached ErrorCode = "CONTAINER_LABEL_CAP_REACHED"

	// ErrorCodeDuplicateRegistration indicates a label or datatype name was
	// registered a second time; the second registration is reported and
	// ignored, the first registration's object is returned unchanged.
	ErrorCodeDuplicateRegistration ErrorCode = "DUPLICATE_REGISTRATION"

	// ErrorCodeNotFound indicates a lookup (by name, by hash, by index id)
	// found nothing registered.
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrorCodeDependencyCycle indicates AssignDependency would have made a
	// record depend, directly or transitively, on itself.
	ErrorCodeDependencyCycle ErrorCode = "DEPENDENCY_CYCLE"
)

// Data-error codes: a decoder or extractor could not make sense of a
// payload. The record passes through unchanged per policy, optionally
// labeled invalid by the caller.
const (
	// ErrorCodeDecodeFailed indicates a sub-element extraction callback or a
	// datatype's Serialize/Hash callback could not process the payload.
	ErrorCodeDecodeFailed ErrorCode = "DECODE_FAILED"
)
