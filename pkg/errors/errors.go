// Package errors implements the runtime core's error taxonomy, organized by
// kind rather than by type (spec.md §7): Configuration, Resource exhaustion,
// Programmer error, Data error, and Shutdown. Every domain error embeds
// baseError so callers can use errors.Is/errors.As and structured field
// access uniformly, while each kind carries the context that matters for
// diagnosing it — which pool was exhausted, which label was duplicated,
// which record's reference count underflowed.
//
// Propagation is never via panics on the hot path: every core operation that
// can fail returns (value, error) or a boolean-like ok, and the caller
// decides whether to drop the record, retry, or escalate.
package errors

import (
	stdErrors "errors"
)

// IsConfigurationError checks if the given error is a ConfigurationError or
// contains one in its error chain.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return stdErrors.As(err, &ce)
}

// IsPoolError determines if an error concerns a free list, bucket pool, the
// RB-tree node pool, or the MWMR queue reaching capacity.
func IsPoolError(err error) bool {
	var pe *PoolError
	return stdErrors.As(err, &pe)
}

// IsRegistryError identifies errors from the label or datatype registries:
// duplicate registration, not-found lookups, ceiling overflow.
func IsRegistryError(err error) bool {
	var re *RegistryError
	return stdErrors.As(err, &re)
}

// IsProgrammerError identifies invariant violations: ref-count underflow,
// tuple overflow, container-label overflow, dependency cycles.
func IsProgrammerError(err error) bool {
	var pe *ProgrammerError
	return stdErrors.As(err, &pe)
}

// IsDataError identifies decode/extraction failures from a datatype's
// callbacks.
func IsDataError(err error) bool {
	var de *DataError
	return stdErrors.As(err, &de)
}

// AsConfigurationError safely extracts a ConfigurationError from an error chain.
func AsConfigurationError(err error) (*ConfigurationError, bool) {
	var ce *ConfigurationError
	if stdErrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// AsPoolError safely extracts a PoolError from an error chain.
func AsPoolError(err error) (*PoolError, bool) {
	var pe *PoolError
	if stdErrors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// AsRegistryError safely extracts a RegistryError from an error chain.
func AsRegistryError(err error) (*RegistryError, bool) {
	var re *RegistryError
	if stdErrors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// AsProgrammerError safely extracts a ProgrammerError from an error chain.
func AsProgrammerError(err error) (*ProgrammerError, bool) {
	var pe *ProgrammerError
	if stdErrors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// AsDataError safely extracts a DataError from an error chain.
func AsDataError(err error) (*DataError, bool) {
	var de *DataError
	if stdErrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from any error that supports it, or
// returns ErrorCodeInternal for errors that don't have specific codes. This
// gives callers a consistent way to categorize errors for counters and
// logging regardless of which domain error type produced them.
func GetErrorCode(err error) ErrorCode {
	if ce, ok := AsConfigurationError(err); ok {
		return ce.Code()
	}
	if pe, ok := AsPoolError(err); ok {
		return pe.Code()
	}
	if re, ok := AsRegistryError(err); ok {
		return re.Code()
	}
	if pe, ok := AsProgrammerError(err); ok {
		return pe.Code()
	}
	if de, ok := AsDataError(err); ok {
		return de.Code()
	}
	return ErrorCodeInternal
}

// GetErrorDetails extracts structured details from any error that supports
// them, returning an empty map for errors without details.
func GetErrorDetails(err error) map[string]any {
	if ce, ok := AsConfigurationError(err); ok {
		if d := ce.Details(); d != nil {
			return d
		}
	}
	if pe, ok := AsPoolError(err); ok {
		if d := pe.Details(); d != nil {
			return d
		}
	}
	if re, ok := AsRegistryError(err); ok {
		if d := re.Details(); d != nil {
			return d
		}
	}
	if pe, ok := AsProgrammerError(err); ok {
		if d := pe.Details(); d != nil {
			return d
		}
	}
	if de, ok := AsDataError(err); ok {
		if d := de.Details(); d != nil {
			return d
		}
	}
	return make(map[string]any)
}
