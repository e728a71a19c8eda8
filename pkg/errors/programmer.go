package errors

// ProgrammerError covers invariant violations the core detects where
// possible: reference-count underflow, a full tuple receiving another
// member, a record's container-label list at its cap. Per spec.md §7, the
// offending record is logged with context and not forwarded.
type ProgrammerError struct {
	*baseError

	// operation names the call that tripped the invariant (e.g. "Release",
	// "AddMember").
	operation string

	// recordType names the datatype of the record involved, when known.
	recordType string
}

// NewProgrammerError creates a new programmer-error.
func NewProgrammerError(err error, code ErrorCode, msg string) *ProgrammerError {
	return &ProgrammerError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the ProgrammerError type.
func (pe *ProgrammerError) WithMessage(msg string) *ProgrammerError {
	pe.baseError.WithMessage(msg)
	return pe
}

// WithCode sets the error code while preserving the ProgrammerError type.
func (pe *ProgrammerError) WithCode(code ErrorCode) *ProgrammerError {
	pe.baseError.WithCode(code)
	return pe
}

// WithDetail adds contextual information while maintaining the ProgrammerError type.
func (pe *ProgrammerError) WithDetail(key string, value any) *ProgrammerError {
	pe.baseError.WithDetail(key, value)
	return pe
}

// WithOperation records which call tripped the invariant.
func (pe *ProgrammerError) WithOperation(operation string) *ProgrammerError {
	pe.operation = operation
	return pe
}

// WithRecordType records the datatype of the record involved.
func (pe *ProgrammerError) WithRecordType(recordType string) *ProgrammerError {
	pe.recordType = recordType
	return pe
}

// Operation returns the call that tripped the invariant.
func (pe *ProgrammerError) Operation() string {
	return pe.operation
}

// RecordType returns the datatype name of the record involved.
func (pe *ProgrammerError) RecordType() string {
	return pe.recordType
}

// NewRefCountUnderflowError creates the error Release returns when it would
// drive a reference count below zero.
func NewRefCountUnderflowError(recordType string) *ProgrammerError {
	return NewProgrammerError(nil, ErrorCodeRefCountUnderflow, "reference count underflow").
		WithOperation("Release").
		WithRecordType(recordType)
}

// NewTupleFullError creates the error AddMember returns when a tuple's
// member array is already at its bucket's capacity.
func NewTupleFullError(capacity int) *ProgrammerError {
	return NewProgrammerError(nil, ErrorCodeTupleFull, "tuple is full").
		WithOperation("AddMember").
		WithDetail("capacity", capacity)
}

// NewContainerLabelCapError creates the error for appending a container
// label to a record that already carries the maximum of 20. Record.AddLabel
// reports that case by returning false and does not return this error.
func NewContainerLabelCapError(recordType string) *ProgrammerError {
	return NewProgrammerError(nil, ErrorCodeContainerLabelCapReached, "container label cap reached").
		WithOperation("AddContainerLabel").
		WithRecordType(recordType)
}

// NewDependencyCycleError creates the error AssignDependency returns when
// the proposed parent already depends, transitively, on the child.
func NewDependencyCycleError(recordType string) *ProgrammerError {
	return NewProgrammerError(nil, ErrorCodeDependencyCycle, "dependency assignment would create a cycle").
		WithOperation("AssignDependency").
		WithRecordType(recordType)
}
