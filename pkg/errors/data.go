package errors

// DataError covers a decoder or extraction callback that could not make
// sense of a payload. Per spec.md §7, the record passes through unchanged
// unless the caller adds a decoder-specific "invalid" label — this error is
// informational context for that decision, not a reason to drop the record.
type DataError struct {
	*baseError

	// datatype names the datatype whose Serialize/Hash/extraction callback
	// failed.
	datatype string

	// label names the sub-element label being extracted when the failure
	// occurred, if applicable.
	label string
}

// NewDataError creates a new data-error.
func NewDataError(err error, code ErrorCode, msg string) *DataError {
	return &DataError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the DataError type.
func (de *DataError) WithMessage(msg string) *DataError {
	de.baseError.WithMessage(msg)
	return de
}

// WithCode sets the error code while preserving the DataError type.
func (de *DataError) WithCode(code ErrorCode) *DataError {
	de.baseError.WithCode(code)
	return de
}

// WithDetail adds contextual information while maintaining the DataError type.
func (de *DataError) WithDetail(key string, value any) *DataError {
	de.baseError.WithDetail(key, value)
	return de
}

// WithDatatype records which datatype's callback failed.
func (de *DataError) WithDatatype(datatype string) *DataError {
	de.datatype = datatype
	return de
}

// WithLabel records which sub-element label was being extracted.
func (de *DataError) WithLabel(label string) *DataError {
	de.label = label
	return de
}

// Datatype returns the datatype whose callback failed.
func (de *DataError) Datatype() string {
	return de.datatype
}

// Label returns the sub-element label being extracted when the failure
// occurred.
func (de *DataError) Label() string {
	return de.label
}

// NewDecodeFailedError creates the error a sub-element extractor or
// datatype callback returns when it cannot process a payload.
func NewDecodeFailedError(cause error, datatype, label string) *DataError {
	return NewDataError(cause, ErrorCodeDecodeFailed, "failed to decode payload").
		WithDatatype(datatype).
		WithLabel(label)
}
