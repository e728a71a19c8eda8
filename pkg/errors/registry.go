package errors

// RegistryError provides specialized error handling for label and datatype
// registry operations: duplicate registration, ceiling overflow, and
// not-found lookups.
type RegistryError struct {
	*baseError

	// name identifies which label or datatype name was involved.
	name string

	// kind distinguishes "label" from "datatype" for log filtering without
	// parsing the message.
	kind string

	// hash carries the 64-bit interned hash when the lookup was by hash
	// rather than by name.
	hash uint64

	// ceiling records the configured ceiling (e.g. the 1024 label index-id
	// ceiling) when the error is a ceiling overflow.
	ceiling int
}

// NewRegistryError creates a new registry-specific error.
func NewRegistryError(err error, code ErrorCode, msg string) *RegistryError {
	return &RegistryError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the RegistryError type.
func (re *RegistryError) WithMessage(msg string) *RegistryError {
	re.baseError.WithMessage(msg)
	return re
}

// WithCode sets the error code while preserving the RegistryError type.
func (re *RegistryError) WithCode(code ErrorCode) *RegistryError {
	re.baseError.WithCode(code)
	return re
}

// WithDetail adds contextual information while maintaining the RegistryError type.
func (re *RegistryError) WithDetail(key string, value any) *RegistryError {
	re.baseError.WithDetail(key, value)
	return re
}

// WithName records which label or datatype name was involved.
func (re *RegistryError) WithName(name string) *RegistryError {
	re.name = name
	return re
}

// WithKind records whether this error concerns a "label" or a "datatype".
func (re *RegistryError) WithKind(kind string) *RegistryError {
	re.kind = kind
	return re
}

// WithHash records the 64-bit interned hash involved in a hash-keyed lookup.
func (re *RegistryError) WithHash(hash uint64) *RegistryError {
	re.hash = hash
	return re
}

// WithCeiling records the configured ceiling that was exceeded.
func (re *RegistryError) WithCeiling(ceiling int) *RegistryError {
	re.ceiling = ceiling
	return re
}

// Name returns the label or datatype name involved in the error.
func (re *RegistryError) Name() string {
	return re.name
}

// Kind returns "label" or "datatype".
func (re *RegistryError) Kind() string {
	return re.kind
}

// Hash returns the 64-bit interned hash involved in the error, if any.
func (re *RegistryError) Hash() uint64 {
	return re.hash
}

// Ceiling returns the configured ceiling that was exceeded, if any.
func (re *RegistryError) Ceiling() int {
	return re.ceiling
}

// NewDuplicateRegistrationError creates the error a registry returns when a
// name is registered a second time. Per spec.md §4.2/§8, the second
// registration is reported and ignored; the caller should treat the
// returned error as informational and continue using the first object.
func NewDuplicateRegistrationError(kind, name string) *RegistryError {
	return NewRegistryError(nil, ErrorCodeDuplicateRegistration, "name already registered").
		WithKind(kind).
		WithName(name)
}

// NewNotFoundError creates the error a registry lookup returns when nothing
// matches the given name or hash.
func NewNotFoundError(kind, name string) *RegistryError {
	return NewRegistryError(nil, ErrorCodeNotFound, "not found in registry").
		WithKind(kind).
		WithName(name)
}

// NewLabelCeilingReachedError creates the error the label registry returns
// when assigning the next dense index id would exceed the configured
// ceiling (default 1024).
func NewLabelCeilingReachedError(ceiling int) *RegistryError {
	return NewRegistryError(nil, ErrorCodeLabelCeilingReached, "label index ceiling reached").
		WithKind("label").
		WithCeiling(ceiling)
}
