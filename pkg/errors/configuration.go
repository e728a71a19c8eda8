package errors

// ConfigurationError is a specialized error type for init-time configuration
// failures: a bad CLI flag, conflicting kid options, a malformed label-set
// pattern, an out-of-range option value. Per spec.md §7's Configuration row,
// these fail fast at init and the graph does not start.
type ConfigurationError struct {
	*baseError

	// field identifies which specific option or parameter failed validation.
	field string

	// rule specifies which constraint was violated (e.g. "required",
	// "range", "format").
	rule string

	// provided captures what value was actually supplied.
	provided any

	// expected describes what would have been valid.
	expected any
}

// NewConfigurationError creates a new configuration-specific error.
func NewConfigurationError(err error, code ErrorCode, msg string) *ConfigurationError {
	return &ConfigurationError{baseError: NewBaseError(err, code, msg)}
}

// WithMessage updates the error message while maintaining the ConfigurationError type.
func (ce *ConfigurationError) WithMessage(msg string) *ConfigurationError {
	ce.baseError.WithMessage(msg)
	return ce
}

// WithCode sets the error code while preserving the ConfigurationError type.
func (ce *ConfigurationError) WithCode(code ErrorCode) *ConfigurationError {
	ce.baseError.WithCode(code)
	return ce
}

// WithDetail adds contextual information while maintaining the ConfigurationError type.
func (ce *ConfigurationError) WithDetail(key string, value any) *ConfigurationError {
	ce.baseError.WithDetail(key, value)
	return ce
}

// WithField sets which option or parameter failed validation.
func (ce *ConfigurationError) WithField(field string) *ConfigurationError {
	ce.field = field
	return ce
}

// WithRule specifies which constraint was violated.
func (ce *ConfigurationError) WithRule(rule string) *ConfigurationError {
	ce.rule = rule
	return ce
}

// WithProvided captures what value was supplied that failed validation.
func (ce *ConfigurationError) WithProvided(value any) *ConfigurationError {
	ce.provided = value
	return ce
}

// WithExpected describes what would have been a valid value.
func (ce *ConfigurationError) WithExpected(value any) *ConfigurationError {
	ce.expected = value
	return ce
}

// Field returns the option or parameter name that failed validation.
func (ce *ConfigurationError) Field() string {
	return ce.field
}

// Rule returns the constraint that was violated.
func (ce *ConfigurationError) Rule() string {
	return ce.rule
}

// Provided returns the value that was supplied and failed validation.
func (ce *ConfigurationError) Provided() any {
	return ce.provided
}

// Expected returns what would have been a valid value.
func (ce *ConfigurationError) Expected() any {
	return ce.expected
}

// NewRequiredFieldError creates a specialized error for missing required
// configuration.
func NewRequiredFieldError(fieldName string) *ConfigurationError {
	return NewConfigurationError(
		nil, ErrorCodeInvalidInput, "required option is missing or empty",
	).WithField(fieldName).WithRule("required")
}

// NewFieldRangeError creates an error for options outside their acceptable
// range (e.g. a bucket capacity above the 4096 wire ceiling).
func NewFieldRangeError(fieldName string, provided, min, max any) *ConfigurationError {
	return NewConfigurationError(
		nil, ErrorCodeInvalidInput, "option value is outside acceptable range",
	).WithField(fieldName).
		WithRule("range").
		WithProvided(provided).
		WithDetail("minValue", min).
		WithDetail("maxValue", max)
}

// NewConflictingOptionsError creates an error for two kid options that
// cannot both be set, per spec.md §7's Configuration example.
func NewConflictingOptionsError(fieldA, fieldB string) *ConfigurationError {
	return NewConfigurationError(
		nil, ErrorCodeInvalidInput, "conflicting options",
	).WithField(fieldA).WithRule("conflicts_with").WithDetail("conflictsWith", fieldB)
}
