package errors

import "fmt"

// ValidationError covers the input checks the engine performs before it
// touches either stream: record batches must contain no empty records, and
// configuration objects must be complete and consistent. It extends baseError with the violated rule
// and the provided/expected values, so a caller can correct its input instead
// of guessing from a message. Validation always happens up front — a batch
// that fails validation leaves no trace in either stream.
type ValidationError struct {
	*baseError

	field    string // Which field or parameter failed ("records", "config", ...).
	rule     string // The violated rule ("non_empty", "required", "configuration_integrity").
	provided any    // The offending value, as given by the caller.
	expected any    // What would have been accepted.
}

// NewValidationError creates a new validation-specific error with the provided context.
func NewValidationError(err error, code ErrorCode, msg string) *ValidationError {
	return &ValidationError{baseError: NewBaseError(err, code, msg)}
}

// Override base error methods to return *ValidationError instead of
// *baseError, so method chaining keeps the concrete type.

// WithMessage updates the error message while maintaining the ValidationError type.
func (ve *ValidationError) WithMessage(msg string) *ValidationError {
	ve.baseError.WithMessage(msg)
	return ve
}

// WithCode sets the error code while preserving the ValidationError type.
func (ve *ValidationError) WithCode(code ErrorCode) *ValidationError {
	ve.baseError.WithCode(code)
	return ve
}

// WithOp records the operation stage while preserving the ValidationError type.
func (ve *ValidationError) WithOp(op string) *ValidationError {
	ve.baseError.WithOp(op)
	return ve
}

// WithDetail adds contextual information while maintaining the ValidationError type.
func (ve *ValidationError) WithDetail(key string, value any) *ValidationError {
	ve.baseError.WithDetail(key, value)
	return ve
}

// WithField sets which field or parameter failed validation.
func (ve *ValidationError) WithField(field string) *ValidationError {
	ve.field = field
	return ve
}

// WithRule specifies which validation rule was violated.
func (ve *ValidationError) WithRule(rule string) *ValidationError {
	ve.rule = rule
	return ve
}

// WithProvided captures the value that failed validation.
func (ve *ValidationError) WithProvided(value any) *ValidationError {
	ve.provided = value
	return ve
}

// WithExpected describes what would have been a valid value.
func (ve *ValidationError) WithExpected(value any) *ValidationError {
	ve.expected = value
	return ve
}

// Field returns the field name that failed validation.
func (ve *ValidationError) Field() string {
	return ve.field
}

// Rule returns the validation rule that was violated.
func (ve *ValidationError) Rule() string {
	return ve.rule
}

// Provided returns the value that was provided and failed validation.
func (ve *ValidationError) Provided() any {
	return ve.provided
}

// Expected returns what would have been a valid value.
func (ve *ValidationError) Expected() any {
	return ve.expected
}

// NewEmptyRecordError creates an error for zero-length records. The store
// rejects them because record boundaries are derived from strictly increasing
// offsets in the sequence-number stream, which a zero-length record would
// break.
func NewEmptyRecordError(position int) *ValidationError {
	return NewValidationError(
		nil,
		ErrorCodeInvalidInput,
		fmt.Sprintf("Record at position %d is empty", position),
	).WithOp("append").
		WithField("records").
		WithRule("non_empty").
		WithProvided(0).
		WithExpected("at least one byte").
		WithDetail("position", position)
}

// NewConfigurationValidationError creates an error for incomplete or
// inconsistent configuration objects handed to a constructor.
func NewConfigurationValidationError(field string, issue string) *ValidationError {
	return NewValidationError(
		nil,
		ErrorCodeInvalidInput,
		"Configuration validation failed",
	).WithOp("open").
		WithField(field).
		WithRule("configuration_integrity").
		WithDetail("validationIssue", issue)
}
