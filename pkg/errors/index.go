package errors

// IndexError provides specialized error handling for the in-memory key index
// that can be layered above the record streams. It extends the base error
// system with the key and sequence number involved in the failed operation;
// the operation stage itself ("Get", "Rebuild") travels in the base error's
// op field like everywhere else in the engine.
type IndexError struct {
	*baseError

	// Identifies which key was being processed when the error occurred.
	key string

	// Captures the sequence number involved in the failed operation.
	seqNo uint64
}

// NewIndexError creates a new index-specific error with the provided context.
func NewIndexError(err error, code ErrorCode, msg string) *IndexError {
	return &IndexError{baseError: NewBaseError(err, code, msg)}
}

// Override base error methods to return *IndexError instead of *baseError.

// WithMessage updates the error message while maintaining the IndexError type.
func (ie *IndexError) WithMessage(msg string) *IndexError {
	ie.baseError.WithMessage(msg)
	return ie
}

// WithCode sets the error code while preserving the IndexError type.
func (ie *IndexError) WithCode(code ErrorCode) *IndexError {
	ie.baseError.WithCode(code)
	return ie
}

// WithOp records the operation stage while preserving the IndexError type.
func (ie *IndexError) WithOp(op string) *IndexError {
	ie.baseError.WithOp(op)
	return ie
}

// WithDetail adds contextual information while maintaining the IndexError type.
func (ie *IndexError) WithDetail(key string, value any) *IndexError {
	ie.baseError.WithDetail(key, value)
	return ie
}

// WithKey records which key was being processed when the error occurred.
func (ie *IndexError) WithKey(key string) *IndexError {
	ie.key = key
	return ie
}

// WithSeqNo captures the sequence number involved in the error.
func (ie *IndexError) WithSeqNo(seqNo uint64) *IndexError {
	ie.seqNo = seqNo
	return ie
}

// Key returns the key that was being processed when the error occurred.
func (ie *IndexError) Key() string {
	return ie.key
}

// SeqNo returns the sequence number associated with the error.
func (ie *IndexError) SeqNo() uint64 {
	return ie.seqNo
}

// NewKeyNotFoundError creates a specialized error for missing keys.
func NewKeyNotFoundError(key []byte) *IndexError {
	return NewIndexError(nil, ErrorCodeIndexKeyNotFound, "key not found in index").
		WithKey(string(key)).
		WithOp("Get")
}

// NewIndexRebuildError creates an error for failures while rebuilding the key
// index from the record stream at open.
func NewIndexRebuildError(seqNo uint64, cause error) *IndexError {
	return NewIndexError(cause, ErrorCodeIndexRebuildFailed, "failed to rebuild key index from records").
		WithOp("Rebuild").
		WithSeqNo(seqNo).
		WithDetail("stage", "record_deserialization")
}
