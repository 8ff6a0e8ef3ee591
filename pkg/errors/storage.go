package errors

// StorageError is a specialized error type for stream and segment operations.
// It embeds baseError to inherit all the standard error functionality, then adds
// storage-specific fields that help pinpoint exactly where problems occurred.
type StorageError struct {
	*baseError
	segment  int    // Which segment of the stream was being accessed when the error occurred.
	offset   uint64 // Byte offset within the stream where the problem happened.
	fileName string // Name of the stream file that caused the issue.
	path     string // Path of the stream file that caused the issue.
}

// NewStorageError creates a new storage-specific error.
func NewStorageError(err error, code ErrorCode, msg string) *StorageError {
	return &StorageError{baseError: NewBaseError(err, code, msg)}
}

// Override base error methods to return *StorageError instead of *baseError,
// so that method chaining keeps the concrete type.

// WithMessage updates the error message while maintaining the StorageError type.
func (se *StorageError) WithMessage(msg string) *StorageError {
	se.baseError.WithMessage(msg)
	return se
}

// WithCode sets the error code while preserving the StorageError type.
func (se *StorageError) WithCode(code ErrorCode) *StorageError {
	se.baseError.WithCode(code)
	return se
}

// WithOp records the operation stage while preserving the StorageError type.
func (se *StorageError) WithOp(op string) *StorageError {
	se.baseError.WithOp(op)
	return se
}

// WithDetail adds contextual information while maintaining the StorageError type.
func (se *StorageError) WithDetail(key string, value any) *StorageError {
	se.baseError.WithDetail(key, value)
	return se
}

// WithSegment sets which stream segment was involved in the error.
func (se *StorageError) WithSegment(number int) *StorageError {
	se.segment = number
	return se
}

// WithOffset records the logical byte position where the error occurred.
func (se *StorageError) WithOffset(offset uint64) *StorageError {
	se.offset = offset
	return se
}

// WithFileName captures which file was being processed when the error occurred.
func (se *StorageError) WithFileName(fileName string) *StorageError {
	se.fileName = fileName
	return se
}

// WithPath captures which path was being processed when the error occurred.
func (se *StorageError) WithPath(path string) *StorageError {
	se.path = path
	return se
}

// Segment returns the segment number where the error occurred.
func (se *StorageError) Segment() int {
	return se.segment
}

// Offset returns the logical byte offset within the stream where the error
// happened. Combined with Segment, this gives the exact location of the problem.
func (se *StorageError) Offset() uint64 {
	return se.offset
}

// FileName returns the name of the file that was being processed.
func (se *StorageError) FileName() string {
	return se.fileName
}

// Path returns the path of the file that was being processed.
func (se *StorageError) Path() string {
	return se.path
}
