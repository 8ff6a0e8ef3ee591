// Package errors provides the structured error taxonomy for emberdb.
//
// The error system is built around a hierarchical structure that starts with
// a foundational baseError and extends into domain-specific error types. This
// design maintains consistency across all error types while allowing
// specialized context for different domains, enables rich error chaining that
// preserves the complete failure context, supports programmatic error
// handling through standardized error codes, and facilitates comprehensive
// logging through structured error details.
//
// Different parts of the storage engine fail in fundamentally different ways
// and require different contextual information for effective diagnosis. A
// validation error needs to know which field failed and what rule was
// violated. A storage error needs to know which stream file and byte offset
// were involved. An index error needs to know which key and operation were
// being processed. By capturing this domain-specific context at the point of
// failure, the system enables much more intelligent error handling throughout
// the application stack.
//
// Central to this system is the error code taxonomy in codes.go. The codes
// mirror the stages of the storage engine's append and open paths: file
// opening, metadata queries, file extension, mapping creation, mapped writes,
// protection transitions, durable flushes, header maintenance and recovery
// validation. Recovery failures carry dedicated codes (DATA_FILE_DAMAGED,
// SEQNO_INDEX_DAMAGED) because they are fatal for the open attempt, while
// ordinary I/O failures are recoverable from the caller's perspective.
package errors

import (
	stdErrors "errors"
	"os"
	"syscall"
)

// IsValidationError checks if the given error is a ValidationError or contains
// one in its error chain.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return stdErrors.As(err, &ve)
}

// IsStorageError determines if an error is related to storage operations, such
// as file I/O, mapping failures, or stream corruption. Storage errors often
// require different handling strategies than other error types because they
// may indicate hardware issues, capacity problems, or data integrity concerns.
func IsStorageError(err error) bool {
	var se *StorageError
	return stdErrors.As(err, &se)
}

// IsIndexError identifies errors that occurred during key index operations
// such as lookups or the rebuild scan performed at open.
func IsIndexError(err error) bool {
	var ie *IndexError
	return stdErrors.As(err, &ie)
}

// IsDamaged reports whether the error indicates that recovery validation
// failed for either stream. Damage errors are fatal for the open attempt;
// retrying without operator intervention will not succeed.
func IsDamaged(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeDataFileDamaged || code == ErrorCodeSeqNoIndexDamaged
}

// AsValidationError safely extracts a ValidationError from an error chain,
// providing access to validation-specific context such as which field failed
// and what rule was violated.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stdErrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsStorageError extracts StorageError context from an error chain, providing
// access to storage-specific information such as segment numbers, stream
// offsets, file names, and paths.
func AsStorageError(err error) (*StorageError, bool) {
	var se *StorageError
	if stdErrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AsIndexError extracts IndexError context, providing access to the key,
// operation and sequence number involved in a failed index operation.
func AsIndexError(err error) (*IndexError, bool) {
	var ie *IndexError
	if stdErrors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from any error that supports it, or
// returns ErrorCodeInternal for errors that don't have specific codes.
func GetErrorCode(err error) ErrorCode {
	if ve, ok := AsValidationError(err); ok {
		return ve.Code()
	}

	if se, ok := AsStorageError(err); ok {
		return se.Code()
	}

	if ie, ok := AsIndexError(err); ok {
		return ie.Code()
	}

	return ErrorCodeInternal
}

// GetErrorDetails extracts structured details from any error that supports
// them, returning an empty map for errors without details.
func GetErrorDetails(err error) map[string]any {
	if ve, ok := AsValidationError(err); ok {
		if details := ve.Details(); details != nil {
			return details
		}
	}

	if se, ok := AsStorageError(err); ok {
		if details := se.Details(); details != nil {
			return details
		}
	}

	if ie, ok := AsIndexError(err); ok {
		if details := ie.Details(); details != nil {
			return details
		}
	}

	return make(map[string]any)
}

// ClassifyDirectoryCreationError analyzes directory creation failures and
// returns appropriate error codes based on the underlying system error. This
// helps clients understand exactly what went wrong and how they might fix it.
func ClassifyDirectoryCreationError(err error, path string) error {
	if os.IsPermission(err) {
		return NewStorageError(
			err, ErrorCodePermissionDenied,
			"Insufficient permissions to create database directory",
		).WithPath(path).
			WithOp("directory_creation").
			WithDetail("required_permission", "write")
	}

	if errno, ok := extractErrno(err); ok {
		switch errno {
		case syscall.ENOSPC:
			return NewStorageError(
				err, ErrorCodeDiskFull,
				"Insufficient disk space to create database directory",
			).WithPath(path).WithOp("directory_creation")
		case syscall.EROFS:
			return NewStorageError(
				err, ErrorCodeFilesystemReadonly,
				"Cannot create directory on read-only filesystem",
			).WithPath(path).WithOp("directory_creation")
		}
	}

	return NewStorageError(
		err, ErrorCodeIO, "Failed to create database directory",
	).WithPath(path).WithOp("directory_creation")
}

// ClassifyFileOpenError analyzes stream file opening failures and returns
// appropriate error codes based on the underlying system error. This provides
// much more specific information than a generic I/O error.
func ClassifyFileOpenError(err error, filePath, fileName string) error {
	if os.IsPermission(err) {
		return NewStorageError(
			err, ErrorCodePermissionDenied,
			"Insufficient permissions to open stream file",
		).WithPath(filePath).
			WithFileName(fileName).
			WithOp("file_open").
			WithDetail("required_permission", "read_write")
	}

	if errno, ok := extractErrno(err); ok {
		switch errno {
		case syscall.ENOSPC:
			return NewStorageError(
				err, ErrorCodeDiskFull,
				"Insufficient disk space to create stream file",
			).WithPath(filePath).
				WithFileName(fileName).
				WithOp("file_open")
		case syscall.EROFS:
			return NewStorageError(
				err, ErrorCodeFilesystemReadonly,
				"Cannot create file on read-only filesystem",
			).WithPath(filePath).
				WithFileName(fileName).
				WithOp("file_open")
		}
	}

	return NewStorageError(err, ErrorCodeFileOpen, "Failed to open stream file").
		WithPath(filePath).
		WithFileName(fileName).
		WithOp("file_open")
}

// ClassifyExtendError analyzes file extension failures that occur while
// growing a stream for a new segment. Running out of disk space is by far the
// most common cause and deserves its own code.
func ClassifyExtendError(err error, fileName string, newSize uint64) error {
	if errno, ok := extractErrno(err); ok && errno == syscall.ENOSPC {
		return NewStorageError(
			err, ErrorCodeDiskFull,
			"Insufficient disk space to extend stream file",
		).WithFileName(fileName).
			WithOp("file_extend").
			WithDetail("requestedSize", newSize)
	}

	return NewStorageError(err, ErrorCodeExtend, "Failed to extend stream file").
		WithFileName(fileName).
		WithOp("file_extend").
		WithDetail("requestedSize", newSize)
}

// ClassifyFlushError analyzes msync failures. Flush failures can indicate
// anything from disk space problems to filesystem corruption, and because the
// engine publishes bytes to readers only after a successful flush, they always
// abort the append that triggered them.
func ClassifyFlushError(err error, fileName string, offset uint64) error {
	if errno, ok := extractErrno(err); ok {
		switch errno {
		case syscall.ENOSPC:
			return NewStorageError(
				err, ErrorCodeDiskFull,
				"Cannot flush mapping: insufficient disk space",
			).WithFileName(fileName).
				WithOffset(offset).
				WithOp("mmap_flush")
		case syscall.EIO:
			return NewStorageError(
				err, ErrorCodeFlush,
				"I/O error during flush - possible hardware or corruption issue",
			).WithFileName(fileName).
				WithOffset(offset).
				WithOp("mmap_flush").
				WithDetail("severity", "high")
		}
	}

	return NewStorageError(err, ErrorCodeFlush, "Failed to flush mapping to disk").
		WithFileName(fileName).
		WithOffset(offset).
		WithOp("mmap_flush")
}

// extractErrno digs a syscall.Errno out of an error chain, handling both
// bare errnos and the *os.PathError / *os.SyscallError wrappers that file
// operations return.
func extractErrno(err error) (syscall.Errno, bool) {
	var errno syscall.Errno
	if stdErrors.As(err, &errno) {
		return errno, true
	}
	return 0, false
}
