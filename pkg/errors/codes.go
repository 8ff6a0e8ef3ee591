package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations across any
	// system boundary: reading or writing stream files, syncing mappings, or
	// accessing storage hardware.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side errors where the provided
	// data doesn't meet the system's requirements, such as appending an
	// empty record.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories. These indicate bugs or assertion failures that
	// shouldn't occur during normal operation.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Storage-specific error codes extend the base taxonomy with the failure
// modes of the memory-mapped stream layer. Each code corresponds to one
// distinct stage of the append or open path, so callers can tell exactly
// which operation on which resource went wrong.
const (
	// ErrorCodeFileOpen indicates that a backing stream file could not be
	// opened or created.
	ErrorCodeFileOpen ErrorCode = "FILE_OPEN_FAILURE"

	// ErrorCodePathNotDir indicates that the database path exists but does
	// not point to a directory.
	ErrorCodePathNotDir ErrorCode = "PATH_NOT_DIRECTORY"

	// ErrorCodePathNotFound indicates that the database directory does not
	// exist and the open mode does not permit creating it.
	ErrorCodePathNotFound ErrorCode = "PATH_NOT_FOUND"

	// ErrorCodeMetadata indicates a failure while querying file metadata.
	ErrorCodeMetadata ErrorCode = "METADATA_FAILURE"

	// ErrorCodeExtend indicates that extending a stream file with truncate
	// failed while growing a segment.
	ErrorCodeExtend ErrorCode = "FILE_EXTEND_FAILURE"

	// ErrorCodeMmap indicates that creating a memory mapping failed.
	ErrorCodeMmap ErrorCode = "MMAP_FAILURE"

	// ErrorCodeMmapWrite indicates a failure while writing data into a mapping.
	ErrorCodeMmapWrite ErrorCode = "MMAP_WRITE_FAILURE"

	// ErrorCodeProtect indicates that the read-only protection transition of
	// a frozen segment failed.
	ErrorCodeProtect ErrorCode = "MMAP_PROTECT_FAILURE"

	// ErrorCodeFlush indicates that a durable flush of mapped pages failed.
	ErrorCodeFlush ErrorCode = "FLUSH_FAILURE"

	// ErrorCodeReadHeader indicates that a stream header could not be read
	// or decoded.
	ErrorCodeReadHeader ErrorCode = "HEADER_READ_FAILURE"

	// ErrorCodeUpdateHeader indicates that advancing a stream header after a
	// successful append failed.
	ErrorCodeUpdateHeader ErrorCode = "HEADER_UPDATE_FAILURE"

	// ErrorCodeDataFileDamaged indicates that recovery validation found the
	// flat payload stream inconsistent with its header.
	ErrorCodeDataFileDamaged ErrorCode = "DATA_FILE_DAMAGED"

	// ErrorCodeSeqNoIndexDamaged indicates that recovery validation found
	// the sequence-number stream inconsistent with the payload stream.
	ErrorCodeSeqNoIndexDamaged ErrorCode = "SEQNO_INDEX_DAMAGED"

	// ErrorCodeStorageLock indicates that an internal lock could not be acquired.
	ErrorCodeStorageLock ErrorCode = "STORAGE_LOCK_FAILURE"

	// ErrorCodeReadOnly indicates a write attempt on a database that was
	// opened in read-only mode.
	ErrorCodeReadOnly ErrorCode = "STORAGE_READONLY"

	// ErrorCodePermissionDenied indicates insufficient permissions to access a resource.
	// This is distinct from generic IO errors because it has a specific resolution path:
	// the user needs to adjust file/directory permissions or run with elevated privileges.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates that the storage device has run out of space.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates that the filesystem is mounted read-only.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"
)

// Index-specific error codes cover the in-memory key index that can be
// layered above the core streams.
const (
	// ErrorCodeIndexKeyNotFound indicates a lookup for a key that is not
	// present in the index.
	ErrorCodeIndexKeyNotFound ErrorCode = "INDEX_KEY_NOT_FOUND"

	// ErrorCodeIndexRebuildFailed indicates that rebuilding the key index by
	// scanning the record stream failed.
	ErrorCodeIndexRebuildFailed ErrorCode = "INDEX_REBUILD_FAILED"
)
