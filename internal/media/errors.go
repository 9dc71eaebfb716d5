package media

import "errors"

var (
	// ErrInvalidConfig is returned when required storage configuration is missing.
	ErrInvalidConfig = errors.New("invalid storage configuration")

	// ErrInvalidPath is returned when a path escapes the storage root.
	ErrInvalidPath = errors.New("invalid path")

	// ErrFileNotFound is returned when the requested object does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrFailedToSave is returned when writing an object fails.
	ErrFailedToSave = errors.New("failed to save file")

	// ErrFailedToDelete is returned when removing an object fails.
	ErrFailedToDelete = errors.New("failed to delete file")

	// ErrAccessDenied is returned when the bucket rejects the request.
	ErrAccessDenied = errors.New("access denied")

	// ErrOperationTimeout is returned when a storage operation exceeds its deadline.
	ErrOperationTimeout = errors.New("operation timeout")

	// ErrUnknownDriver is returned when the configured driver is not recognized.
	ErrUnknownDriver = errors.New("unknown storage driver")
)
