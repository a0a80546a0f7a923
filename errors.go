package kexrt

import "errors"

var (
	// ErrNotFound is returned when a search completes without a match:
	// a module scan that exhausts its range, or a loader lookup that
	// comes up empty.
	ErrNotFound = errors.New("not found")

	// ErrInvalidImageFormat is returned when a mapped image has no
	// usable export directory.
	ErrInvalidImageFormat = errors.New("invalid image format")

	// ErrEntrypointNotFound is returned when an image exports nothing
	// under the requested name.
	ErrEntrypointNotFound = errors.New("entrypoint not found")

	// ErrInvalidArgument is returned for nil or zero required inputs,
	// before any memory is touched.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrValueTypeMismatch is returned when a registry value exists but
	// its type is excluded by the caller's restriction mask.
	ErrValueTypeMismatch = errors.New("registry value type mismatch")
)
