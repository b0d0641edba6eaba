package registry

import "errors"

// Sentinel errors for registry operations.
var (
	// ErrNotFound is returned when a bundle does not exist at the reference.
	ErrNotFound = errors.New("registry: not found")

	// ErrUnauthorized is returned when authentication fails.
	ErrUnauthorized = errors.New("registry: unauthorized")

	// ErrForbidden is returned when access is denied.
	ErrForbidden = errors.New("registry: forbidden")

	// ErrInvalidReference is returned when a reference string is malformed.
	ErrInvalidReference = errors.New("registry: invalid reference")

	// ErrInvalidDescriptor is returned when a descriptor is nil or has
	// invalid fields.
	ErrInvalidDescriptor = errors.New("registry: invalid descriptor")

	// ErrManifestInvalid is returned when a manifest cannot be parsed or
	// is not a valid bundle artifact.
	ErrManifestInvalid = errors.New("registry: invalid manifest")

	// ErrSizeMismatch is returned when blob content size does not match
	// its descriptor.
	ErrSizeMismatch = errors.New("registry: size mismatch")

	// ErrBundleTooLarge is returned when a bundle layer exceeds the
	// fetcher's size limit.
	ErrBundleTooLarge = errors.New("registry: bundle exceeds size limit")
)
