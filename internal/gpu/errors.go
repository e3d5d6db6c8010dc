package gpu

import "errors"

var (
	// ErrInvalidResolution is returned when width or height is zero.
	ErrInvalidResolution = errors.New("pathtracer: invalid resolution")

	// ErrKernelInvalid is returned when WGSL kernel validation fails.
	ErrKernelInvalid = errors.New("pathtracer: invalid kernel")

	// ErrUnknownBackend is returned by OpenDevice for an unregistered backend name.
	ErrUnknownBackend = errors.New("pathtracer: unknown backend")

	// ErrNoAdapter is returned when a backend exposes no adapters.
	ErrNoAdapter = errors.New("pathtracer: no GPU adapter")
)
