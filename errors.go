package pathtracer

import (
	"errors"

	"github.com/gogpu/pathtracer/internal/gpu"
)

// Sentinel errors for the pathtracer package.
var (
	// ErrDegenerateBasis is returned by LookAt when target equals origin or
	// up is parallel to the view direction.
	ErrDegenerateBasis = errors.New("pathtracer: degenerate camera basis")

	// ErrInvalidResolution is returned when width or height is zero.
	ErrInvalidResolution = gpu.ErrInvalidResolution

	// ErrKernelInvalid is returned when the rendering kernel source fails
	// WGSL validation.
	ErrKernelInvalid = gpu.ErrKernelInvalid

	// ErrClosed is returned when a Session is used after Close.
	ErrClosed = errors.New("pathtracer: session is closed")
)
