package pathtracer

import "github.com/gogpu/gputypes"

// Default session configuration.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Default camera pose.
var (
	DefaultOrigin = V3(0, 0.75, 1)
	DefaultTarget = V3(0, -0.5, -1)
	DefaultUp     = WorldUp
)

// Option configures a Session during creation.
//
// Example:
//
//	s, err := pathtracer.NewSession(device, queue,
//	    pathtracer.WithResolution(1280, 720),
//	    pathtracer.WithPose(pathtracer.V3(0, 1, 3), pathtracer.V3(0, 0, 0), pathtracer.WorldUp),
//	)
type Option func(*options)

type options struct {
	width, height uint32
	origin        Vec3
	target        Vec3
	up            Vec3
	moveSpeed     float32
	format        gputypes.TextureFormat
	kernel        string
}

func defaultOptions() options {
	return options{
		width:     DefaultWidth,
		height:    DefaultHeight,
		origin:    DefaultOrigin,
		target:    DefaultTarget,
		up:        DefaultUp,
		moveSpeed: DefaultMoveSpeed,
		format:    gputypes.TextureFormatBGRA8Unorm,
	}
}

// WithResolution sets the accumulation resolution. It is fixed for the
// lifetime of the session.
func WithResolution(width, height uint32) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// WithPose sets the initial camera pose passed to LookAt.
func WithPose(origin, target, up Vec3) Option {
	return func(o *options) {
		o.origin = origin
		o.target = target
		o.up = up
	}
}

// WithMoveSpeed sets the Translate step length.
func WithMoveSpeed(speed float32) Option {
	return func(o *options) {
		o.moveSpeed = speed
	}
}

// WithSurfaceFormat sets the format of the views passed to RenderFrame.
// The default is BGRA8Unorm.
func WithSurfaceFormat(format gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithKernelSource replaces the built-in WGSL kernel. The source must
// follow the kernel binding contract described in the package docs.
func WithKernelSource(wgsl string) Option {
	return func(o *options) {
		o.kernel = wgsl
	}
}
