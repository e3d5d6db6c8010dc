package pathtracer

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pathtracer/internal/gpu"
)

// FrameStats describes one dispatched frame.
type FrameStats = gpu.FrameStats

// Parity identifies which accumulation buffer holds history for a frame.
type Parity = gpu.Parity

// Parity values.
const (
	BufferAIsHistory = gpu.BufferAIsHistory
	BufferBIsHistory = gpu.BufferBIsHistory
)

// Session owns the camera and the render dispatcher of one progressive
// accumulation series.
//
// Every camera mutation goes through a Session method that also resets the
// frame counter, so accumulated samples always share one camera
// configuration. Session is not safe for concurrent use; drive it from the
// thread that issues RenderFrame.
type Session struct {
	camera   Camera
	dispatch *gpu.Dispatcher
	closed   bool
}

// NewSession creates the camera and all GPU resources for a session on the
// given device and queue.
//
// Construction fails with ErrDegenerateBasis for an invalid pose,
// ErrInvalidResolution for a zero dimension, ErrKernelInvalid for a kernel
// that does not validate, or a wrapped device error if a resource cannot be
// allocated.
func NewSession(device hal.Device, queue hal.Queue, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	cam, err := LookAt(o.origin, o.target, o.up)
	if err != nil {
		return nil, fmt.Errorf("initial pose: %w", err)
	}
	cam = cam.WithMoveSpeed(o.moveSpeed)

	d, err := gpu.NewDispatcher(device, queue, gpu.Config{
		Width:         o.width,
		Height:        o.height,
		SurfaceFormat: o.format,
		KernelSource:  o.kernel,
	})
	if err != nil {
		return nil, fmt.Errorf("create dispatcher: %w", err)
	}

	Logger().Info("pathtracer: session created",
		"width", o.width, "height", o.height, "format", o.format.String())
	return &Session{camera: cam, dispatch: d}, nil
}

// Camera returns a copy of the current camera.
func (s *Session) Camera() Camera {
	return s.camera
}

// Rotate rotates the camera and invalidates accumulation.
func (s *Session) Rotate(dx, dy float32) {
	s.camera.Rotate(dx, dy)
	s.Invalidate()
}

// Zoom dollies the camera and invalidates accumulation.
func (s *Session) Zoom(displacement float32) {
	s.camera.Zoom(displacement)
	s.Invalidate()
}

// Translate moves the camera and invalidates accumulation.
func (s *Session) Translate(dirs Direction) {
	s.camera.Translate(dirs)
	s.Invalidate()
}

// Edit applies fn to the camera and invalidates accumulation.
// fn may replace the camera entirely, for example with a new LookAt pose.
func (s *Session) Edit(fn func(*Camera)) {
	fn(&s.camera)
	s.Invalidate()
}

// Invalidate discards accumulated samples. The next RenderFrame starts a
// new series at frame count 1. Use it for any change to what is rendered
// that does not go through the camera methods.
func (s *Session) Invalidate() {
	if s.closed {
		return
	}
	s.dispatch.Invalidate()
}

// FrameCount returns the frame count of the last dispatched frame,
// or zero right after an invalidation.
func (s *Session) FrameCount() uint32 {
	if s.closed {
		return 0
	}
	return s.dispatch.FrameCount()
}

// Size returns the fixed accumulation resolution.
func (s *Session) Size() (width, height uint32) {
	return s.dispatch.Size()
}

// RenderFrame dispatches one progressive frame into target.
// The caller presents target afterwards. Submission errors are returned
// as-is and never retried.
func (s *Session) RenderFrame(target hal.TextureView) (FrameStats, error) {
	if s.closed {
		return FrameStats{}, ErrClosed
	}
	return s.dispatch.RenderFrame(target, cameraBlock(s.camera.Uniforms()))
}

// Close releases all GPU resources owned by the session.
// The device and queue are not destroyed. Close is idempotent.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.dispatch.Destroy()
	s.closed = true
}

func cameraBlock(u CameraUniforms) gpu.CameraBlock {
	return gpu.CameraBlock{
		Origin: u.Origin.Lanes(),
		U:      u.U.Lanes(),
		V:      u.V.Lanes(),
		W:      u.W.Lanes(),
	}
}
