// Package gpu drives the progressive path tracing kernel on a WebGPU HAL
// device.
//
// The package owns every GPU resource of a session:
//
//   - two RGBA32Float accumulation images used as history and target
//   - a uniform ring holding the per-frame camera and sample index
//   - the kernel render pipeline and one bind group per parity
//
// # Frame Protocol
//
// A Dispatcher keeps a single frame counter. Each RenderFrame advances it by
// one; the parity of the value before the advance picks which accumulation
// image is read as history and which is written:
//
//	n = 0: read A, write B, frame_count = 1
//	n = 1: read B, write A, frame_count = 2
//	n = 2: read A, write B, frame_count = 3
//
// The kernel ignores history when frame_count is 1, so resetting the counter
// with Invalidate is enough to restart accumulation. Images are never
// cleared. The counter restarts at 1 instead of wrapping to 0.
//
// Before each pass the frame records two texture barriers: history moves to
// sampled-texture usage and target to storage usage. This orders frame N's
// storage writes before frame N+1's reads on backends that track image
// layouts.
//
// # Devices
//
// OpenDevice opens a HAL device directly on a registered backend ("vulkan"
// or "noop") for headless use. Windowed use takes the device and queue from
// gogpu instead.
//
// # Kernel
//
// The built-in kernel is embedded WGSL. Custom kernels must follow the same
// binding contract and are validated with naga before pipeline creation.
package gpu
