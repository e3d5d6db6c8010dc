package gpu

import (
	"fmt"
	"math"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Config fixes the dispatcher's resolution, output format and kernel.
type Config struct {
	Width  uint32
	Height uint32

	// SurfaceFormat is the format of the views passed to RenderFrame.
	// Zero selects BGRA8Unorm.
	SurfaceFormat gputypes.TextureFormat

	// KernelSource is WGSL following the kernel binding contract.
	// Empty selects DefaultKernelSource. Custom sources are validated
	// with naga before they reach the device.
	KernelSource string
}

// Uniform ring layout. Each frame writes its uniform block into the next
// slot so a block still read by an in-flight frame is never overwritten.
const (
	uniformSlots      = 3
	uniformSlotStride = 256
	uniformRingSize   = uniformSlots * uniformSlotStride
)

// inflightFrame is a submitted command buffer awaiting completion.
type inflightFrame struct {
	submission uint64
	cmdBuf     hal.CommandBuffer
}

// FrameStats describes one dispatched frame.
type FrameStats struct {
	// FrameCount is the sample index passed to the kernel, starting at 1.
	FrameCount uint32
	// Parity selects the history and target images used.
	Parity Parity
	// Submission is the queue submission index of the frame.
	Submission uint64
	// UniformOffset is the byte offset of the frame's uniform block.
	UniformOffset uint64
	// Encode is the host time spent writing uniforms, encoding and submitting.
	Encode time.Duration
}

// Dispatcher issues one kernel pass per frame and owns every GPU resource
// involved: the uniform buffer, the accumulation pair, the pipeline and the
// two parity bind groups.
//
// The frame counter is the only state machine: it advances by one before
// each dispatch and its pre-increment parity selects the bind group.
//
// Dispatcher is not safe for concurrent use. Frames are ordered only by
// submission order on the single queue; RenderFrame never waits for the GPU.
type Dispatcher struct {
	device hal.Device
	queue  hal.Queue

	width  uint32
	height uint32

	uniformBuf hal.Buffer
	pair       *accumulationPair
	kernel     *kernelPipeline
	bindGroups [2]hal.BindGroup

	uniforms   FrameUniforms
	staging    [FrameUniformsSize]byte
	frameCount uint32

	// dispatched counts every submitted frame and never resets.
	dispatched     uint64
	slotSubmission [uniformSlots]uint64
	inflight       []inflightFrame
}

// NewDispatcher creates all resources for a session at the configured
// resolution. Partially created resources are destroyed on failure.
func NewDispatcher(device hal.Device, queue hal.Queue, cfg Config) (*Dispatcher, error) {
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("dispatcher %dx%d: %w", cfg.Width, cfg.Height, ErrInvalidResolution)
	}
	if cfg.SurfaceFormat == 0 {
		cfg.SurfaceFormat = gputypes.TextureFormatBGRA8Unorm
	}
	source := cfg.KernelSource
	if source == "" {
		source = DefaultKernelSource
	} else if err := ValidateKernel(source); err != nil {
		return nil, err
	}

	d := &Dispatcher{
		device: device,
		queue:  queue,
		width:  cfg.Width,
		height: cfg.Height,
	}
	if err := d.init(cfg.SurfaceFormat, source); err != nil {
		d.Destroy()
		return nil, err
	}

	slogger().Info("path tracer dispatcher ready",
		"width", d.width, "height", d.height, "format", cfg.SurfaceFormat.String())
	return d, nil
}

func (d *Dispatcher) init(format gputypes.TextureFormat, source string) error {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "path_tracer_uniforms",
		Size:  uniformRingSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	d.uniformBuf = buf

	pair, err := newAccumulationPair(d.device, d.width, d.height)
	if err != nil {
		return err
	}
	d.pair = pair

	kernel, err := newKernelPipeline(d.device, format, source)
	if err != nil {
		return err
	}
	d.kernel = kernel

	groups, err := kernel.createBindGroups(d.device, d.uniformBuf, d.pair)
	if err != nil {
		return err
	}
	d.bindGroups = groups
	return nil
}

// Size returns the fixed accumulation resolution.
func (d *Dispatcher) Size() (width, height uint32) {
	return d.width, d.height
}

// FrameCount returns the current value of the frame counter.
func (d *Dispatcher) FrameCount() uint32 {
	return d.frameCount
}

// Invalidate resets the frame counter so the next dispatch starts a new
// accumulation series at frame count 1.
func (d *Dispatcher) Invalidate() {
	if d.frameCount != 0 {
		slogger().Debug("accumulation invalidated", "discarded_frames", d.frameCount)
	}
	d.frameCount = 0
}

// RenderFrame advances the frame counter and dispatches the kernel into
// target with the given camera.
//
// The pass clears target to black, binds the uniform block and the bind
// group of the current parity, and draws the full-image quad. The command
// buffer is submitted without waiting. If any step fails the accumulation
// series is invalidated, because the target image of the failed frame may
// not have been written, and the wrapped error is returned.
func (d *Dispatcher) RenderFrame(target hal.TextureView, cam CameraBlock) (FrameStats, error) {
	start := time.Now()

	n := d.frameCount
	if n == math.MaxUint32 {
		// The kernel divides by frame_count, so a wrapped counter restarts
		// the series instead of reaching zero.
		slogger().Debug("frame counter exhausted, restarting accumulation")
		n = 0
	}
	d.frameCount = n + 1
	parity := ParityOf(n)

	slot := int(d.dispatched % uniformSlots)
	if err := d.reclaim(slot); err != nil {
		d.frameCount = 0
		return FrameStats{}, err
	}
	offset := uint64(slot) * uniformSlotStride

	d.uniforms = FrameUniforms{
		Camera:     cam,
		Width:      d.width,
		Height:     d.height,
		FrameCount: d.frameCount,
	}
	d.uniforms.encode(d.staging[:])

	submission, err := d.submit(target, parity, offset)
	if err != nil {
		d.frameCount = 0
		return FrameStats{}, err
	}
	d.dispatched++
	d.slotSubmission[slot] = submission

	stats := FrameStats{
		FrameCount:    d.frameCount,
		Parity:        parity,
		Submission:    submission,
		UniformOffset: offset,
		Encode:        time.Since(start),
	}
	slogger().Debug("frame dispatched",
		"frame", stats.FrameCount, "parity", parity.String(),
		"submission", submission, "uniform_offset", offset)
	return stats, nil
}

// reclaim frees command buffers of completed frames and makes sure the
// uniform slot about to be written is no longer read by the GPU.
func (d *Dispatcher) reclaim(slot int) error {
	completed := d.queue.PollCompleted()
	if d.slotSubmission[slot] > completed {
		slogger().Debug("uniform ring full, waiting for GPU",
			"slot", slot, "pending", d.slotSubmission[slot], "completed", completed)
		if err := d.device.WaitIdle(); err != nil {
			return fmt.Errorf("wait for uniform slot %d: %w", slot, err)
		}
		completed = d.queue.PollCompleted()
	}
	d.maintain(completed)
	return nil
}

// maintain frees command buffers whose submission index is at most completed.
func (d *Dispatcher) maintain(completed uint64) {
	keep := d.inflight[:0]
	for _, f := range d.inflight {
		if f.submission <= completed {
			d.device.FreeCommandBuffer(f.cmdBuf)
			continue
		}
		keep = append(keep, f)
	}
	d.inflight = keep
}

func (d *Dispatcher) submit(target hal.TextureView, parity Parity, offset uint64) (uint64, error) {
	if err := d.queue.WriteBuffer(d.uniformBuf, offset, d.staging[:]); err != nil {
		return 0, fmt.Errorf("write frame uniforms: %w", err)
	}

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "path_tracer_encoder",
	})
	if err != nil {
		return 0, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("path_tracer_frame"); err != nil {
		return 0, fmt.Errorf("begin encoding: %w", err)
	}

	encoder.TransitionTextures(d.pair.transitions(parity))

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "path_tracer_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	rp.SetPipeline(d.kernel.pipeline)
	rp.SetBindGroup(0, d.bindGroups[parity], []uint32{uint32(offset)}) //nolint:gosec // ring offset fits uint32
	rp.Draw(KernelVertexCount, 1, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return 0, fmt.Errorf("end encoding: %w", err)
	}

	submission, err := d.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		d.device.FreeCommandBuffer(cmdBuf)
		return 0, fmt.Errorf("submit frame: %w", err)
	}
	d.pair.commit(parity)
	d.inflight = append(d.inflight, inflightFrame{submission: submission, cmdBuf: cmdBuf})
	return submission, nil
}

// Destroy releases every resource owned by the dispatcher in reverse
// creation order. The device and queue are left untouched. Destroy is
// idempotent.
func (d *Dispatcher) Destroy() {
	if d.device == nil {
		return
	}
	if len(d.inflight) > 0 {
		if err := d.device.WaitIdle(); err != nil {
			slogger().Warn("wait idle before destroy", "err", err)
		}
		d.maintain(d.queue.PollCompleted())
	}
	for i := len(d.bindGroups) - 1; i >= 0; i-- {
		if d.bindGroups[i] != nil {
			d.device.DestroyBindGroup(d.bindGroups[i])
			d.bindGroups[i] = nil
		}
	}
	if d.kernel != nil {
		d.kernel.destroy(d.device)
		d.kernel = nil
	}
	if d.pair != nil {
		d.pair.destroy(d.device)
		d.pair = nil
	}
	if d.uniformBuf != nil {
		d.device.DestroyBuffer(d.uniformBuf)
		d.uniformBuf = nil
	}
	d.device = nil
	d.queue = nil
}
