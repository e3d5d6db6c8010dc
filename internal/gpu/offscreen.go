package gpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// OffscreenFormat is the color format of headless render targets.
const OffscreenFormat = gputypes.TextureFormatRGBA8Unorm

// copyPitchAlignment is the required row stride alignment for
// texture-to-buffer copies.
const copyPitchAlignment = 256

// OffscreenTarget is a color texture standing in for a presentation surface
// when rendering headless. Its contents can be read back after any frame.
type OffscreenTarget struct {
	device  hal.Device
	queue   hal.Queue
	texture hal.Texture
	view    hal.TextureView
	staging hal.Buffer

	width       uint32
	height      uint32
	alignedRow  uint32
	stagingSize uint64
}

// NewOffscreenTarget creates an RGBA8 render target and the staging buffer
// used to read it back.
func NewOffscreenTarget(device hal.Device, queue hal.Queue, w, h uint32) (*OffscreenTarget, error) {
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("offscreen target %dx%d: %w", w, h, ErrInvalidResolution)
	}
	bytesPerRow := w * 4
	aligned := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)

	t := &OffscreenTarget{
		device:      device,
		queue:       queue,
		width:       w,
		height:      h,
		alignedRow:  aligned,
		stagingSize: uint64(aligned) * uint64(h),
	}

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "offscreen_target",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        OffscreenFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create offscreen texture: %w", err)
	}
	t.texture = tex

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "offscreen_target_view",
		Format:        OffscreenFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("create offscreen view: %w", err)
	}
	t.view = view

	staging, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "offscreen_staging",
		Size:  t.stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		t.Destroy()
		return nil, fmt.Errorf("create offscreen staging buffer: %w", err)
	}
	t.staging = staging
	return t, nil
}

// View returns the view to pass to RenderFrame.
func (t *OffscreenTarget) View() hal.TextureView { return t.view }

// Format returns the pipeline color format matching the target.
func (t *OffscreenTarget) Format() gputypes.TextureFormat { return OffscreenFormat }

// Size returns the target dimensions.
func (t *OffscreenTarget) Size() (width, height uint32) { return t.width, t.height }

// Readback copies the target into host memory and returns it as an image.
// It waits for every queued frame to complete.
func (t *OffscreenTarget) Readback() (*image.RGBA, error) {
	encoder, err := t.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "offscreen_readback_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("offscreen_readback"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	// The kernel pass leaves the texture in attachment layout; the copy
	// needs it as a transfer source.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(t.texture, t.staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: t.alignedRow, RowsPerImage: t.height},
		TextureBase:  hal.ImageCopyTexture{Texture: t.texture, MipLevel: 0},
		Size:         hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer t.device.FreeCommandBuffer(cmdBuf)

	if _, err := t.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return nil, fmt.Errorf("submit readback: %w", err)
	}
	if err := t.device.WaitIdle(); err != nil {
		return nil, fmt.Errorf("wait for readback: %w", err)
	}

	mapping, err := t.device.MapBuffer(t.staging, 0, t.stagingSize)
	if err != nil {
		return nil, fmt.Errorf("map staging buffer: %w", err)
	}
	raw := unsafe.Slice((*byte)(mapping.Ptr), t.stagingSize)

	img := image.NewRGBA(image.Rect(0, 0, int(t.width), int(t.height)))
	rowBytes := int(t.width) * 4
	for row := 0; row < int(t.height); row++ {
		src := row * int(t.alignedRow)
		copy(img.Pix[row*img.Stride:row*img.Stride+rowBytes], raw[src:src+rowBytes])
	}
	if err := t.device.UnmapBuffer(t.staging); err != nil {
		return nil, fmt.Errorf("unmap staging buffer: %w", err)
	}
	return img, nil
}

// Destroy releases the texture, view and staging buffer. Safe to call more
// than once.
func (t *OffscreenTarget) Destroy() {
	if t.device == nil {
		return
	}
	if t.staging != nil {
		t.device.DestroyBuffer(t.staging)
		t.staging = nil
	}
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		t.device.DestroyTexture(t.texture)
		t.texture = nil
	}
	t.device = nil
	t.queue = nil
}
