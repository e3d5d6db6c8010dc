package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// AccumulationFormat is the pixel format of both accumulation images.
const AccumulationFormat = gputypes.TextureFormatRGBA32Float

// accumulationPair holds the two ping-pong radiance images.
//
// Each frame the kernel samples one image as history and writes the other
// as storage. Both images share size, format and usage:
//   - RGBA32Float, 1 mip, 1 sample
//   - TextureBinding (history read) | StorageBinding (target write)
//
// The pair is created once and never resized.
//
// usage records the last usage each image was submitted with. Zero means
// the image has not been used yet and its contents are undefined.
type accumulationPair struct {
	textures [2]hal.Texture
	views    [2]hal.TextureView
	usage    [2]gputypes.TextureUsage
	width    uint32
	height   uint32
}

var accumulationLabels = [2]string{"accumulation_a", "accumulation_b"}

// newAccumulationPair allocates both images. On failure every resource
// created so far is destroyed before the error is returned.
func newAccumulationPair(device hal.Device, w, h uint32) (*accumulationPair, error) {
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("accumulation pair %dx%d: %w", w, h, ErrInvalidResolution)
	}

	p := &accumulationPair{width: w, height: h}
	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	for i, label := range accumulationLabels {
		tex, err := device.CreateTexture(&hal.TextureDescriptor{
			Label:         label,
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        AccumulationFormat,
			Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageStorageBinding,
		})
		if err != nil {
			p.destroy(device)
			return nil, fmt.Errorf("create %s texture: %w", label, err)
		}
		p.textures[i] = tex

		view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
			Label:         label + "_view",
			Format:        AccumulationFormat,
			Dimension:     gputypes.TextureViewDimension2D,
			Aspect:        gputypes.TextureAspectAll,
			MipLevelCount: 1,
		})
		if err != nil {
			p.destroy(device)
			return nil, fmt.Errorf("create %s view: %w", label, err)
		}
		p.views[i] = view
	}

	slogger().Debug("accumulation pair created",
		"width", w, "height", h, "bytes", 2*uint64(w)*uint64(h)*16)
	return p, nil
}

// buffers returns the views of both images, A first.
func (p *accumulationPair) buffers() [2]hal.TextureView {
	return p.views
}

// transitions returns the barriers that make history readable as a sampled
// texture and target writable as storage for a frame of the given parity.
// Both barriers are always emitted: the history image was written by the
// previous frame and the target image was sampled by it.
func (p *accumulationPair) transitions(parity Parity) []hal.TextureBarrier {
	history, target := parity.History(), parity.Target()
	return []hal.TextureBarrier{
		{
			Texture: p.textures[history],
			Usage: hal.TextureUsageTransition{
				OldUsage: p.usage[history],
				NewUsage: gputypes.TextureUsageTextureBinding,
			},
		},
		{
			Texture: p.textures[target],
			Usage: hal.TextureUsageTransition{
				OldUsage: p.usage[target],
				NewUsage: gputypes.TextureUsageStorageBinding,
			},
		},
	}
}

// commit records the usages set by transitions once the frame has been
// submitted. A frame that never reached the queue leaves usage unchanged.
func (p *accumulationPair) commit(parity Parity) {
	p.usage[parity.History()] = gputypes.TextureUsageTextureBinding
	p.usage[parity.Target()] = gputypes.TextureUsageStorageBinding
}

// destroy releases views before textures. Safe to call more than once.
func (p *accumulationPair) destroy(device hal.Device) {
	for i := len(p.views) - 1; i >= 0; i-- {
		if p.views[i] != nil {
			device.DestroyTextureView(p.views[i])
			p.views[i] = nil
		}
		if p.textures[i] != nil {
			device.DestroyTexture(p.textures[i])
			p.textures[i] = nil
		}
	}
}
