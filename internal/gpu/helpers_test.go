package gpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

var errInjected = errors.New("injected failure")

// taggedView is a texture view with a distinct native handle so bind group
// contents can be told apart.
type taggedView struct {
	handle    uintptr
	destroyed bool
}

func (v *taggedView) Destroy()              { v.destroyed = true }
func (v *taggedView) NativeHandle() uintptr { return v.handle }

// taggedBindGroup records the view handles a bind group was created with.
type taggedBindGroup struct {
	label   string
	history uintptr
	target  uintptr
	uniform gputypes.BufferBinding
}

func (*taggedBindGroup) Destroy() {}

// taggedTexture remembers its label so barriers can be attributed.
type taggedTexture struct {
	hal.Texture
	label string
}

// barrierRecord is one texture transition recorded by an encoder.
type barrierRecord struct {
	label    string
	from, to gputypes.TextureUsage
}

// passRecord is what one render pass recorded.
type passRecord struct {
	label      string
	target     hal.TextureView
	clear      gputypes.Color
	loadOp     gputypes.LoadOp
	group      *taggedBindGroup
	offsets    []uint32
	vertices   uint32
	pipelineOK bool
	ended      bool
}

// spyDevice wraps the noop device, tags texture views and bind groups, and
// records every render pass. Setting failOn makes the named call fail.
type spyDevice struct {
	hal.Device

	failOn string

	nextHandle uintptr
	views      []*taggedView
	groups     []*taggedBindGroup
	passes     []*passRecord
	barriers   [][]barrierRecord

	destroyedGroups int
	freedCmdBufs    int
	waitIdle        int
}

func newSpyDevice(inner hal.Device) *spyDevice {
	return &spyDevice{Device: inner, nextHandle: 100}
}

func (d *spyDevice) CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error) {
	if d.failOn == "texture:"+desc.Label {
		return nil, errInjected
	}
	tex, err := d.Device.CreateTexture(desc)
	if err != nil {
		return nil, err
	}
	return &taggedTexture{Texture: tex, label: desc.Label}, nil
}

func (d *spyDevice) CreateTextureView(tex hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error) {
	if d.failOn == "view:"+desc.Label {
		return nil, errInjected
	}
	d.nextHandle++
	v := &taggedView{handle: d.nextHandle}
	d.views = append(d.views, v)
	return v, nil
}

func (d *spyDevice) DestroyTextureView(view hal.TextureView) {
	view.Destroy()
}

func (d *spyDevice) CreateBindGroup(desc *hal.BindGroupDescriptor) (hal.BindGroup, error) {
	if d.failOn == "bindgroup:"+desc.Label {
		return nil, errInjected
	}
	g := &taggedBindGroup{label: desc.Label}
	for _, e := range desc.Entries {
		switch r := e.Resource.(type) {
		case gputypes.TextureViewBinding:
			switch e.Binding {
			case bindingHistory:
				g.history = r.TextureView
			case bindingTarget:
				g.target = r.TextureView
			}
		case gputypes.BufferBinding:
			g.uniform = r
		}
	}
	d.groups = append(d.groups, g)
	return g, nil
}

func (d *spyDevice) DestroyBindGroup(hal.BindGroup) {
	d.destroyedGroups++
}

func (d *spyDevice) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	if d.failOn == "pipeline" {
		return nil, errInjected
	}
	return d.Device.CreateRenderPipeline(desc)
}

func (d *spyDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	if d.failOn == "encoder" {
		return nil, errInjected
	}
	enc, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &spyEncoder{CommandEncoder: enc, dev: d}, nil
}

func (d *spyDevice) FreeCommandBuffer(cb hal.CommandBuffer) {
	d.freedCmdBufs++
	d.Device.FreeCommandBuffer(cb)
}

func (d *spyDevice) WaitIdle() error {
	d.waitIdle++
	return d.Device.WaitIdle()
}

// lastPass returns the most recent render pass or fails the test.
func (d *spyDevice) lastPass(t *testing.T) *passRecord {
	t.Helper()
	if len(d.passes) == 0 {
		t.Fatal("no render pass recorded")
	}
	return d.passes[len(d.passes)-1]
}

type spyEncoder struct {
	hal.CommandEncoder
	dev *spyDevice
}

func (e *spyEncoder) BeginRenderPass(desc *hal.RenderPassDescriptor) hal.RenderPassEncoder {
	rec := &passRecord{label: desc.Label}
	if len(desc.ColorAttachments) > 0 {
		ca := desc.ColorAttachments[0]
		rec.target = ca.View
		rec.clear = ca.ClearValue
		rec.loadOp = ca.LoadOp
	}
	e.dev.passes = append(e.dev.passes, rec)
	return &spyPass{RenderPassEncoder: e.CommandEncoder.BeginRenderPass(desc), rec: rec}
}

func (e *spyEncoder) TransitionTextures(barriers []hal.TextureBarrier) {
	recs := make([]barrierRecord, 0, len(barriers))
	for _, b := range barriers {
		rec := barrierRecord{from: b.Usage.OldUsage, to: b.Usage.NewUsage}
		if tt, ok := b.Texture.(*taggedTexture); ok {
			rec.label = tt.label
		}
		recs = append(recs, rec)
	}
	e.dev.barriers = append(e.dev.barriers, recs)
	e.CommandEncoder.TransitionTextures(barriers)
}

type spyPass struct {
	hal.RenderPassEncoder
	rec *passRecord
}

func (p *spyPass) SetPipeline(pipeline hal.RenderPipeline) {
	p.rec.pipelineOK = pipeline != nil
	p.RenderPassEncoder.SetPipeline(pipeline)
}

func (p *spyPass) SetBindGroup(index uint32, group hal.BindGroup, offsets []uint32) {
	if g, ok := group.(*taggedBindGroup); ok && index == 0 {
		p.rec.group = g
	}
	p.rec.offsets = append([]uint32(nil), offsets...)
}

func (p *spyPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.rec.vertices = vertexCount
	p.RenderPassEncoder.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *spyPass) End() {
	p.rec.ended = true
	p.RenderPassEncoder.End()
}

// failingQueue fails Submit once failSubmit is set.
type failingQueue struct {
	hal.Queue
	failSubmit bool
}

func (q *failingQueue) Submit(cbs []hal.CommandBuffer) (uint64, error) {
	if q.failSubmit {
		return 0, errInjected
	}
	return q.Queue.Submit(cbs)
}
