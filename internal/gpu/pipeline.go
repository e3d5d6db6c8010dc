package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Kernel bind group slots.
const (
	bindingUniforms = 0
	bindingHistory  = 1
	bindingTarget   = 2
)

// kernelPipeline owns the shader module, layouts and render pipeline that
// run the kernel over the full image.
type kernelPipeline struct {
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

// kernelBindLayoutEntries describes the kernel's group 0.
func kernelBindLayoutEntries() []gputypes.BindGroupLayoutEntry {
	return []gputypes.BindGroupLayoutEntry{
		{
			Binding:    bindingUniforms,
			Visibility: gputypes.ShaderStageFragment,
			Buffer: &gputypes.BufferBindingLayout{
				Type:             gputypes.BufferBindingTypeUniform,
				HasDynamicOffset: true,
				MinBindingSize:   FrameUniformsSize,
			},
		},
		{
			Binding:    bindingHistory,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeUnfilterableFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		},
		{
			Binding:    bindingTarget,
			Visibility: gputypes.ShaderStageFragment,
			StorageTexture: &gputypes.StorageTextureBindingLayout{
				Access:        gputypes.StorageTextureAccessWriteOnly,
				Format:        AccumulationFormat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		},
	}
}

func newKernelPipeline(device hal.Device, format gputypes.TextureFormat, source string) (*kernelPipeline, error) { //nolint:funlen // GPU pipeline descriptors are inherently verbose
	p := &kernelPipeline{}

	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "path_tracer_kernel",
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		return nil, fmt.Errorf("compile path tracer kernel: %w", err)
	}
	p.shader = shader

	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "path_tracer_bind_layout",
		Entries: kernelBindLayoutEntries(),
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "path_tracer_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "path_tracer_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: KernelVertexEntry,
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: KernelFragmentEntry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.destroy(device)
		return nil, fmt.Errorf("create path tracer pipeline: %w", err)
	}
	p.pipeline = pipeline

	return p, nil
}

// createBindGroups builds one bind group per parity. Group i reads
// buffer i as history and writes buffer 1-i as target, so the two groups
// always hold the images in opposite roles. The uniform binding covers one
// ring slot and is positioned with a dynamic offset at draw time.
func (p *kernelPipeline) createBindGroups(device hal.Device, uniforms hal.Buffer, pair *accumulationPair) ([2]hal.BindGroup, error) {
	var groups [2]hal.BindGroup
	views := pair.buffers()
	labels := [2]string{"path_tracer_bind_group_a", "path_tracer_bind_group_b"}

	for _, parity := range []Parity{BufferAIsHistory, BufferBIsHistory} {
		bg, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  labels[parity],
			Layout: p.bindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: bindingUniforms, Resource: gputypes.BufferBinding{
					Buffer: uniforms.NativeHandle(), Offset: 0, Size: FrameUniformsSize,
				}},
				{Binding: bindingHistory, Resource: gputypes.TextureViewBinding{
					TextureView: views[parity.History()].NativeHandle(),
				}},
				{Binding: bindingTarget, Resource: gputypes.TextureViewBinding{
					TextureView: views[parity.Target()].NativeHandle(),
				}},
			},
		})
		if err != nil {
			for _, g := range groups {
				if g != nil {
					device.DestroyBindGroup(g)
				}
			}
			return [2]hal.BindGroup{}, fmt.Errorf("create %s: %w", labels[parity], err)
		}
		groups[parity] = bg
	}
	return groups, nil
}

// destroy releases resources in reverse creation order.
func (p *kernelPipeline) destroy(device hal.Device) {
	if p.pipeline != nil {
		device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
