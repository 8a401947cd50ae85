package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/sprite.wgsl
var spriteShaderSource string

// instanceStride is the byte stride per sprite instance.
// Layout per instance:
//
//	transform col 0 (vec3<f32>) = 12 bytes (location 1)
//	transform col 1 (vec3<f32>) = 12 bytes (location 2)
//	transform col 2 (vec3<f32>) = 12 bytes (location 3)
//	origin (vec2<f32>)          = 8 bytes  (location 4), normalized to the sheet
//	size (vec2<f32>)            = 8 bytes  (location 5), normalized to the sheet
//	z (f32)                     = 4 bytes  (location 6)
//	id (u32)                    = 4 bytes  (location 7)
//	tint (vec4<f32>)            = 16 bytes (location 8)
//
// Total = 76 bytes per instance.
const instanceStride = 76

// quadVertexStride is the byte stride per unit quad vertex (vec2<f32>).
const quadVertexStride = 8

// uniformSize is the size of the 4x4 scale transform uniform.
const uniformSize = 64

// quadIndexCount is the index count of the two-triangle unit quad.
const quadIndexCount = 6

// spritePipelines holds the GPU objects shared by the color and id passes:
// one shader module, one bind group layout (sampler + sheet texture +
// scale uniform), the unit quad, and the two render pipelines.
type spritePipelines struct {
	device hal.Device
	queue  hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	color      hal.RenderPipeline
	id         hal.RenderPipeline

	sampler    hal.Sampler
	vertexBuf  hal.Buffer
	indexBuf   hal.Buffer
	uniformBuf hal.Buffer
}

// create builds every pipeline object. On error, everything already
// created is destroyed.
func (p *spritePipelines) create(device hal.Device, queue hal.Queue) error {
	p.device = device
	p.queue = queue
	if err := p.createInner(); err != nil {
		p.destroy()
		return err
	}
	return nil
}

// compileShader compiles WGSL to SPIR-V 32-bit words through naga.
func compileShader(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, err
	}
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}

func (p *spritePipelines) createInner() error {
	if spriteShaderSource == "" {
		return fmt.Errorf("sprite shader source is empty")
	}

	spirv, err := compileShader(spriteShaderSource)
	if err != nil {
		return fmt.Errorf("compile sprite shader: %w", err)
	}
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "sprite_shader",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create sprite shader module: %w", err)
	}
	p.shader = shader

	// Bind group layout:
	//   Binding 0: nearest sampler (fragment)
	//   Binding 1: sprite sheet texture (fragment)
	//   Binding 2: scale transform uniform (vertex+fragment)
	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "sprite_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create sprite bind layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "sprite_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create sprite pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	// Pixel-art sampling: nearest neighbor, clamp to edge.
	sampler, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "sprite_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return fmt.Errorf("create sprite sampler: %w", err)
	}
	p.sampler = sampler

	if err := p.createQuadBuffers(); err != nil {
		return err
	}

	uniformBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sprite_uniform",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	p.uniformBuf = uniformBuf

	premulBlend := gputypes.BlendStatePremultiplied()
	color, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "sprite_color_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    spriteVertexLayouts(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatBGRA8Unorm,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		DepthStencil: spriteDepthState(),
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
		return fmt.Errorf("create color pipeline: %w", err)
	}
	p.color = color

	// The id pass writes raw sprite ids: integer target, no blending.
	id, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "sprite_id_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    spriteVertexLayouts(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_id",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatR32Uint,
					Blend:     nil,
					WriteMask: gputypes.ColorWriteMaskRed,
				},
			},
		},
		DepthStencil: spriteDepthState(),
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
		return fmt.Errorf("create id pipeline: %w", err)
	}
	p.id = id

	return nil
}

// createQuadBuffers uploads the unit quad: four corners and two
// counterclockwise triangles.
func (p *spritePipelines) createQuadBuffers() error {
	verts := [8]float32{
		0, 1,
		0, 0,
		1, 0,
		1, 1,
	}
	vertexData := make([]byte, len(verts)*4)
	for i, v := range verts {
		binary.LittleEndian.PutUint32(vertexData[i*4:], math.Float32bits(v))
	}

	vertexBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sprite_quad_verts",
		Size:  uint64(len(vertexData)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create quad vertex buffer: %w", err)
	}
	p.vertexBuf = vertexBuf
	p.queue.WriteBuffer(vertexBuf, 0, vertexData)

	indices := [quadIndexCount]uint16{0, 2, 1, 0, 3, 2}
	indexData := make([]byte, len(indices)*2)
	for i, ix := range indices {
		binary.LittleEndian.PutUint16(indexData[i*2:], ix)
	}

	indexBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sprite_quad_indices",
		Size:  uint64(len(indexData)),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create quad index buffer: %w", err)
	}
	p.indexBuf = indexBuf
	p.queue.WriteBuffer(indexBuf, 0, indexData)

	return nil
}

// destroy releases all pipeline resources in reverse creation order.
func (p *spritePipelines) destroy() {
	if p.device == nil {
		return
	}
	if p.id != nil {
		p.device.DestroyRenderPipeline(p.id)
		p.id = nil
	}
	if p.color != nil {
		p.device.DestroyRenderPipeline(p.color)
		p.color = nil
	}
	if p.uniformBuf != nil {
		p.device.DestroyBuffer(p.uniformBuf)
		p.uniformBuf = nil
	}
	if p.indexBuf != nil {
		p.device.DestroyBuffer(p.indexBuf)
		p.indexBuf = nil
	}
	if p.vertexBuf != nil {
		p.device.DestroyBuffer(p.vertexBuf)
		p.vertexBuf = nil
	}
	if p.sampler != nil {
		p.device.DestroySampler(p.sampler)
		p.sampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// spriteDepthState returns the Less-with-write depth state both passes use.
// The stencil faces are inert.
func spriteDepthState() *hal.DepthStencilState {
	return &hal.DepthStencilState{
		Format:            gputypes.TextureFormatDepth32Float,
		DepthWriteEnabled: true,
		DepthCompare:      gputypes.CompareFunctionLess,
		StencilFront: hal.StencilFaceState{
			Compare:     gputypes.CompareFunctionAlways,
			FailOp:      hal.StencilOperationKeep,
			DepthFailOp: hal.StencilOperationKeep,
			PassOp:      hal.StencilOperationKeep,
		},
		StencilBack: hal.StencilFaceState{
			Compare:     gputypes.CompareFunctionAlways,
			FailOp:      hal.StencilOperationKeep,
			DepthFailOp: hal.StencilOperationKeep,
			PassOp:      hal.StencilOperationKeep,
		},
		StencilReadMask:  0x00,
		StencilWriteMask: 0x00,
	}
}

// spriteVertexLayouts returns the two vertex buffer layouts: slot 0 is the
// per-vertex unit quad corner, slot 1 the per-instance sprite record.
func spriteVertexLayouts() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // corner
			},
		},
		{
			ArrayStride: instanceStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 1},   // transform col 0
				{Format: gputypes.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 2},  // transform col 1
				{Format: gputypes.VertexFormatFloat32x3, Offset: 24, ShaderLocation: 3},  // transform col 2
				{Format: gputypes.VertexFormatFloat32x2, Offset: 36, ShaderLocation: 4},  // origin
				{Format: gputypes.VertexFormatFloat32x2, Offset: 44, ShaderLocation: 5},  // size
				{Format: gputypes.VertexFormatFloat32, Offset: 52, ShaderLocation: 6},    // z
				{Format: gputypes.VertexFormatUint32, Offset: 56, ShaderLocation: 7},     // id
				{Format: gputypes.VertexFormatFloat32x4, Offset: 60, ShaderLocation: 8},  // tint
			},
		},
	}
}
