package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// layerTexture is one registered sprite sheet: the GPU image, its view,
// the bind group the draw loop binds for runs on this layer, and the pixel
// dimensions sprites normalize their source rects against.
//
// Layers are immutable once registered and their indices are never reused.
type layerTexture struct {
	tex       hal.Texture
	view      hal.TextureView
	bindGroup hal.BindGroup
	width     uint32
	height    uint32
}

func (l *layerTexture) destroy(device hal.Device) {
	if l.bindGroup != nil {
		device.DestroyBindGroup(l.bindGroup)
		l.bindGroup = nil
	}
	if l.view != nil {
		device.DestroyTextureView(l.view)
		l.view = nil
	}
	if l.tex != nil {
		device.DestroyTexture(l.tex)
		l.tex = nil
	}
}

// AddTexture uploads a premultiplied-RGBA sprite sheet and registers it as
// the next layer. pix must hold width*height*4 bytes. Returns the layer
// index, counting up from 0 in registration order. On error nothing is
// registered.
func (r *Renderer) AddTexture(pix []byte, width, height uint32, label string) (int, error) {
	if width == 0 || height == 0 || uint64(len(pix)) != uint64(width)*uint64(height)*4 {
		return 0, fmt.Errorf("gpu: texture %q: %dx%d does not match %d bytes", label, width, height, len(pix))
	}

	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("create texture %q: %w", label, err)
	}

	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		r.device.DestroyTexture(tex)
		return 0, fmt.Errorf("create texture view %q: %w", label, err)
	}

	r.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		pix,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: width * 4, RowsPerImage: height},
		&hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	)

	bindGroup, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_bind",
		Layout: r.pipelines.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.SamplerBinding{Sampler: r.pipelines.sampler.NativeHandle()}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			{Binding: 2, Resource: gputypes.BufferBinding{
				Buffer: r.pipelines.uniformBuf.NativeHandle(), Offset: 0, Size: uniformSize,
			}},
		},
	})
	if err != nil {
		r.device.DestroyTextureView(view)
		r.device.DestroyTexture(tex)
		return 0, fmt.Errorf("create bind group %q: %w", label, err)
	}

	r.layers = append(r.layers, layerTexture{
		tex:       tex,
		view:      view,
		bindGroup: bindGroup,
		width:     width,
		height:    height,
	})
	idx := len(r.layers) - 1
	slogger().Info("registered sprite sheet", "layer", idx, "label", label, "width", width, "height", height)
	return idx, nil
}

// TextureCount returns the number of registered layers.
func (r *Renderer) TextureCount() int { return len(r.layers) }

// TextureSize returns the pixel dimensions of a layer.
func (r *Renderer) TextureSize(layer int) (uint32, uint32, bool) {
	if layer < 0 || layer >= len(r.layers) {
		return 0, 0, false
	}
	return r.layers[layer].width, r.layers[layer].height, true
}
