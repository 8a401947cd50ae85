package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// targetSet holds the window-sized render targets:
//   - color: BGRA8Unorm, what the host presents
//   - depth: Depth32Float, shared by both passes
//   - id: R32Uint, written by the id pass and copied out for picking
//
// On resize the whole set is recreated; partially created targets are
// destroyed on error.
type targetSet struct {
	colorTex  hal.Texture
	colorView hal.TextureView
	depthTex  hal.Texture
	depthView hal.TextureView
	idTex     hal.Texture
	idView    hal.TextureView
	width     uint32
	height    uint32
}

// ensure creates or recreates the targets if the requested dimensions
// differ from the current size. A matching existing set is a no-op.
func (ts *targetSet) ensure(device hal.Device, w, h uint32) error {
	if ts.width == w && ts.height == h && ts.colorTex != nil {
		return nil
	}
	ts.destroy(device)

	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	colorTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "sprite_color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create color target: %w", err)
	}
	ts.colorTex = colorTex

	colorView, err := device.CreateTextureView(colorTex, &hal.TextureViewDescriptor{
		Label: "sprite_color_view",
	})
	if err != nil {
		ts.destroy(device)
		return fmt.Errorf("create color view: %w", err)
	}
	ts.colorView = colorView

	depthTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "sprite_depth",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatDepth32Float,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		ts.destroy(device)
		return fmt.Errorf("create depth target: %w", err)
	}
	ts.depthTex = depthTex

	depthView, err := device.CreateTextureView(depthTex, &hal.TextureViewDescriptor{
		Label: "sprite_depth_view",
	})
	if err != nil {
		ts.destroy(device)
		return fmt.Errorf("create depth view: %w", err)
	}
	ts.depthView = depthView

	idTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "sprite_id",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatR32Uint,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		ts.destroy(device)
		return fmt.Errorf("create id target: %w", err)
	}
	ts.idTex = idTex

	idView, err := device.CreateTextureView(idTex, &hal.TextureViewDescriptor{
		Label: "sprite_id_view",
	})
	if err != nil {
		ts.destroy(device)
		return fmt.Errorf("create id view: %w", err)
	}
	ts.idView = idView

	ts.width = w
	ts.height = h
	return nil
}

// destroy releases all targets and resets dimensions.
func (ts *targetSet) destroy(device hal.Device) {
	if ts.idView != nil {
		device.DestroyTextureView(ts.idView)
		ts.idView = nil
	}
	if ts.idTex != nil {
		device.DestroyTexture(ts.idTex)
		ts.idTex = nil
	}
	if ts.depthView != nil {
		device.DestroyTextureView(ts.depthView)
		ts.depthView = nil
	}
	if ts.depthTex != nil {
		device.DestroyTexture(ts.depthTex)
		ts.depthTex = nil
	}
	if ts.colorView != nil {
		device.DestroyTextureView(ts.colorView)
		ts.colorView = nil
	}
	if ts.colorTex != nil {
		device.DestroyTexture(ts.colorTex)
		ts.colorTex = nil
	}
	ts.width = 0
	ts.height = 0
}
