package sprite

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"time"

	// Sprite sheets arrive as encoded bytes; register the common formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/sprite/internal/gpu"
)

// Errors returned by Engine operations.
var (
	// ErrTextureDecode wraps the image decode failure from AddTexture.
	// The registry is unchanged when it is returned.
	ErrTextureDecode = errors.New("sprite: texture decode failed")

	// ErrUnknownLayer is returned by the redraw calls when a sprite
	// references a layer index that was never registered. Nothing is
	// drawn.
	ErrUnknownLayer = gpu.ErrUnknownLayer

	// ErrBufferMap is returned when the id readback fails to map. In
	// RedrawWithIDs the color pass has already run and is not rolled
	// back.
	ErrBufferMap = gpu.ErrBufferMap
)

// Engine is the rendering engine: it owns the GPU device and queue, the
// color and id pipelines, the window-sized render targets, and the sprite
// sheet registry. Create one per window.
//
// Engine methods are synchronous and must be driven from a single logical
// render thread; frames are strictly sequential. The only internal async
// boundary is the id readback, which blocks until complete.
type Engine struct {
	r                  *gpu.Renderer
	logicalW, logicalH int
}

// NewEngine creates an engine with its own GPU device for a logical
// resolution of width x height pixels. Failure to acquire a device is
// fatal: the error is returned and no engine exists.
func NewEngine(width, height int, opts ...Option) (*Engine, error) {
	o := applyOptions(width, height, opts)
	r, err := gpu.New(uint32(width), uint32(height), uint32(o.windowW), uint32(o.windowH))
	if err != nil {
		return nil, fmt.Errorf("sprite: %w", err)
	}
	return &Engine{r: r, logicalW: width, logicalH: height}, nil
}

// NewEngineWithDevice creates an engine on a GPU device shared with a host
// application, e.g. a gogpu app. The provider must additionally expose
// HalDevice() any and HalQueue() any returning the underlying hal device
// and queue; the device outlives the engine.
func NewEngineWithDevice(provider gpucontext.DeviceProvider, width, height int, opts ...Option) (*Engine, error) {
	o := applyOptions(width, height, opts)
	r, err := gpu.NewWithDevice(provider, uint32(width), uint32(height), uint32(o.windowW), uint32(o.windowH))
	if err != nil {
		return nil, fmt.Errorf("sprite: %w", err)
	}
	return &Engine{r: r, logicalW: width, logicalH: height}, nil
}

// AddTexture decodes an encoded image (png, jpeg, gif, bmp, tiff, webp),
// converts it to premultiplied RGBA, uploads it, and registers it as the
// next sprite sheet layer. Layer indices count up from 0 in registration
// order and are never reused. On decode failure nothing is registered.
func (e *Engine) AddTexture(data []byte, label string) (int, error) {
	img, err := decodeSheet(data, label)
	if err != nil {
		return 0, err
	}
	b := img.Bounds()
	return e.r.AddTexture(img.Pix, uint32(b.Dx()), uint32(b.Dy()), label)
}

// decodeSheet decodes encoded image bytes into premultiplied RGBA pixels
// at origin (0, 0). The color pipeline blends premultiplied, so texel RGB
// must already be attenuated by alpha when it reaches the GPU.
func decodeSheet(data []byte, label string) (*image.RGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrTextureDecode, label, err)
	}
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || b.Min != image.Pt(0, 0) {
		converted := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Draw(converted, converted.Bounds(), img, b.Min, xdraw.Src)
		rgba = converted
	}
	return rgba, nil
}

// AddTextureRaw registers a sheet from raw premultiplied-RGBA pixels, the
// same representation AddTexture uploads. The height is len(pix)/4/width,
// which must divide evenly.
func (e *Engine) AddTextureRaw(pix []byte, width int, label string) (int, error) {
	if width <= 0 || len(pix)%(4*width) != 0 {
		return 0, fmt.Errorf("%w: %q: %d bytes is not RGBA rows of width %d",
			ErrTextureDecode, label, len(pix), width)
	}
	height := len(pix) / 4 / width
	return e.r.AddTexture(pix, uint32(width), uint32(height), label)
}

// TextureCount returns the number of registered sheet layers.
func (e *Engine) TextureCount() int { return e.r.TextureCount() }

// Redraw composites the sprites into the color target and returns the
// frame's wall time. An empty list is valid and clears the screen.
func (e *Engine) Redraw(sprites []Sprite) (time.Duration, error) {
	return e.r.RenderColor(toInstances(sprites))
}

// RedrawIDs runs only the id pass and returns the resulting pick buffer.
// The color target is untouched.
func (e *Engine) RedrawIDs(sprites []Sprite) (*PickBuffer, error) {
	pd, err := e.r.RenderIDs(toInstances(sprites))
	if err != nil {
		return nil, err
	}
	return pickBufferFrom(pd), nil
}

// RedrawWithIDs composites the color frame and the id pass from a single
// sort and a single instance upload, then returns the pick buffer. This is
// the normal per-frame call for interactive applications.
func (e *Engine) RedrawWithIDs(sprites []Sprite) (*PickBuffer, error) {
	pd, err := e.r.RenderBoth(toInstances(sprites))
	if err != nil {
		return nil, err
	}
	return pickBufferFrom(pd), nil
}

// HandleResize recreates the render targets and readback buffer for the
// new window size. Call it for every size change before the next redraw;
// rendering between a resize event and HandleResize is a contract
// violation and may produce frames at the stale size.
func (e *Engine) HandleResize(width, height int) error {
	return e.r.Resize(uint32(width), uint32(height))
}

// Size returns the current window target size in pixels.
func (e *Engine) Size() (int, int) {
	w, h := e.r.Size()
	return int(w), int(h)
}

// LogicalSize returns the logical resolution the engine letterboxes into
// the window.
func (e *Engine) LogicalSize() (int, int) {
	return e.logicalW, e.logicalH
}

// Close releases all GPU resources. The engine must not be used after.
func (e *Engine) Close() {
	e.r.Destroy()
}

// toInstances converts sprites to the packed-instance form the GPU layer
// consumes. Order is preserved; sorting happens downstream.
func toInstances(sprites []Sprite) []gpu.Instance {
	out := make([]gpu.Instance, len(sprites))
	for i, s := range sprites {
		out[i] = gpu.Instance{
			Transform: [9]float32(s.Transform),
			OriginPx:  [2]uint32{uint32(s.Origin.X), uint32(s.Origin.Y)},
			SizePx:    [2]uint32{uint32(s.Size.X), uint32(s.Size.Y)},
			Z:         s.Z,
			ID:        uint32(s.ID),
			Tint:      [4]float32{s.Tint.R, s.Tint.G, s.Tint.B, s.Tint.A},
			Layer:     s.Layer,
		}
	}
	return out
}

func pickBufferFrom(pd *gpu.PickData) *PickBuffer {
	ids := make([]ID, len(pd.IDs))
	for i, v := range pd.IDs {
		ids[i] = ID(v)
	}
	return &PickBuffer{
		IDs:          ids,
		BufferWidth:  pd.BufferWidth,
		LogicalWidth: pd.LogicalWidth,
	}
}
