package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Common errors returned by the renderer.
var (
	// ErrNoBackend is returned when no wgpu backend is compiled in.
	ErrNoBackend = errors.New("gpu: no backend available")

	// ErrNoAdapter is returned when no GPU adapter is found.
	ErrNoAdapter = errors.New("gpu: no adapters found")

	// ErrUnknownLayer is returned when a sprite references a texture
	// layer that was never registered.
	ErrUnknownLayer = errors.New("gpu: unknown texture layer")

	// ErrBufferMap is returned when mapping the id readback buffer fails
	// after submission. The color pass, if any, has already completed and
	// is not rolled back.
	ErrBufferMap = errors.New("gpu: id buffer map failed")

	// ErrSharedDevice is returned when a device provider does not expose
	// usable HAL handles.
	ErrSharedDevice = errors.New("gpu: provider does not expose HAL device")
)

// Renderer owns the GPU device and everything needed to composite sprites:
// both pipelines, the unit quad, the shared uniform, the layer texture
// registry, and the window-sized render targets.
//
// A Renderer drives one logical render thread. Calls are synchronous and
// frames are strictly sequential; the only asynchronous boundary is the id
// readback, which blocks internally until mapped.
type Renderer struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	// externalDevice is set when the device came from a provider and
	// must not be destroyed with the renderer.
	externalDevice bool

	pipelines spritePipelines
	layers    []layerTexture
	targets   targetSet
	readback  readbackBuffer

	// logicalW/H is the fixed logical resolution the scale uniform
	// letterboxes into the window. windowW/H tracks the surface size.
	logicalW, logicalH uint32
	windowW, windowH   uint32
}

// New creates a renderer with its own device. logicalW/H is the logical
// resolution, windowW/H the initial window size in physical pixels.
//
// Device acquisition failure is fatal: the error is returned and no
// renderer exists.
func New(logicalW, logicalH, windowW, windowH uint32) (*Renderer, error) {
	r := &Renderer{
		logicalW: logicalW,
		logicalH: logicalH,
		windowW:  windowW,
		windowH:  windowH,
	}
	if err := r.initDevice(); err != nil {
		return nil, err
	}
	if err := r.initResources(); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

// NewWithDevice creates a renderer on a shared device from a host
// application. The provider must expose HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue (the gpucontext HalProvider shape).
// The shared device is not destroyed when the renderer is.
func NewWithDevice(provider any, logicalW, logicalH, windowW, windowH uint32) (*Renderer, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrSharedDevice
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrSharedDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrSharedDevice)
	}

	r := &Renderer{
		device:         device,
		queue:          queue,
		externalDevice: true,
		logicalW:       logicalW,
		logicalH:       logicalH,
		windowW:        windowW,
		windowH:        windowH,
	}
	if err := r.initResources(); err != nil {
		r.Destroy()
		return nil, err
	}
	slogger().Info("sprite renderer on shared device")
	return r, nil
}

// initDevice acquires a backend, instance, adapter, and device.
// Discrete GPUs are preferred, then integrated, then whatever is first.
func (r *Renderer) initDevice() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return ErrNoBackend
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	r.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		for i := range adapters {
			if adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
				selected = &adapters[i]
				break
			}
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	r.device = openDev.Device
	r.queue = openDev.Queue
	slogger().Info("sprite renderer initialized", "adapter", selected.Info.Name)
	return nil
}

// initResources creates the pipelines, quad and uniform buffers, sampler,
// render targets, and the id readback buffer.
func (r *Renderer) initResources() error {
	if err := r.pipelines.create(r.device, r.queue); err != nil {
		return fmt.Errorf("create pipelines: %w", err)
	}
	if err := r.targets.ensure(r.device, r.windowW, r.windowH); err != nil {
		return fmt.Errorf("create targets: %w", err)
	}
	if err := r.readback.ensure(r.device, r.windowW, r.windowH); err != nil {
		return fmt.Errorf("create readback buffer: %w", err)
	}
	r.writeScaleUniform()
	return nil
}

// Resize recreates the window-sized render targets and the id readback
// buffer for the new size and refreshes the scale uniform. The caller must
// not render between learning of a resize and calling Resize.
func (r *Renderer) Resize(windowW, windowH uint32) error {
	r.windowW = windowW
	r.windowH = windowH
	if err := r.targets.ensure(r.device, windowW, windowH); err != nil {
		return fmt.Errorf("resize targets: %w", err)
	}
	if err := r.readback.ensure(r.device, windowW, windowH); err != nil {
		return fmt.Errorf("resize readback buffer: %w", err)
	}
	r.writeScaleUniform()
	slogger().Debug("resized", "width", windowW, "height", windowH)
	return nil
}

// writeScaleUniform uploads the logical-to-window scale transform.
func (r *Renderer) writeScaleUniform() {
	data := scaleTransform(r.logicalW, r.logicalH, r.windowW, r.windowH)
	r.queue.WriteBuffer(r.pipelines.uniformBuf, 0, data[:])
}

// Size returns the current window target size in pixels.
func (r *Renderer) Size() (uint32, uint32) {
	return r.windowW, r.windowH
}

// LogicalSize returns the fixed logical resolution.
func (r *Renderer) LogicalSize() (uint32, uint32) {
	return r.logicalW, r.logicalH
}

// ColorTargetView returns the view of the color target for the windowing
// host to present. The renderer retains ownership.
func (r *Renderer) ColorTargetView() hal.TextureView {
	return r.targets.colorView
}

// Destroy releases all GPU resources in reverse creation order. A shared
// device is left alone. Safe to call more than once.
func (r *Renderer) Destroy() {
	if r.device == nil {
		return
	}
	r.readback.destroy(r.device)
	r.targets.destroy(r.device)
	for i := range r.layers {
		r.layers[i].destroy(r.device)
	}
	r.layers = nil
	r.pipelines.destroy()
	if !r.externalDevice {
		r.device.Destroy()
	}
	r.device = nil
	r.queue = nil
	if r.instance != nil {
		r.instance.Destroy()
		r.instance = nil
	}
}
