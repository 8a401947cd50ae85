package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// fenceTimeout bounds a single GPU submission. This is not a frame budget,
// just a guard against a wedged device.
const fenceTimeout = 5 * time.Second

// Instance is one sprite ready for packing: the column-major affine
// transform, the source rect in sheet pixels, depth, pick id, tint, and
// the layer whose texture the run binds.
type Instance struct {
	Transform [9]float32
	OriginPx  [2]uint32
	SizePx    [2]uint32
	Z         float32
	ID        uint32
	Tint      [4]float32
	Layer     int
}

// PickData is the raw result of an id pass: padded rows of ids as they
// came off the GPU.
type PickData struct {
	IDs          []uint32
	BufferWidth  int
	LogicalWidth int
}

// layerRun is a maximal run of consecutive sorted instances sharing one
// layer, drawn with a single instanced call.
type layerRun struct {
	layer      int
	start, end int
}

// RenderColor draws the color pass and returns the frame's wall time.
func (r *Renderer) RenderColor(instances []Instance) (time.Duration, error) {
	start := time.Now()
	if _, err := r.renderFrame(instances, true, false); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

// RenderIDs draws only the id pass and reads the ids back.
func (r *Renderer) RenderIDs(instances []Instance) (*PickData, error) {
	return r.renderFrame(instances, false, true)
}

// RenderBoth draws the color and id passes from one sorted instance
// buffer in one submission, then reads the ids back.
func (r *Renderer) RenderBoth(instances []Instance) (*PickData, error) {
	return r.renderFrame(instances, true, true)
}

// renderFrame is the single frame path: validate, sort once, pack once,
// upload once, encode the requested passes, submit, and read back ids if
// the id pass ran. An empty instance list is valid and clears the targets.
func (r *Renderer) renderFrame(instances []Instance, doColor, doID bool) (*PickData, error) {
	if err := r.validateLayers(instances); err != nil {
		return nil, err
	}
	if doID {
		if n := zeroIDCount(instances); n > 0 {
			slogger().Debug("id pass includes zero-id sprites; they are invisible to picking", "count", n)
		}
	}

	sorted := sortInstances(instances)
	runs := layerRuns(sorted)
	packed := r.packInstances(sorted)

	var instBuf hal.Buffer
	if len(packed) > 0 {
		var err error
		instBuf, err = r.createAndUploadBuffer("sprite_instances", packed,
			gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if err != nil {
			return nil, fmt.Errorf("create instance buffer: %w", err)
		}
		defer r.device.DestroyBuffer(instBuf)
	}

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "sprite_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("sprite_frame"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	if doColor {
		r.encodePass(encoder, r.pipelines.color, r.targets.colorView, instBuf, runs)
	}
	if doID {
		r.encodePass(encoder, r.pipelines.id, r.targets.idView, instBuf, runs)
		r.encodeIDCopy(encoder)
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)

	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}

	if !doID {
		fenceOK, err := r.device.Wait(fence, 1, fenceTimeout)
		if err != nil || !fenceOK {
			return nil, fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
		}
		return nil, nil
	}

	return r.readIDs(fence)
}

// encodePass records one render pass: clear, then one instanced draw per
// same-layer run, binding that run's sheet. Depth clears to 1.0 with the
// Less test so lower z (nearer) wins regardless of draw order.
func (r *Renderer) encodePass(encoder hal.CommandEncoder, pipeline hal.RenderPipeline, view hal.TextureView, instBuf hal.Buffer, runs []layerRun) {
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "sprite_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:            r.targets.depthView,
			DepthLoadOp:     gputypes.LoadOpClear,
			DepthStoreOp:    gputypes.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})

	if instBuf != nil && len(runs) > 0 {
		rp.SetPipeline(pipeline)
		rp.SetVertexBuffer(0, r.pipelines.vertexBuf, 0)
		rp.SetVertexBuffer(1, instBuf, 0)
		rp.SetIndexBuffer(r.pipelines.indexBuf, gputypes.IndexFormatUint16, 0)
		for _, run := range runs {
			rp.SetBindGroup(0, r.layers[run.layer].bindGroup, nil)
			rp.DrawIndexed(quadIndexCount, uint32(run.end-run.start), 0, 0, uint32(run.start))
		}
	}

	rp.End()
}

// encodeIDCopy copies the id target into the readback buffer with the
// row stride padded to the copy alignment.
func (r *Renderer) encodeIDCopy(encoder hal.CommandEncoder) {
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.targets.idTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	encoder.CopyTextureToBuffer(r.targets.idTex, r.readback.buf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  r.readback.bytesPerRow,
			RowsPerImage: r.windowH,
		},
		TextureBase: hal.ImageCopyTexture{Texture: r.targets.idTex, MipLevel: 0},
		Size:        hal.Extent3D{Width: r.windowW, Height: r.windowH, DepthOrArrayLayers: 1},
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.targets.idTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})
}

// validateLayers rejects instances referencing unregistered layers before
// any GPU work happens.
func (r *Renderer) validateLayers(instances []Instance) error {
	for i := range instances {
		if instances[i].Layer < 0 || instances[i].Layer >= len(r.layers) {
			return fmt.Errorf("%w: instance %d references layer %d of %d",
				ErrUnknownLayer, i, instances[i].Layer, len(r.layers))
		}
	}
	return nil
}

// zeroIDCount counts instances carrying the reserved "no entity" id. Such
// sprites render normally but can never be picked, so the id path flags
// them at debug level.
func zeroIDCount(instances []Instance) int {
	n := 0
	for i := range instances {
		if instances[i].ID == 0 {
			n++
		}
	}
	return n
}

// sortInstances returns the instances ordered farthest first: z descending,
// then layer descending. The sort is stable, so instances with equal keys
// keep their submission order and frames are deterministic.
func sortInstances(instances []Instance) []Instance {
	sorted := make([]Instance, len(instances))
	copy(sorted, instances)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Z != sorted[j].Z {
			return sorted[i].Z > sorted[j].Z
		}
		return sorted[i].Layer > sorted[j].Layer
	})
	return sorted
}

// layerRuns partitions sorted instances into maximal runs sharing a layer.
func layerRuns(sorted []Instance) []layerRun {
	var runs []layerRun
	start := 0
	for start < len(sorted) {
		end := start + 1
		for end < len(sorted) && sorted[end].Layer == sorted[start].Layer {
			end++
		}
		runs = append(runs, layerRun{layer: sorted[start].Layer, start: start, end: end})
		start = end
	}
	return runs
}

// packInstances serializes sorted instances into the 76-byte wire records
// the instance buffer holds. Source rects are normalized against the pixel
// size of each instance's layer. Layers must be validated first.
func (r *Renderer) packInstances(sorted []Instance) []byte {
	if len(sorted) == 0 {
		return nil
	}
	data := make([]byte, len(sorted)*instanceStride)
	for i := range sorted {
		inst := &sorted[i]
		texW := float32(r.layers[inst.Layer].width)
		texH := float32(r.layers[inst.Layer].height)
		buf := data[i*instanceStride:]

		off := 0
		for _, v := range inst.Transform {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
			off += 4
		}
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(inst.OriginPx[0])/texW))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(float32(inst.OriginPx[1])/texH))
		binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(float32(inst.SizePx[0])/texW))
		binary.LittleEndian.PutUint32(buf[off+12:], math.Float32bits(float32(inst.SizePx[1])/texH))
		binary.LittleEndian.PutUint32(buf[off+16:], math.Float32bits(inst.Z))
		binary.LittleEndian.PutUint32(buf[off+20:], inst.ID)
		off += 24
		for _, v := range inst.Tint {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
			off += 4
		}
	}
	return data
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (r *Renderer) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	r.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}
