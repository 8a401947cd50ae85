package gpu

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// copyPitchAlignment is the required BytesPerRow alignment for
// texture-to-buffer copies. With 4-byte id texels this pads rows to
// multiples of 64 pixels.
const copyPitchAlignment = 256

// pollInterval is how long a single poll step waits on the frame fence
// before giving the bridge loop a chance to observe completion.
const pollInterval = time.Millisecond

// alignedBytesPerRow returns width*4 rounded up to the copy alignment.
func alignedBytesPerRow(width uint32) uint32 {
	return (width*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

// mapRequest is one in-flight asynchronous read of the id buffer.
type mapRequest struct {
	fence    hal.Fence
	callback func([]byte, error)
}

// readbackBuffer owns the persistent staging buffer the id target is
// copied into. It is recreated on resize alongside the targets.
//
// Reads are asynchronous in the WebGPU style: mapAsync registers a
// callback, poll drives the pending read until the callback fires. The
// renderer bridges this to its synchronous contract with a one-shot
// channel and a blocking poll loop.
type readbackBuffer struct {
	buf         hal.Buffer
	size        uint64
	bytesPerRow uint32
	width       uint32
	height      uint32

	pending *mapRequest
}

// ensure creates or recreates the buffer for the given id target size.
func (rb *readbackBuffer) ensure(device hal.Device, w, h uint32) error {
	bpr := alignedBytesPerRow(w)
	size := uint64(bpr) * uint64(h)
	if rb.buf != nil && rb.size == size {
		rb.bytesPerRow = bpr
		rb.width = w
		rb.height = h
		return nil
	}
	rb.destroy(device)

	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sprite_id_readback",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create id readback buffer: %w", err)
	}
	rb.buf = buf
	rb.size = size
	rb.bytesPerRow = bpr
	rb.width = w
	rb.height = h
	return nil
}

func (rb *readbackBuffer) destroy(device hal.Device) {
	if rb.buf != nil {
		device.DestroyBuffer(rb.buf)
		rb.buf = nil
	}
	rb.size = 0
	rb.pending = nil
}

// mapAsync registers a read of the whole buffer. The callback fires from a
// later poll call, once the submission guarded by fence has completed.
func (rb *readbackBuffer) mapAsync(fence hal.Fence, callback func([]byte, error)) {
	rb.pending = &mapRequest{fence: fence, callback: callback}
}

// poll advances a pending read. Returns true once the read has completed
// (successfully or not) and the callback has fired.
func (rb *readbackBuffer) poll(device hal.Device, queue hal.Queue) bool {
	req := rb.pending
	if req == nil {
		return true
	}

	done, err := device.Wait(req.fence, 1, pollInterval)
	if err != nil {
		rb.pending = nil
		req.callback(nil, err)
		return true
	}
	if !done {
		return false
	}

	rb.pending = nil
	data := make([]byte, rb.size)
	if err := queue.ReadBuffer(rb.buf, 0, data); err != nil {
		req.callback(nil, err)
		return true
	}
	req.callback(data, nil)
	return true
}

// readIDs maps the readback buffer and blocks until the ids arrive.
//
// The map is asynchronous; this is the engine's one async boundary. The
// channel bridge keeps the WebGPU mapAsync callback shape between mapAsync
// and poll, so the pair can later serve callers that poll from their own
// event loop instead of blocking here. There is no timeout or cancellation:
// a frame's readback either completes or the wedged-device error surfaces
// through the poll.
func (r *Renderer) readIDs(fence hal.Fence) (*PickData, error) {
	type mapResult struct {
		data []byte
		err  error
	}
	done := make(chan mapResult, 1)

	r.readback.mapAsync(fence, func(data []byte, err error) {
		done <- mapResult{data: data, err: err}
	})

	for {
		select {
		case res := <-done:
			if res.err != nil {
				return nil, fmt.Errorf("%w: %v", ErrBufferMap, res.err)
			}
			return r.unpackIDs(res.data), nil
		default:
			r.readback.poll(r.device, r.queue)
		}
	}
}

// unpackIDs decodes the padded rows into a PickData. Padding columns are
// kept; the buffer width records the padded stride.
func (r *Renderer) unpackIDs(data []byte) *PickData {
	bufferWidth := int(r.readback.bytesPerRow / 4)
	ids := make([]uint32, len(data)/4)
	for i := range ids {
		ids[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return &PickData{
		IDs:          ids,
		BufferWidth:  bufferWidth,
		LogicalWidth: int(r.readback.width),
	}
}
