package sprite

import "image"

// PickBuffer is the CPU-side result of an id pass: one ID per pixel,
// row-major, with each row padded out to the GPU's copy alignment. Index
// with window coordinates via At; padding pixels and pixels no sprite
// covered hold the zero ID.
//
// A PickBuffer is a snapshot. It is immutable and stays valid after later
// frames, resizes, or engine shutdown.
type PickBuffer struct {
	// IDs holds the padded rows.
	IDs []ID

	// BufferWidth is the padded row stride in pixels.
	BufferWidth int

	// LogicalWidth is the visible width in pixels. Columns at or beyond
	// LogicalWidth are alignment padding.
	LogicalWidth int
}

// BufferWidth returns logicalWidth rounded up to a multiple of alignPixels,
// the row stride the GPU requires for texture-to-buffer copies.
func BufferWidth(logicalWidth, alignPixels int) int {
	return (logicalWidth + alignPixels - 1) / alignPixels * alignPixels
}

// Contains reports whether pt addresses a visible pixel of the buffer.
func (b *PickBuffer) Contains(pt image.Point) bool {
	if b.BufferWidth == 0 {
		return false
	}
	return pt.X >= 0 && pt.X < b.LogicalWidth &&
		pt.Y >= 0 && pt.Y < len(b.IDs)/b.BufferWidth
}

// At returns the ID under the given position, given in fractional window
// coordinates as delivered by mouse events. Coordinates are floored to the
// containing pixel. Any out-of-range position returns the zero ID; At never
// fails, so callers can feed it raw cursor positions.
func (b *PickBuffer) At(x, y float64) ID {
	if x < 0 || y < 0 || b.BufferWidth == 0 {
		return 0
	}
	ix, iy := int(x), int(y)
	if ix >= b.LogicalWidth {
		return 0
	}
	i := ix + iy*b.BufferWidth
	if i >= len(b.IDs) {
		return 0
	}
	return b.IDs[i]
}

// Height returns the number of rows in the buffer.
func (b *PickBuffer) Height() int {
	if b.BufferWidth == 0 {
		return 0
	}
	return len(b.IDs) / b.BufferWidth
}
