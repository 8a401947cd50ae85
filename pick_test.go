package sprite

import (
	"image"
	"testing"
)

func TestBufferWidth(t *testing.T) {
	tests := []struct {
		name    string
		logical int
		align   int
		want    int
	}{
		{"already aligned", 128, 16, 128},
		{"round up", 100, 16, 112},
		{"one past", 129, 16, 144},
		{"one under", 127, 16, 128},
		{"tiny", 1, 64, 64},
		{"align 1", 37, 1, 37},
		{"zero width", 0, 16, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BufferWidth(tt.logical, tt.align); got != tt.want {
				t.Errorf("BufferWidth(%d, %d) = %d, want %d",
					tt.logical, tt.align, got, tt.want)
			}
		})
	}
}

// testPick is a 2-row buffer, 3 visible pixels per row, padded to 4.
func testPick() *PickBuffer {
	return &PickBuffer{
		IDs: []ID{
			1, 2, 3, 0,
			4, 5, 6, 0,
		},
		BufferWidth:  4,
		LogicalWidth: 3,
	}
}

func TestPickAt(t *testing.T) {
	b := testPick()
	tests := []struct {
		name string
		x, y float64
		want ID
	}{
		{"origin", 0, 0, 1},
		{"middle", 1, 1, 5},
		{"last visible", 2, 1, 6},
		{"fractional floors", 2.9, 0.9, 3},
		{"padding column", 3, 0, 0},
		{"past padding", 4, 0, 0},
		{"below last row", 0, 2, 0},
		{"negative x", -0.5, 0, 0},
		{"negative y", 0, -0.5, 0},
		{"far out", 1e6, 1e6, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.At(tt.x, tt.y); got != tt.want {
				t.Errorf("At(%v, %v) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestPickAtZeroID(t *testing.T) {
	// A covered pixel whose sprite carried the reserved zero id is
	// indistinguishable from empty space: both read as "no entity".
	b := &PickBuffer{IDs: []ID{0, 7}, BufferWidth: 2, LogicalWidth: 2}
	if got := b.At(0, 0); got != 0 {
		t.Errorf("At(0,0) = %d, want 0", got)
	}
	if got := b.At(1, 0); got != 7 {
		t.Errorf("At(1,0) = %d, want 7", got)
	}
}

func TestPickAtEmpty(t *testing.T) {
	var b PickBuffer
	if got := b.At(0, 0); got != 0 {
		t.Errorf("empty buffer At(0,0) = %d, want 0", got)
	}
	if b.Height() != 0 {
		t.Errorf("empty buffer Height() = %d, want 0", b.Height())
	}
}

func TestPickContains(t *testing.T) {
	b := testPick()
	tests := []struct {
		name string
		pt   image.Point
		want bool
	}{
		{"origin", image.Pt(0, 0), true},
		{"last visible", image.Pt(2, 1), true},
		{"padding", image.Pt(3, 0), false},
		{"below", image.Pt(0, 2), false},
		{"negative", image.Pt(-1, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Contains(tt.pt); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.pt, got, tt.want)
			}
		})
	}
}

func TestPickHeight(t *testing.T) {
	if got := testPick().Height(); got != 2 {
		t.Errorf("Height() = %d, want 2", got)
	}
}
