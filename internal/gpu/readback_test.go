package gpu

import (
	"encoding/binary"
	"testing"
)

func TestAlignedBytesPerRow(t *testing.T) {
	tests := []struct {
		name  string
		width uint32
		want  uint32
	}{
		{"aligned", 64, 256},
		{"one pixel", 1, 256},
		{"100 pixels", 100, 512},
		{"just under boundary", 63, 256},
		{"just over boundary", 65, 512},
		{"large aligned", 1024, 4096},
		{"1920 wide", 1920, 7680},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := alignedBytesPerRow(tt.width)
			if got != tt.want {
				t.Errorf("alignedBytesPerRow(%d) = %d, want %d", tt.width, got, tt.want)
			}
			if got%copyPitchAlignment != 0 {
				t.Errorf("alignedBytesPerRow(%d) = %d, not a multiple of %d",
					tt.width, got, copyPitchAlignment)
			}
		})
	}
}

func TestUnpackIDs(t *testing.T) {
	// 2 rows, 3 visible pixels, padded to 4 per row.
	r := &Renderer{}
	r.readback.bytesPerRow = 16
	r.readback.width = 3

	data := make([]byte, 32)
	binary.LittleEndian.PutUint32(data[0:], 1)
	binary.LittleEndian.PutUint32(data[8:], 3)
	binary.LittleEndian.PutUint32(data[20:], 5)

	pd := r.unpackIDs(data)
	if pd.BufferWidth != 4 {
		t.Errorf("BufferWidth = %d, want 4", pd.BufferWidth)
	}
	if pd.LogicalWidth != 3 {
		t.Errorf("LogicalWidth = %d, want 3", pd.LogicalWidth)
	}
	if len(pd.IDs) != 8 {
		t.Fatalf("len(IDs) = %d, want 8", len(pd.IDs))
	}
	want := []uint32{1, 0, 3, 0, 0, 5, 0, 0}
	for i := range want {
		if pd.IDs[i] != want[i] {
			t.Errorf("IDs[%d] = %d, want %d", i, pd.IDs[i], want[i])
		}
	}
}

func TestReadbackPollNoPending(t *testing.T) {
	var rb readbackBuffer
	if !rb.poll(nil, nil) {
		t.Error("poll with no pending request = false, want true")
	}
}
