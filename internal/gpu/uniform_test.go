package gpu

import (
	"encoding/binary"
	"math"
	"testing"
)

func uniformMatrix(b [uniformSize]byte) [16]float32 {
	var m [16]float32
	for i := range m {
		m[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return m
}

func TestScaleTransformIdentity(t *testing.T) {
	m := uniformMatrix(scaleTransform(640, 480, 640, 480))
	want := [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	if m != want {
		t.Errorf("scaleTransform(equal) = %v, want identity", m)
	}
}

func TestScaleTransform(t *testing.T) {
	tests := []struct {
		name               string
		lw, lh, ww, wh     uint32
		wantSW, wantSH     float32
		wantTX, wantTY     float32
	}{
		// Integer 2x in both dimensions fills the window.
		{"exact 2x", 320, 240, 640, 480, 1, 1, 0, 0},
		// Window twice as wide as tall: height limits, logical width
		// covers half the window.
		{"pillarbox", 240, 240, 960, 480, 0.5, 1, 0, 0},
		// Window taller than wide: width limits.
		{"letterbox", 240, 240, 480, 960, 1, 0.5, 0, 0},
		// Window smaller than logical: scale floors at 1, content
		// overflows.
		{"window smaller", 640, 480, 320, 240, 2, 2, 0, 0},
		// Odd window size recenters by the half-pixel fraction.
		{"odd width", 100, 100, 101, 100, 100.0 / 101.0, 1, 0.5 / 101.0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := uniformMatrix(scaleTransform(tt.lw, tt.lh, tt.ww, tt.wh))
			if !nearf(m[0], tt.wantSW) || !nearf(m[5], tt.wantSH) {
				t.Errorf("scale = (%v, %v), want (%v, %v)", m[0], m[5], tt.wantSW, tt.wantSH)
			}
			if !nearf(m[12], tt.wantTX) || !nearf(m[13], tt.wantTY) {
				t.Errorf("translate = (%v, %v), want (%v, %v)", m[12], m[13], tt.wantTX, tt.wantTY)
			}
		})
	}
}

func nearf(a, b float32) bool {
	return math.Abs(float64(a-b)) <= 1e-6
}

func TestFract(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{0.5, 0.5},
		{3.25, 0.25},
		{100, 0},
	}
	for _, tt := range tests {
		if got := fract(tt.in); !nearf(got, tt.want) {
			t.Errorf("fract(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
