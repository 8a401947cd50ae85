package gpu

import (
	"encoding/binary"
	"math"
)

// scaleTransform builds the 4x4 matrix that fits the logical resolution
// into the window: scaled up as far as it fits in both dimensions, never
// below 1x, and recentered by the window's half-pixel fraction so pixel
// edges stay crisp. Identity when the sizes match.
//
// The matrix is column-major, 16 little-endian f32 words, and is applied
// to clip-space positions in the vertex shader.
func scaleTransform(logicalW, logicalH, windowW, windowH uint32) [uniformSize]byte {
	sw32, sh32 := float32(windowW), float32(windowH)
	widthRatio := maxf(sw32/float32(logicalW), 1)
	heightRatio := maxf(sh32/float32(logicalH), 1)

	scale := widthRatio
	if scale < 1 {
		scale = 1
	}
	if scale > heightRatio {
		scale = heightRatio
	}

	sw := float32(logicalW) * scale / sw32
	sh := float32(logicalH) * scale / sh32
	tx := fract(sw32/2) / sw32
	ty := fract(sh32/2) / sh32

	m := [16]float32{
		sw, 0, 0, 0,
		0, sh, 0, 0,
		0, 0, 1, 0,
		tx, ty, 0, 1,
	}

	var out [uniformSize]byte
	for i, v := range m {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func fract(v float32) float32 {
	return v - float32(math.Floor(float64(v)))
}
