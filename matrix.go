package sprite

import "math"

// Mat3 is a 3x3 affine transform stored column-major, the same layout the
// instance buffer uses on the GPU. Element (row, col) lives at m[col*3+row].
// The third row is always (0, 0, 1) for transforms built through the
// constructors below.
type Mat3 [9]float32

// Vec2 is a 2D point or vector in logical coordinates.
type Vec2 struct {
	X, Y float32
}

// V2 is shorthand for Vec2{x, y}.
func V2(x, y float32) Vec2 { return Vec2{X: x, Y: y} }

// Mat3Identity returns the identity transform.
func Mat3Identity() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Mat3Translate returns a transform that translates by (x, y).
func Mat3Translate(x, y float32) Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		x, y, 1,
	}
}

// Mat3Scale returns a transform that scales by (x, y) about the origin.
func Mat3Scale(x, y float32) Mat3 {
	return Mat3{
		x, 0, 0,
		0, y, 0,
		0, 0, 1,
	}
}

// Mat3Rotate returns a counterclockwise rotation by rad radians about the
// origin.
func Mat3Rotate(rad float32) Mat3 {
	s64, c64 := math.Sincos(float64(rad))
	s, c := float32(s64), float32(c64)
	return Mat3{
		c, s, 0,
		-s, c, 0,
		0, 0, 1,
	}
}

// Mul returns the matrix product m * n. Applied to a point, n acts first
// and m acts second.
func (m Mat3) Mul(n Mat3) Mat3 {
	var out Mat3
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			var sum float32
			for k := 0; k < 3; k++ {
				sum += m[k*3+row] * n[col*3+k]
			}
			out[col*3+row] = sum
		}
	}
	return out
}

// Apply transforms the point (x, y), treating it as (x, y, 1).
func (m Mat3) Apply(x, y float32) (float32, float32) {
	return m[0]*x + m[3]*y + m[6], m[1]*x + m[4]*y + m[7]
}

// Col returns column i as three floats, matching the packed instance layout.
func (m Mat3) Col(i int) [3]float32 {
	return [3]float32{m[i*3], m[i*3+1], m[i*3+2]}
}
