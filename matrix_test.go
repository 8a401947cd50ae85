package sprite

import (
	"math"
	"testing"
)

const epsilon = 1e-5

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) <= epsilon
}

func TestMat3Apply(t *testing.T) {
	tests := []struct {
		name         string
		m            Mat3
		x, y         float32
		wantX, wantY float32
	}{
		{"identity", Mat3Identity(), 3, 4, 3, 4},
		{"translate", Mat3Translate(10, 20), 3, 4, 13, 24},
		{"scale", Mat3Scale(2, 3), 3, 4, 6, 12},
		{"scale origin fixed", Mat3Scale(5, 7), 0, 0, 0, 0},
		{"rotate 90deg", Mat3Rotate(math.Pi / 2), 1, 0, 0, 1},
		{"rotate 180deg", Mat3Rotate(math.Pi), 1, 0, -1, 0},
		{"rotate -90deg", Mat3Rotate(-math.Pi / 2), 1, 0, 0, -1},
		{"zero matrix", Mat3{}, 3, 4, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotX, gotY := tt.m.Apply(tt.x, tt.y)
			if !near(gotX, tt.wantX) || !near(gotY, tt.wantY) {
				t.Errorf("Apply(%v, %v) = (%v, %v), want (%v, %v)",
					tt.x, tt.y, gotX, gotY, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestMat3MulOrder(t *testing.T) {
	// In m.Mul(n), n acts first. Scaling by 2 then translating by 10
	// sends 1 to 12; the other order sends 1 to 22.
	scaleFirst := Mat3Translate(10, 0).Mul(Mat3Scale(2, 1))
	x, _ := scaleFirst.Apply(1, 0)
	if !near(x, 12) {
		t.Errorf("translate.Mul(scale).Apply(1,0) = %v, want 12", x)
	}

	translateFirst := Mat3Scale(2, 1).Mul(Mat3Translate(10, 0))
	x, _ = translateFirst.Apply(1, 0)
	if !near(x, 22) {
		t.Errorf("scale.Mul(translate).Apply(1,0) = %v, want 22", x)
	}
}

func TestMat3MulIdentity(t *testing.T) {
	m := Mat3Translate(3, -2).Mul(Mat3Rotate(0.7)).Mul(Mat3Scale(2, 5))
	for i := range m {
		if got := Mat3Identity().Mul(m)[i]; !near(got, m[i]) {
			t.Fatalf("I*m differs at %d: %v != %v", i, got, m[i])
		}
		if got := m.Mul(Mat3Identity())[i]; !near(got, m[i]) {
			t.Fatalf("m*I differs at %d: %v != %v", i, got, m[i])
		}
	}
}

func TestMat3RotateInverse(t *testing.T) {
	for deg := 0; deg < 360; deg += 30 {
		rad := float32(deg) * math.Pi / 180
		m := Mat3Rotate(-rad).Mul(Mat3Rotate(rad))
		x, y := m.Apply(3, 4)
		if !near(x, 3) || !near(y, 4) {
			t.Errorf("Rotate(-%d)*Rotate(%d).Apply(3,4) = (%v, %v), want (3, 4)",
				deg, deg, x, y)
		}
	}
}

func TestMat3Col(t *testing.T) {
	m := Mat3Translate(7, 8)
	tests := []struct {
		col  int
		want [3]float32
	}{
		{0, [3]float32{1, 0, 0}},
		{1, [3]float32{0, 1, 0}},
		{2, [3]float32{7, 8, 1}},
	}
	for _, tt := range tests {
		if got := m.Col(tt.col); got != tt.want {
			t.Errorf("Col(%d) = %v, want %v", tt.col, got, tt.want)
		}
	}
}
