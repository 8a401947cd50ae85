package sprite

import (
	"image"
	"math"
	"testing"
)

func TestBuildersPure(t *testing.T) {
	base := New(image.Pt(8, 8), image.Pt(16, 16))
	before := base

	base.Scale(2, 2)
	base.Translate(1, 1)
	base.Rotate(math.Pi)
	base.WithZ(0.5)
	base.WithTint(Tint{R: 1})
	base.WithID(42)
	base.WithLayer(3)

	if base != before {
		t.Errorf("builders mutated the receiver: %+v != %+v", base, before)
	}
}

func TestBuilderComposition(t *testing.T) {
	// Scale then translate: the translation lands in screen space, after
	// the scale, so the quad corner (1, 1) ends up at (0.5+0.25, 0.5+0.25).
	s := New(image.Pt(0, 0), image.Pt(16, 16)).
		Scale(0.5, 0.5).
		Translate(0.25, 0.25)
	x, y := s.Transform.Apply(1, 1)
	if !near(x, 0.75) || !near(y, 0.75) {
		t.Errorf("corner (1,1) = (%v, %v), want (0.75, 0.75)", x, y)
	}

	// The other order scales the translation too.
	s = New(image.Pt(0, 0), image.Pt(16, 16)).
		Translate(0.25, 0.25).
		Scale(0.5, 0.5)
	x, y = s.Transform.Apply(1, 1)
	if !near(x, 0.625) || !near(y, 0.625) {
		t.Errorf("corner (1,1) = (%v, %v), want (0.625, 0.625)", x, y)
	}
}

func TestInvScaleUndoesScale(t *testing.T) {
	s := New(image.Pt(0, 0), image.Pt(16, 16)).Scale(3, 5).InvScale(3, 5)
	x, y := s.Transform.Apply(0.5, 0.5)
	if !near(x, 0.5) || !near(y, 0.5) {
		t.Errorf("Scale+InvScale moved (0.5,0.5) to (%v, %v)", x, y)
	}
}

func TestSizeScale(t *testing.T) {
	s := New(image.Pt(0, 0), image.Pt(32, 8)).SizeScale()
	x, y := s.Transform.Apply(1, 1)
	if !near(x, 32) || !near(y, 8) {
		t.Errorf("SizeScale corner = (%v, %v), want (32, 8)", x, y)
	}

	s = s.InvSizeScale()
	x, y = s.Transform.Apply(1, 1)
	if !near(x, 1) || !near(y, 1) {
		t.Errorf("InvSizeScale corner = (%v, %v), want (1, 1)", x, y)
	}
}

func TestWithPosition(t *testing.T) {
	// A 16x16 sprite at (32, 48) on a 64x64 screen covers the normalized
	// quad from (0.5, 0.75) to (0.75, 1).
	s := New(image.Pt(0, 0), image.Pt(16, 16)).
		WithPosition(V2(32, 48), V2(64, 64))

	x, y := s.Transform.Apply(0, 0)
	if !near(x, 0.5) || !near(y, 0.75) {
		t.Errorf("top-left = (%v, %v), want (0.5, 0.75)", x, y)
	}
	x, y = s.Transform.Apply(1, 1)
	if !near(x, 0.75) || !near(y, 1) {
		t.Errorf("bottom-right = (%v, %v), want (0.75, 1)", x, y)
	}
}

func TestNewDefaults(t *testing.T) {
	s := New(image.Pt(1, 2), image.Pt(3, 4))
	if s.Origin != image.Pt(1, 2) || s.Size != image.Pt(3, 4) {
		t.Errorf("region = %v/%v, want (1,2)/(3,4)", s.Origin, s.Size)
	}
	if s.Layer != 0 || s.Z != 0 || s.ID != 0 {
		t.Errorf("layer/z/id = %d/%v/%d, want zeros", s.Layer, s.Z, s.ID)
	}
	if s.Tint != White {
		t.Errorf("tint = %+v, want White", s.Tint)
	}
	if s.Transform != Mat3Identity() {
		t.Errorf("transform = %v, want identity", s.Transform)
	}
}

func TestWithSetters(t *testing.T) {
	s := New(image.Pt(0, 0), image.Pt(8, 8)).
		WithZ(0.25).
		WithTint(Tint{R: 1, A: 0.5}).
		WithID(9).
		WithLayer(2)
	if s.Z != 0.25 {
		t.Errorf("Z = %v, want 0.25", s.Z)
	}
	if s.Tint != (Tint{R: 1, A: 0.5}) {
		t.Errorf("Tint = %+v", s.Tint)
	}
	if s.ID != 9 {
		t.Errorf("ID = %d, want 9", s.ID)
	}
	if s.Layer != 2 {
		t.Errorf("Layer = %d, want 2", s.Layer)
	}
}
