package sprite

import "image"

// ID is an opaque 32-bit entity handle carried by a sprite into the id
// pass. The zero value is reserved: it means "no entity" and is what pick
// lookups return for empty or transparent pixels. Never assign 0 to a
// sprite that should be pickable.
type ID uint32

// Tint is a per-sprite RGBA color multiplier. Components are in [0, 1],
// straight alpha; the shader keeps the composited output premultiplied.
type Tint struct {
	R, G, B, A float32
}

// White is the neutral tint: the texture's own colors, fully opaque.
var White = Tint{R: 1, G: 1, B: 1, A: 1}

// Sprite describes one textured quad to composite: a region of a registered
// sprite sheet, an affine transform into normalized screen space, a depth,
// a tint, and an id for picking.
//
// Sprite is an immutable value. Every builder method returns a new Sprite
// and leaves the receiver untouched, so chains can be forked freely:
//
//	base := sprite.New(image.Pt(0, 0), image.Pt(16, 16)).WithLayer(tiles)
//	a := base.Translate(0.1, 0).WithID(5)
//	b := base.Translate(0.2, 0).WithID(6)
//
// Geometric builders compose by pre-multiplication: the operation applied
// last acts last, in screen space.
type Sprite struct {
	// Transform maps the unit quad [0,1]x[0,1] into normalized screen
	// coordinates.
	Transform Mat3

	// Origin and Size select the source region of the sprite sheet,
	// in pixels.
	Origin image.Point
	Size   image.Point

	// Layer is the index returned by Engine.AddTexture for the sheet
	// this sprite samples.
	Layer int

	// Z is the depth in [0, 1). 0 is nearest: lower z draws on top.
	Z float32

	// Tint multiplies the sampled texel color.
	Tint Tint

	// ID is written to the pick buffer wherever this sprite covers a
	// pixel with nonzero alpha. 0 means the sprite is not pickable.
	ID ID
}

// New returns a sprite for the given source region with an identity
// transform, layer 0, z 0, white tint, and no id.
func New(origin, size image.Point) Sprite {
	return Sprite{
		Transform: Mat3Identity(),
		Origin:    origin,
		Size:      size,
		Tint:      White,
	}
}

// Scale scales the sprite by (x, y), applied after the current transform.
func (s Sprite) Scale(x, y float32) Sprite {
	s.Transform = Mat3Scale(x, y).Mul(s.Transform)
	return s
}

// InvScale scales by the reciprocal of (x, y). Useful for undoing an
// enclosing scale, e.g. converting back out of a zoomed camera.
func (s Sprite) InvScale(x, y float32) Sprite {
	s.Transform = Mat3Scale(1/x, 1/y).Mul(s.Transform)
	return s
}

// Translate moves the sprite by (x, y) in normalized screen coordinates,
// applied after the current transform.
func (s Sprite) Translate(x, y float32) Sprite {
	s.Transform = Mat3Translate(x, y).Mul(s.Transform)
	return s
}

// Rotate rotates the sprite by rad radians about the screen origin,
// applied after the current transform.
func (s Sprite) Rotate(rad float32) Sprite {
	s.Transform = Mat3Rotate(rad).Mul(s.Transform)
	return s
}

// SizeScale scales the sprite by its own pixel size, turning the unit quad
// into a quad of Size pixels.
func (s Sprite) SizeScale() Sprite {
	return s.Scale(float32(s.Size.X), float32(s.Size.Y))
}

// InvSizeScale scales the sprite by the reciprocal of its pixel size.
func (s Sprite) InvSizeScale() Sprite {
	return s.InvScale(float32(s.Size.X), float32(s.Size.Y))
}

// WithTransform replaces the accumulated transform entirely.
func (s Sprite) WithTransform(m Mat3) Sprite {
	s.Transform = m
	return s
}

// WithZ returns the sprite at depth z. z must be in [0, 1); 0 is nearest.
func (s Sprite) WithZ(z float32) Sprite {
	s.Z = z
	return s
}

// WithTint returns the sprite with the given color multiplier.
func (s Sprite) WithTint(t Tint) Sprite {
	s.Tint = t
	return s
}

// WithID returns the sprite carrying the given pick id.
func (s Sprite) WithID(id ID) Sprite {
	s.ID = id
	return s
}

// WithLayer returns the sprite sampling the given texture layer.
func (s Sprite) WithLayer(layer int) Sprite {
	s.Layer = layer
	return s
}

// WithPosition sizes the sprite to its pixel dimensions on a screen of the
// given pixel size and moves it to pos, both in screen pixels. This is the
// common "draw this sheet region at (x, y)" shortcut; use a Context for
// anything involving rotation or a camera.
func (s Sprite) WithPosition(pos, screen Vec2) Sprite {
	return s.
		Scale(float32(s.Size.X)/screen.X, float32(s.Size.Y)/screen.Y).
		Translate(pos.X/screen.X, pos.Y/screen.Y)
}
