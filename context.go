package sprite

// Context is an immutable logical drawing space: a screen size in logical
// pixels plus an accumulated transform. It converts pixel-space placement
// into the normalized transforms sprites carry, so callers can think in
// pixels and let the context handle aspect ratio and camera transforms.
//
// All methods are pure: deriving a context (Scale, Translate, Rotate) or
// placing a sprite never mutates the receiver, so one parent context can be
// specialized per entity, per frame, without copying state by hand.
type Context struct {
	// Screen is the logical size this context addresses, in pixels.
	Screen Vec2

	transform Mat3
}

// NewContext returns a context for a logical screen of the given pixel size
// with an identity transform.
func NewContext(width, height float32) Context {
	return Context{
		Screen:    V2(width, height),
		transform: Mat3Identity(),
	}
}

// Transform returns the accumulated transform.
func (c Context) Transform() Mat3 { return c.transform }

// Scale returns a context whose space is scaled by (x, y), applied after
// the current transform.
func (c Context) Scale(x, y float32) Context {
	c.transform = Mat3Scale(x, y).Mul(c.transform)
	return c
}

// Translate returns a context whose space is shifted by (x, y) in
// normalized coordinates, applied after the current transform.
func (c Context) Translate(x, y float32) Context {
	c.transform = Mat3Translate(x, y).Mul(c.transform)
	return c
}

// Rotate returns a context rotated by rad radians. The rotation is wrapped
// in a scale to screen pixels and back, otherwise a non-square screen would
// shear everything placed through the rotated context.
func (c Context) Rotate(rad float32) Context {
	scale := Mat3Scale(c.Screen.X, c.Screen.Y)
	invScale := Mat3Scale(1/c.Screen.X, 1/c.Screen.Y)
	c.transform = invScale.Mul(Mat3Rotate(rad)).Mul(scale).Mul(c.transform)
	return c
}

// Place returns the sprite positioned with its top-left corner at pos, in
// this context's pixel coordinates, at its natural pixel size.
func (c Context) Place(s Sprite, pos Vec2) Sprite {
	return c.PlaceScaledRotated(s, pos, V2(1, 1), 0)
}

// PlaceRotated is Place with a rotation of rad radians about the sprite's
// center.
func (c Context) PlaceRotated(s Sprite, pos Vec2, rad float32) Sprite {
	return c.PlaceScaledRotated(s, pos, V2(1, 1), rad)
}

// PlaceScaled is Place with an extra scale about the sprite's center.
func (c Context) PlaceScaled(s Sprite, pos Vec2, scale Vec2) Sprite {
	return c.PlaceScaledRotated(s, pos, scale, 0)
}

// PlaceScaledRotated places the sprite at pos in context pixels, scaled and
// rotated about its own center. The rotation happens in the sprite's pixel
// aspect so a tall sprite spins without distortion, then the quad is sized
// to the sprite's pixel dimensions relative to the screen and moved into
// position. The context transform applies outermost.
func (c Context) PlaceScaledRotated(s Sprite, pos Vec2, scale Vec2, rad float32) Sprite {
	scaleM := Mat3Scale(scale.X, scale.Y)
	rotM := Mat3Rotate(rad)
	aspect := Mat3Scale(float32(s.Size.X), float32(s.Size.Y))
	invAspect := Mat3Scale(1/float32(s.Size.X), 1/float32(s.Size.Y))

	// Center on the origin, rotate and scale in pixel aspect, recenter.
	t := Mat3Translate(-0.5, -0.5)
	t = invAspect.Mul(scaleM).Mul(rotM).Mul(aspect).Mul(t)
	t = scaleM.Mul(t)
	t = Mat3Translate(0.5, 0.5).Mul(t)

	// Size the unit quad to the sprite's share of the screen.
	t = Mat3Scale(float32(s.Size.X)/c.Screen.X, float32(s.Size.Y)/c.Screen.Y).Mul(t)

	// Move to the requested position in context space.
	t = Mat3Translate(pos.X/c.Screen.X, pos.Y/c.Screen.Y).Mul(t)

	return s.WithTransform(c.transform.Mul(t))
}
