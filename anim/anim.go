// Package anim provides small tween-driven animators that produce sprite
// frames over time. There is no global animation manager: callers keep the
// animator and call Update with the frame delta, then submit the returned
// sprite like any other.
package anim

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/gogpu/sprite"
)

// Animator animates one sprite placement. Create one via Move, Fade, or
// Spin and call Update each frame until it reports done. Updating a
// finished animator keeps returning the final frame.
type Animator struct {
	base   sprite.Sprite
	ctx    sprite.Context
	tweens [2]*gween.Tween
	count  int
	apply  func(a *Animator, vals [2]float32) sprite.Sprite
	last   sprite.Sprite
	done   bool
}

// Move animates the sprite's placement from one position to another, in
// context pixels, over the given duration.
func Move(s sprite.Sprite, ctx sprite.Context, from, to sprite.Vec2, duration float32, fn ease.TweenFunc) *Animator {
	a := &Animator{base: s, ctx: ctx, count: 2}
	a.tweens[0] = gween.New(from.X, to.X, duration, fn)
	a.tweens[1] = gween.New(from.Y, to.Y, duration, fn)
	a.apply = func(a *Animator, vals [2]float32) sprite.Sprite {
		return a.ctx.Place(a.base, sprite.V2(vals[0], vals[1]))
	}
	a.last = a.ctx.Place(s, from)
	return a
}

// Fade animates the placed sprite's tint alpha between two values.
func Fade(s sprite.Sprite, ctx sprite.Context, pos sprite.Vec2, from, to float32, duration float32, fn ease.TweenFunc) *Animator {
	a := &Animator{base: s, ctx: ctx, count: 1}
	a.tweens[0] = gween.New(from, to, duration, fn)
	a.apply = func(a *Animator, vals [2]float32) sprite.Sprite {
		t := a.base.Tint
		t.A = vals[0]
		return a.ctx.Place(a.base.WithTint(t), pos)
	}
	a.last = a.apply(a, [2]float32{from, 0})
	return a
}

// Spin animates the sprite's rotation about its center at a fixed
// position, in radians.
func Spin(s sprite.Sprite, ctx sprite.Context, pos sprite.Vec2, from, to float32, duration float32, fn ease.TweenFunc) *Animator {
	a := &Animator{base: s, ctx: ctx, count: 1}
	a.tweens[0] = gween.New(from, to, duration, fn)
	a.apply = func(a *Animator, vals [2]float32) sprite.Sprite {
		return a.ctx.PlaceRotated(a.base, pos, vals[0])
	}
	a.last = a.ctx.PlaceRotated(s, pos, from)
	return a
}

// Update advances the animation by dt and returns the sprite for this
// frame. The second return is true once every tween has finished.
func (a *Animator) Update(dt time.Duration) (sprite.Sprite, bool) {
	if a.done {
		return a.last, true
	}
	step := float32(dt.Seconds())

	var vals [2]float32
	allDone := true
	for i := 0; i < a.count; i++ {
		v, finished := a.tweens[i].Update(step)
		vals[i] = v
		if !finished {
			allDone = false
		}
	}
	a.last = a.apply(a, vals)
	a.done = allDone
	return a.last, a.done
}

// Done reports whether the animation has finished.
func (a *Animator) Done() bool { return a.done }
