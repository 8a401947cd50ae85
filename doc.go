// Package sprite is a real-time 2D sprite compositor with per-pixel
// picking, built on the GoGPU ecosystem.
//
// # Overview
//
// Applications register sprite-sheet textures with an Engine, build
// immutable Sprite values through pure builder chains (usually via a
// Context that handles pixel coordinates and aspect ratio), and submit a
// flat list of sprites every frame. The engine depth-sorts the list, packs
// one instance buffer, and draws it in batched runs, one draw call per
// stretch of sprites sharing a sheet.
//
// Alongside the color frame the engine can render an id pass: every sprite
// carries an opaque 32-bit ID, and the id pass writes the topmost sprite's
// ID at each pixel into a buffer read back as a PickBuffer. Picking is
// exact per pixel, including transparent holes in sprites, with no
// CPU-side geometry tests.
//
// # Quick start
//
//	e, err := sprite.NewEngine(320, 180)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer e.Close()
//
//	tiles, _ := e.AddTexture(tilesPNG, "tiles")
//
//	ctx := sprite.NewContext(320, 180)
//	s := sprite.New(image.Pt(0, 0), image.Pt(16, 16)).
//	    WithLayer(tiles).
//	    WithID(1)
//
//	buf, err := e.RedrawWithIDs([]sprite.Sprite{ctx.Place(s, sprite.V2(100, 50))})
//	if buf.At(mouseX, mouseY) == 1 {
//	    // cursor is over the sprite
//	}
//
// # Depth and ordering
//
// A sprite's Z is its depth in [0, 1), 0 nearest. The engine sorts
// farthest first and renders with a depth test, so overlap is resolved by
// Z regardless of submission order; equal keys keep submission order.
//
// # Collaborators
//
// The package renders and picks; it does not open windows, run event
// loops, draw text, or manage game state. A windowing host drives the
// Handler interface and presents the engine's color target.
package sprite
