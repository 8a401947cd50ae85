// Command spritebench renders a YAML-described sprite scene headlessly and
// reports frame timings. It exercises the full frame path including the id
// pass and readback, so it needs a working GPU.
//
// Usage:
//
//	spritebench -scene scene.yaml [-frames 600] [-cpuprofile] [-memprofile]
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/profile"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/sprite"
)

// scene is the YAML benchmark description.
type scene struct {
	Logical struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"logical"`
	Window struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"window"`
	Sheets  []string      `yaml:"sheets"`
	Sprites []spriteGroup `yaml:"sprites"`
}

// spriteGroup describes count sprites cut from one sheet region, scattered
// across the screen.
type spriteGroup struct {
	Layer  int    `yaml:"layer"`
	Origin [2]int `yaml:"origin"`
	Size   [2]int `yaml:"size"`
	Count  int    `yaml:"count"`
	Z      float32 `yaml:"z"`
}

func main() {
	var (
		scenePath  = flag.String("scene", "scene.yaml", "scene description file")
		frames     = flag.Int("frames", 600, "frames to render")
		seed       = flag.Int64("seed", 1, "placement seed")
		cpuprofile = flag.Bool("cpuprofile", false, "write a CPU profile")
		memprofile = flag.Bool("memprofile", false, "write a memory profile")
	)
	flag.Parse()

	switch {
	case *cpuprofile:
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case *memprofile:
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	sc, err := loadScene(*scenePath)
	if err != nil {
		log.Fatalf("load scene: %v", err)
	}

	e, err := sprite.NewEngine(sc.Logical.Width, sc.Logical.Height,
		sprite.WithWindowSize(sc.Window.Width, sc.Window.Height))
	if err != nil {
		log.Fatalf("create engine: %v", err)
	}
	defer e.Close()

	for _, path := range sc.Sheets {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("read sheet %s: %v", path, err)
		}
		if _, err := e.AddTexture(data, path); err != nil {
			log.Fatalf("register sheet %s: %v", path, err)
		}
	}

	sprites := buildSprites(sc, rand.New(rand.NewSource(*seed)))
	log.Printf("scene: %d sprites, %d sheets, %d frames", len(sprites), len(sc.Sheets), *frames)

	var total time.Duration
	start := time.Now()
	for i := 0; i < *frames; i++ {
		d, err := e.Redraw(sprites)
		if err != nil {
			log.Fatalf("frame %d: %v", i, err)
		}
		total += d
		if _, err := e.RedrawIDs(sprites); err != nil {
			log.Fatalf("id frame %d: %v", i, err)
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("frames:      %d\n", *frames)
	fmt.Printf("wall time:   %v\n", elapsed)
	fmt.Printf("per frame:   %v (color+id)\n", elapsed/time.Duration(*frames))
	fmt.Printf("color only:  %v avg\n", total/time.Duration(*frames))
}

func loadScene(path string) (*scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc scene
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if sc.Logical.Width == 0 || sc.Logical.Height == 0 {
		return nil, fmt.Errorf("%s: logical size is required", path)
	}
	if sc.Window.Width == 0 {
		sc.Window = sc.Logical
	}
	return &sc, nil
}

func buildSprites(sc *scene, rng *rand.Rand) []sprite.Sprite {
	ctx := sprite.NewContext(float32(sc.Logical.Width), float32(sc.Logical.Height))
	var out []sprite.Sprite
	var id sprite.ID = 1
	for _, g := range sc.Sprites {
		base := sprite.New(
			image.Pt(g.Origin[0], g.Origin[1]),
			image.Pt(g.Size[0], g.Size[1]),
		).WithLayer(g.Layer).WithZ(g.Z)
		for i := 0; i < g.Count; i++ {
			pos := sprite.V2(
				rng.Float32()*float32(sc.Logical.Width-g.Size[0]),
				rng.Float32()*float32(sc.Logical.Height-g.Size[1]),
			)
			out = append(out, ctx.Place(base.WithID(id), pos))
			id++
		}
	}
	return out
}
