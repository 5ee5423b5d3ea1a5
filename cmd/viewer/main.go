package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/faiface/mainthread"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/meinkraft/internal/engine"
	"github.com/OCharnyshevich/meinkraft/internal/engine/block"
	"github.com/OCharnyshevich/meinkraft/internal/engine/camera"
	"github.com/OCharnyshevich/meinkraft/internal/engine/config"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world"
)

const (
	mouseSensitivity = 0.1
	moveSpeed        = 20.0
)

type options struct {
	width, height int
	atlas         string
	maxBuffers    int
}

// defaults differ from the engine defaults only in steering the camera by hand.
func defaults() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Camera = "free"
	return cfg
}

func main() {
	cfg := defaults()

	var opts options
	configPath := flag.String("config", "voxel.yaml", "config file path")
	flag.IntVar(&opts.width, "width", 1280, "window width")
	flag.IntVar(&opts.height, "height", 720, "window height")
	flag.StringVar(&opts.atlas, "atlas", "assets/atlas.png", "block texture atlas")
	flag.IntVar(&opts.maxBuffers, "max-buffers", 0, "mesh limit, 0 for unlimited")
	config.BindFlags(flag.CommandLine, cfg)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	fileCfg, err := config.LoadOver(*configPath, defaults())
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}
	config.Merge(cfg, fileCfg, config.Explicit(flag.CommandLine))
	if level, err := cfg.Level(); err == nil {
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var runErr error
	mainthread.Run(func() {
		runErr = run(ctx, cfg, opts, log)
	})
	if runErr != nil {
		log.Error("viewer error", "error", runErr)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, log *slog.Logger) error {
	var (
		dev      = newDevice(opts.maxBuffers)
		material rl.Material
		eng      *engine.Engine
		err      error
	)

	mainthread.Call(func() {
		rl.InitWindow(int32(opts.width), int32(opts.height), "meinkraft")
		rl.SetTargetFPS(60)
		rl.DisableCursor()
		material = rl.LoadMaterialDefault()
		if _, statErr := os.Stat(opts.atlas); statErr == nil {
			rl.SetMaterialTexture(&material, rl.MapDiffuse, rl.LoadTexture(opts.atlas))
		} else {
			log.Warn("texture atlas not found, drawing untextured", "path", opts.atlas)
		}
		eng, err = engine.New(cfg, dev, log)
	})
	if err != nil {
		mainthread.Call(rl.CloseWindow)
		return err
	}
	eng.Start(ctx)
	defer mainthread.Call(func() {
		eng.Close()
		dev.close()
		rl.CloseWindow()
	})

	spawn := mgl32.Vec3{8, float32(eng.SpawnHeight(8, 8) + 2), 8}
	cam, err := camera.New(cfg.Camera, spawn)
	if err != nil {
		return err
	}

	held := block.Stone
	for ctx.Err() == nil {
		var (
			quit     bool
			frameErr error
		)
		mainthread.Call(func() {
			if rl.WindowShouldClose() {
				quit = true
				return
			}
			dt := rl.GetFrameTime()
			steer(cam, dt)
			cam.Advance(dt)

			held = pick(eng.Catalog(), held)
			if err := edit(eng, cam, held); err != nil {
				log.Debug("edit rejected", "error", err)
			}

			var r engine.FrameReport
			r, frameErr = eng.Frame(cam.Position())
			if frameErr != nil {
				return
			}
			draw(eng, dev, cam, material, r)
		})
		if quit {
			return nil
		}
		if frameErr != nil {
			return frameErr
		}
	}
	return nil
}

// steer applies mouse look and WASD movement to a free camera.
func steer(cam camera.Camera, dt float32) {
	f, ok := cam.(*camera.FreeLook)
	if !ok {
		return
	}
	md := rl.GetMouseDelta()
	f.Rotate(-md.Y*mouseSensitivity, -md.X*mouseSensitivity)

	var forward, left float32
	if rl.IsKeyDown(rl.KeyW) {
		forward++
	}
	if rl.IsKeyDown(rl.KeyS) {
		forward--
	}
	if rl.IsKeyDown(rl.KeyA) {
		left++
	}
	if rl.IsKeyDown(rl.KeyD) {
		left--
	}
	f.Move(forward*moveSpeed*dt, left*moveSpeed*dt)
}

// pick cycles the held block with the number keys.
func pick(c *block.Catalog, held block.ID) block.ID {
	for i, e := range c.All() {
		if i < 9 && rl.IsKeyPressed(int32(rl.KeyOne)+int32(i)) {
			return e.ID
		}
	}
	return held
}

// edit places the held block in front of the camera on right click and
// clears it on left click.
func edit(eng *engine.Engine, cam camera.Camera, held block.ID) error {
	var id block.ID
	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonRight):
		id = held
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		id = block.Air
	default:
		return nil
	}
	p := cam.Position().Add(cam.Direction().Mul(3))
	pos := world.BlockPos{X: floor(p.X()), Y: floor(p.Y()), Z: floor(p.Z())}
	return eng.SetBlock(pos, id)
}

func floor(f float32) int {
	i := int(f)
	if float32(i) > f {
		i--
	}
	return i
}

func draw(eng *engine.Engine, dev *device, cam camera.Camera, material rl.Material, r engine.FrameReport) {
	pos, dir := cam.Position(), cam.Direction()
	target := pos.Add(dir)
	view := rl.Camera3D{
		Position:   rl.NewVector3(pos.X(), pos.Y(), pos.Z()),
		Target:     rl.NewVector3(target.X(), target.Y(), target.Z()),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       82,
		Projection: rl.CameraPerspective,
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(135, 206, 235, 255))
	rl.BeginMode3D(view)
	eng.Renderables(func(c engine.Renderable) {
		dev.draw(c.Handles, material, c.Model)
	})
	rl.EndMode3D()

	s := eng.Stats()
	rl.DrawText(fmt.Sprintf("Chunk %v  resident %d/%d  queued %d", r.Player, s.Resident, s.Chunks, s.Queued), 10, 10, 20, rl.DarkGray)
	rl.DrawText(fmt.Sprintf("Position (%.1f, %.1f, %.1f)", pos.X(), pos.Y(), pos.Z()), 10, 40, 20, rl.DarkGray)
	rl.DrawFPS(10, int32(rl.GetScreenHeight())-30)
	rl.EndDrawing()
}
