package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/meinkraft/internal/engine"
	"github.com/OCharnyshevich/meinkraft/internal/engine/camera"
	"github.com/OCharnyshevich/meinkraft/internal/engine/config"
	"github.com/OCharnyshevich/meinkraft/internal/engine/gpu"
	"github.com/OCharnyshevich/meinkraft/internal/engine/trace"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world"
)

func main() {
	cfg := config.DefaultConfig()

	configPath := flag.String("config", "voxel.yaml", "config file path")
	frames := flag.Int("frames", 600, "frames to simulate")
	fps := flag.Float64("fps", 60, "simulated frames per second")
	tracePath := flag.String("trace", "", "write a streaming trace to this file")
	compare := flag.String("compare", "", "trace file to compare this run against")

	config.BindFlags(flag.CommandLine, cfg)
	flag.Parse()

	explicit := config.Explicit(flag.CommandLine)

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	fileCfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}
	config.Merge(cfg, fileCfg, explicit)

	level, err := cfg.Level()
	if err != nil {
		log.Error("log level", "error", err)
		os.Exit(1)
	}
	log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log, *frames, *fps, *tracePath, *compare); err != nil {
		log.Error("simulation error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, frames int, fps float64, tracePath, compare string) error {
	dev := gpu.NewMemoryDevice()
	eng, err := engine.New(cfg, dev, log)
	if err != nil {
		return err
	}
	eng.Start(ctx)
	defer eng.Close()

	spawn := mgl32.Vec3{8, float32(eng.SpawnHeight(8, 8) + 2), 8}
	cam, err := camera.New(cfg.Camera, spawn)
	if err != nil {
		return err
	}

	var tw *trace.Writer
	if tracePath != "" {
		tw, err = trace.Create(tracePath, trace.Header{
			Seed:           cfg.Seed,
			Layout:         cfg.Layout,
			Generator:      cfg.Generator,
			RenderDistance: cfg.RenderDistance,
			MaxRequests:    cfg.MaxRequestsPerTick,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := tw.Close(); err != nil {
				log.Error("close trace", "error", err)
			}
		}()
	}

	dt := float32(1 / fps)
	frameTime := time.Duration(float64(time.Second) / fps)
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	var ticks []trace.Tick
	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			log.Info("interrupted", "frame", i)
			return nil
		case <-ticker.C:
		}

		cam.Advance(dt)
		view := cam.Position()
		r, err := eng.Frame(view)
		if err != nil {
			return err
		}

		t := trace.Tick{
			Frame:     r.Frame,
			Viewpoint: [3]float32{view.X(), view.Y(), view.Z()},
			Player:    tracePos(r.Player),
			Requested: tracePositions(r.Requested),
			Evicted:   tracePositions(r.Evicted),
			Retried:   tracePositions(r.Retried),
			Uploaded:  r.Uploaded,
			Resident:  eng.Stats().Resident,
		}
		ticks = append(ticks, t)
		if tw != nil {
			if err := tw.WriteTick(t); err != nil {
				return err
			}
		}
	}

	s := eng.Stats()
	ds := dev.Stats()
	log.Info("simulation finished",
		"frames", frames,
		"chunks", s.Chunks,
		"resident", s.Resident,
		"gridsLive", s.Pool.Live,
		"buffers", ds.Buffers,
		"meshBytes", ds.Bytes,
		"uploads", ds.Uploads,
	)

	if compare != "" {
		return compareTrace(log, compare, ticks)
	}
	return nil
}

var errDiverged = errors.New("run diverged from trace")

func compareTrace(log *slog.Logger, path string, ticks []trace.Tick) error {
	h, want, err := trace.ReadFile(path)
	if err != nil {
		return err
	}
	if frame, ok := trace.Diverge(want, ticks); ok {
		log.Error("trace mismatch", "run", h.RunID, "frame", frame)
		return errDiverged
	}
	log.Info("trace matches", "run", h.RunID, "frames", min(len(want), len(ticks)))
	return nil
}

func tracePos(p world.ChunkPos) trace.Pos { return trace.Pos{p.X, p.Y, p.Z} }

func tracePositions(ps []world.ChunkPos) []trace.Pos {
	if len(ps) == 0 {
		return nil
	}
	out := make([]trace.Pos, len(ps))
	for i, p := range ps {
		out[i] = tracePos(p)
	}
	return out
}
