package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/OCharnyshevich/meinkraft/internal/engine/block"
	"github.com/OCharnyshevich/meinkraft/internal/engine/config"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world"
	"github.com/OCharnyshevich/meinkraft/internal/engine/world/gen"
	"github.com/OCharnyshevich/meinkraft/internal/survey"
)

func main() {
	cfg := config.DefaultConfig()

	configPath := flag.String("config", "voxel.yaml", "config file path")
	radius := flag.Int("radius", 4, "horizontal survey radius in chunks")
	minY := flag.Int("min-y", 0, "lowest chunk layer (cube layout)")
	maxY := flag.Int("max-y", 15, "highest chunk layer (cube layout)")
	workers := flag.Int("workers", 0, "parallel workers, 0 for one per CPU")
	config.BindFlags(flag.CommandLine, cfg)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	fileCfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}
	config.Merge(cfg, fileCfg, config.Explicit(flag.CommandLine))
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}

	layout, err := world.LayoutByName(cfg.Layout)
	if err != nil {
		log.Error("layout", "error", err)
		os.Exit(1)
	}
	catalog, err := block.LoadFile(cfg.CatalogPath)
	if err != nil {
		log.Error("load catalog", "error", err)
		os.Exit(1)
	}
	g, err := gen.New(layout, gen.Options{
		Name:    cfg.Generator,
		Noise:   cfg.Noise,
		Seed:    cfg.Seed,
		Terrain: cfg.TerrainParams(),
	})
	if err != nil {
		log.Error("generator", "error", err)
		os.Exit(1)
	}

	r := survey.Region{
		Min: world.ChunkPos{X: -*radius, Y: *minY, Z: -*radius},
		Max: world.ChunkPos{X: *radius, Y: *maxY, Z: *radius},
	}
	if layout.Name == world.Column.Name {
		r.Min.Y, r.Max.Y = 0, 0
	}

	_, sum, err := survey.New(log, layout, g, catalog, *workers).Run(r)
	if err != nil {
		log.Error("survey", "error", err)
		os.Exit(1)
	}

	fmt.Printf("chunks     %d (%d empty, %d failed)\n", sum.Chunks, sum.Empty, sum.Failed)
	fmt.Printf("solid      %d\n", sum.Solid)
	fmt.Printf("triangles  %d\n", sum.Triangles)
	fmt.Printf("mesh bytes %d\n", sum.Bytes)
	for _, e := range catalog.All() {
		if n, ok := sum.Blocks[e.ID]; ok {
			fmt.Printf("  %-8s %d\n", e.Name, n)
		}
	}
	fmt.Printf("elapsed    %s\n", sum.Elapsed)
}
