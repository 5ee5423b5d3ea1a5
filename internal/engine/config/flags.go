package config

import "flag"

// BindFlags registers the command-line overrides for cfg on fs. The flag names
// are the ones Merge checks.
func BindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed")
	fs.StringVar(&cfg.Layout, "layout", cfg.Layout, "chunk layout: cube or column")
	fs.StringVar(&cfg.Generator, "generator", cfg.Generator, "terrain generator: mountains or flat")
	fs.StringVar(&cfg.Noise, "noise", cfg.Noise, "noise source: simplex or perlin")
	fs.Float64Var(&cfg.RenderDistance, "render-distance", cfg.RenderDistance, "render distance in chunks")
	fs.IntVar(&cfg.MaxRequestsPerTick, "max-requests", cfg.MaxRequestsPerTick, "generation requests per tick")
	fs.Float64Var(&cfg.RequestsPerSecond, "requests-per-second", cfg.RequestsPerSecond, "generation request rate, 0 for unlimited")
	fs.IntVar(&cfg.MaxUploadsPerFrame, "max-uploads", cfg.MaxUploadsPerFrame, "mesh uploads per frame")
	fs.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "block catalog JSON file")
	fs.StringVar(&cfg.Camera, "camera", cfg.Camera, "camera: fixed, flight or free")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
}

// Explicit returns the names of the flags set on the command line.
func Explicit(fs *flag.FlagSet) map[string]bool {
	m := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { m[f.Name] = true })
	return m
}
