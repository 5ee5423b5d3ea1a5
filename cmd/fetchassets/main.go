package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	get "github.com/hashicorp/go-getter"

	"github.com/OCharnyshevich/meinkraft/internal/engine/block"
)

func main() {
	var (
		src     = flag.String("src", "", "asset source, any go-getter address (git::https://..., s3::..., https://.../assets.zip)")
		ref     = flag.String("ref", "", "git ref to fetch")
		out     = flag.String("o", "./assets", "output dir path")
		catalog = flag.String("catalog", "blocks.json", "catalog file inside the assets, validated after download")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *out == "" {
		log.Error("output dir path required")
		os.Exit(1)
	}
	if *src == "" {
		log.Error("source required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := fetch(ctx, log, *src, *ref, *out, *catalog); err != nil {
		log.Error("fetch assets", "error", err)
		os.Exit(1)
	}
}

func fetch(ctx context.Context, log *slog.Logger, src, ref, out, catalog string) error {
	if err := os.RemoveAll(out); err != nil {
		return err
	}

	url := src
	if ref != "" {
		url = fmt.Sprintf("%s?ref=%s", src, ref)
	}
	log.Info("start downloading assets", "url", url, "dir", out)

	client := &get.Client{
		Ctx:  ctx,
		Src:  url,
		Dst:  out,
		Mode: get.ClientModeDir,
	}
	if err := client.Get(); err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}

	if catalog != "" {
		path := filepath.Join(out, catalog)
		c, err := block.LoadFile(path)
		if err != nil {
			return fmt.Errorf("downloaded catalog: %w", err)
		}
		log.Info("catalog valid", "path", path, "blocks", len(c.All()))
	}

	log.Info("done downloading assets", "dir", out)
	return nil
}
