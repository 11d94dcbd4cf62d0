package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/ankit-chaubey/image-metadata-viewer/core/config"
	"github.com/ankit-chaubey/image-metadata-viewer/core/image"
)

func main() {
	cfg, err := config.LoadConfig(context.Background())
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	s := newSession(os.Stdin, os.Stdout, cfg, image.New(cfg.MakerNotes, logger))
	s.run()
}
