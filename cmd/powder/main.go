//go:build ebiten

// Command powder opens a window on a powder world.
package main

import (
	"errors"
	"flag"
	"log"

	"powder-ca/internal/app"
	"powder-ca/internal/logging"
	"powder-ca/internal/sfx"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := logging.New(cfg.LogLevel)
	world, err := cfg.NewWorld(logger)
	if err != nil {
		log.Fatalf("create world: %v", err)
	}

	player := sfx.NewPlayer()
	player.SetMuted(cfg.Mute)
	if err := player.Initialize(); err != nil {
		logger.Warnf("audio unavailable: %v", err)
	}
	defer player.Cleanup()

	game := app.New(world, cfg, player, logger)
	size := world.Size()

	ebiten.SetWindowTitle("Powder")
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+app.HUDWidth, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
