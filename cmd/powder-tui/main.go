// Command powder-tui runs a powder world in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"powder-ca/internal/app"
	"powder-ca/internal/logging"
	"powder-ca/internal/sfx"
	"powder-ca/internal/tui"

	"github.com/gdamore/tcell/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.W, cfg.H, cfg.TPS = 0, 0, 30
	logPath := flag.String("log", "", "write logs to this file (the terminal is busy)")
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := logging.NewWriter(os.Stderr, "", "error")
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = logging.NewWriter(f, "powder-tui ", cfg.LogLevel)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "init screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()

	// Fit the grid to the terminal unless a size was given, leaving two rows
	// for the status line.
	tw, th := screen.Size()
	if cfg.W <= 0 {
		cfg.W = max(tw, 8)
	}
	if cfg.H <= 0 {
		cfg.H = max(th-2, 8)
	}

	world, err := cfg.NewWorld(logger)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "create world: %v\n", err)
		os.Exit(1)
	}

	player := sfx.NewPlayer()
	player.SetMuted(cfg.Mute)
	if err := player.Initialize(); err != nil {
		logger.Warnf("audio unavailable: %v", err)
	}
	defer player.Cleanup()

	host := tui.New(screen, world,
		tui.WithSound(player),
		tui.WithLogger(logger),
		tui.WithTPS(cfg.TPS),
		tui.WithSeed(cfg.Seed),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = host.Run(ctx)
	screen.Fini()
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "powder-tui: %v\n", err)
		os.Exit(1)
	}
}
