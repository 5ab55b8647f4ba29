// Command powder-serve runs a powder world and streams it to websocket
// clients.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"powder-ca/internal/logging"
	"powder-ca/internal/stream"
	"powder-ca/pkg/sims/powder"
)

func main() {
	cfg, invalid, err := loadServerConfig(flag.CommandLine, os.Args[1:], os.Getenv)
	if err != nil {
		os.Exit(2)
	}
	logger := logging.New(cfg.LogLevel)
	for _, v := range invalid {
		logger.Warnf("ignoring invalid setting %s, using default", v)
	}

	wcfg := powder.FromMap(cfg.simConfig())
	wcfg.Logger = logger
	world, err := powder.NewWithConfig(wcfg)
	if err != nil {
		logger.Fatalf("create world: %v", err)
	}
	if err := world.LoadScene(cfg.Scene); err != nil {
		logger.Warnf("scene %q: %v", cfg.Scene, err)
	}

	srv := stream.NewServer(world,
		stream.WithLogger(logger),
		stream.WithInterval(time.Second/time.Duration(cfg.TPS)),
	)
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpSrv := &http.Server{Addr: cfg.Addr, Handler: srv.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorf("simulation loop: %v", err)
		}
	}()

	logger.Infof("powder-serve listening on %s (%dx%d, %d tps)", cfg.Addr, cfg.W, cfg.H, cfg.TPS)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("listen: %v", err)
	}
	logger.Infof("powder-serve stopped at tick %d", world.Tick())
}
