// Command api serves the bootstrap engine over HTTP: POST residual data and
// run parameters, read back JSON summaries, HTML reports, and prometheus
// metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"graphboot/adapters/api"
	"graphboot/adapters/corrmat"
	"graphboot/adapters/graphmetrics"
	"graphboot/adapters/postgres"
	"graphboot/internal/config"
	"graphboot/internal/logging"
	"graphboot/ports"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(os.Stderr, cfg.LogLevel, false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo ports.SummaryRepository
	if cfg.Database.URL != "" {
		pg, err := postgres.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return err
		}
		defer pg.Close()
		repo = pg
		log.Info().Msg("postgres persistence enabled")
	}

	server := api.NewServer(corrmat.NewBuilder(), graphmetrics.NewRegistry(), repo, log)
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
