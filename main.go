package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/freekieb7/kiezel/config"
	"github.com/freekieb7/kiezel/http"
	"github.com/freekieb7/kiezel/telemetry"
	"go.opentelemetry.io/otel"
)

const name = "github.com/freekieb7/kiezel"

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context) (err error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Telemetry {
		shutdownTelemetry, setupErr := telemetry.Setup(ctx, cfg.Name)
		if setupErr != nil {
			return setupErr
		}
		defer func() {
			err = errors.Join(err, shutdownTelemetry(context.Background()))
		}()
	}

	logger := telemetry.NewLogger(name, cfg.Telemetry)

	router := http.NewDefaultRouter()
	router.Use(
		http.RecoverMiddleware(logger),
		http.TraceMiddleware(otel.Tracer(name)),
	)

	server := http.NewServer(cfg.Name, router.Handler())
	server.ReadBufferSize = cfg.ReadBufferSize
	server.MaxConns = cfg.MaxConns
	server.IdleTimeout = cfg.IdleTimeout
	server.WriteTimeout = cfg.WriteTimeout
	server.ReusePort = cfg.ReusePort
	server.Logger = logger

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe(ctx, cfg.Addr)
	}()

	select {
	case err := <-serverErrCh:
		return err
	case <-ctx.Done():
		stop()
	}

	if err := server.Shutdown(context.Background()); err != nil {
		return err
	}
	if err := <-serverErrCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
