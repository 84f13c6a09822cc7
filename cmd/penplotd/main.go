package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"penplot/pkg/api"
	"penplot/pkg/cfg"
)

func main() {
	addr := flag.String("addr", ":8000", "listen address")
	configPath := flag.String("config", "", "machine profile TOML (defaults built in)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	profile := cfg.Default()
	if *configPath != "" {
		var err error
		profile, err = cfg.Load(*configPath)
		if err != nil {
			logger.Error("config error", "error", err)
			os.Exit(1)
		}
	}

	server := &http.Server{
		Addr:    *addr,
		Handler: api.NewServer(profile.Options(), logger).Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", "addr", *addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
