// Package main - Entry point for the jewelry pricing server
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"jewel-pricing/api"
	"jewel-pricing/internal/catalog"
	"jewel-pricing/internal/config"
	"jewel-pricing/internal/logging"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "", "config file (default is $HOME/.jewel-pricing/config.json)")
	addr := flag.String("addr", "", "server address (overrides config)")
	settingsPath := flag.String("settings", "", "admin settings file, .json or .hcl (overrides config)")
	flag.Parse()

	path := *cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *settingsPath != "" {
		cfg.Pricing.SettingsPath = *settingsPath
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	defer logging.Sync()
	logger := logging.Named("server")

	settings, err := config.LoadAdminSettings(cfg.Pricing.SettingsPath)
	if err != nil {
		return err
	}

	opts := api.Options{
		Version:        version,
		Settings:       settings,
		Logger:         logger,
		RequestTimeout: 30 * time.Second,
	}

	if cfg.Catalog.Enabled {
		store, err := catalog.Open(cfg.Catalog.DatabasePath, catalog.WithLogger(logging.Named("catalog")))
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Migrate(context.Background()); err != nil {
			return err
		}
		opts.Catalog = store
	}

	srv := api.NewServer(opts).HTTPServer(cfg.Server.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("version", version),
			zap.Bool("catalog", cfg.Catalog.Enabled),
			zap.String("settings", cfg.Pricing.SettingsPath))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
