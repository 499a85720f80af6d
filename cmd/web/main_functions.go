package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-while/go-pugtodo/internal/config"
	"github.com/go-while/go-pugtodo/internal/database"
	"github.com/go-while/go-pugtodo/internal/web"
	"github.com/urfave/cli/v2"
)

// loadConfig builds the config from defaults, the YAML file, then flags and environment
func loadConfig(c *cli.Context) (*config.MainConfig, error) {
	cfg, err := config.LoadFile(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("db-connect") {
		cfg.Database.ConnectString = c.String("db-connect")
	}
	if c.IsSet("port") {
		cfg.Web.ListenPort = c.Int("port")
	}
	if c.IsSet("ssl") {
		cfg.Web.SSL = c.Bool("ssl")
	}
	if c.IsSet("cert") {
		cfg.Web.CertFile = c.String("cert")
	}
	if c.IsSet("key") {
		cfg.Web.KeyFile = c.String("key")
	}
	if c.Bool("no-minify") {
		cfg.Web.Minify = false
	}
	if c.Bool("no-access-log") {
		cfg.Web.AccessLog = false
	}
	if c.IsSet("debug") {
		cfg.Web.Debug = c.Bool("debug")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// serve opens the store, runs the web server and shuts both down on a signal
func serve(cfg *config.MainConfig) error {
	log.Printf("Starting go-pugtodo: Web Server (version: %s)", config.AppVersion)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Database.ConnectTimeout)
	db, err := database.Open(ctx, &cfg.Database)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("[WEB]: Error closing store: %v", err)
		} else {
			log.Printf("[WEB]: Store closed successfully")
		}
	}()

	server, err := web.NewServer(db, &cfg.Web)
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// Start web server in goroutine to make it non-blocking
	webServerErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			webServerErrChan <- err
		}
	}()

	log.Printf("[WEB]: Server started successfully. Press Ctrl+C to gracefully shutdown...")

	select {
	case <-sigChan:
		log.Printf("[WEB]: Received shutdown signal, initiating graceful shutdown...")
	case err := <-webServerErrChan:
		return fmt.Errorf("web server failed: %w", err)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WEB]: Error during shutdown: %v", err)
	}
	log.Printf("[WEB]: Graceful shutdown completed")
	return nil
}
