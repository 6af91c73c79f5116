// ABOUTME: serve command runs the HTTP API until interrupted
// ABOUTME: Registers the handlers, starts the workers and shuts down gracefully

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hackerhome-api/api"
	"hackerhome-api/api/handlers"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var flagPort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagPort, "port", "", "listen port, overrides PORT")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Close()

	if flagPort != "" {
		cfg.Server.Port = flagPort
	}

	log.Info("Starting HackerHome API", map[string]interface{}{
		"port":             cfg.Server.Port,
		"cache_type":       cfg.Cache.Type,
		"refresh_interval": cfg.Server.RefreshInterval.String(),
		"version":          version,
	})

	a, err := newApp(cfg, log, nil)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.start(); err != nil {
		return err
	}

	srv := api.NewAPI(api.Config{
		Logger:      log,
		Flags:       a.flags,
		RateLimit:   cfg.Server.RateLimit,
		RateWindow:  cfg.Server.RateWindow,
		CORSOrigins: cfg.Server.CORSOrigins,
		Version:     version,
	})
	defer srv.Close()

	handlers.NewHealthHandler(version).RegisterRoutes(srv.API)
	handlers.NewSourceHandler(a.dashboard).RegisterRoutes(srv.API)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: handlers.DefaultWaitTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", map[string]interface{}{
			"address": httpServer.Addr,
		})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server error", map[string]interface{}{"error": err.Error()})
			return err
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down server", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", map[string]interface{}{"error": err.Error()})
		return err
	}

	log.Info("Server stopped", nil)
	return nil
}
