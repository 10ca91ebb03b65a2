// Package server provides server-related CLI commands.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/andrei-cloud/go_arqc/internal/api"
	"github.com/andrei-cloud/go_arqc/internal/config"
	"github.com/andrei-cloud/go_arqc/internal/metrics"
	"github.com/andrei-cloud/go_arqc/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the cryptogram servers",
		Long: `Start the TCP command server and, unless disabled, the HTTP API.
Both expose cryptogram generation, verification and session key derivation.`,
		RunE: runServe,
	}

	// Add serve command specific flags that can override config.
	cmd.Flags().String("host", "localhost", "TCP server host")
	cmd.Flags().Int("port", 1500, "TCP server port")
	cmd.Flags().Int("max-conns", 100, "Maximum concurrent TCP connections")
	cmd.Flags().String("http-host", "localhost", "HTTP API host")
	cmd.Flags().Int("http-port", 8080, "HTTP API port")
	cmd.Flags().Bool("http", true, "Serve the HTTP API")
	cmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on the HTTP API")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Get()
	if cfg.Metrics.Enabled {
		metrics.Register()
	}

	serverAddr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	srv, err := server.NewServer(serverAddr, server.Options{
		MaxConns:     cfg.Server.MaxConns,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize server: %v", err)
	}

	errChan := make(chan error, 2)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	var httpSrv *http.Server
	if cfg.HTTP.Enabled {
		httpSrv = &http.Server{
			Addr:              net.JoinHostPort(cfg.HTTP.Host, strconv.Itoa(cfg.HTTP.Port)),
			Handler:           api.NewRouter(cfg.Metrics.Enabled),
			ReadHeaderTimeout: cfg.Server.ReadTimeout,
		}
		go func() {
			log.Info().Str("address", httpSrv.Addr).Msg("http api started")
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- fmt.Errorf("failed to start http api: %w", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")
	case runErr = <-errChan:
		log.Error().Err(runErr).Msg("server failed")
	}

	if httpSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error during http api shutdown")
		}
	}
	if err := srv.Stop(); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	return runErr
}
