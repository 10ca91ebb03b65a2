// Package server exposes the cryptogram commands over the anet TCP framing.
package server

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	anetserver "github.com/andrei-cloud/anet/server"
	"github.com/andrei-cloud/go_arqc/internal/logging"
	"github.com/andrei-cloud/go_arqc/internal/logic"
	"github.com/andrei-cloud/go_arqc/internal/metrics"
	"github.com/andrei-cloud/go_arqc/internal/service"
	"github.com/rs/zerolog/log"
)

const transport = "tcp"

// logAdapter implements anet.Logger using zerolog.
type logAdapter struct{}

func (l logAdapter) Print(v ...any) {
	log.Info().Msg(fmt.Sprint(v...))
}

func (l logAdapter) Printf(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

func (l logAdapter) Infof(format string, v ...any) {
	log.Info().Msgf(format, v...)
}

func (l logAdapter) Warnf(format string, v ...any) {
	log.Warn().Msgf(format, v...)
}

func (l logAdapter) Errorf(format string, v ...any) {
	log.Error().Msgf(format, v...)
}

// Options holds the connection limits of the server.
type Options struct {
	MaxConns     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server wraps the anet TCP server and dispatches commands to the logic package.
type Server struct {
	address     string
	srv         *anetserver.Server
	activeConns int32
}

// NewServer configures and returns the command server instance.
func NewServer(address string, opts Options) (*Server, error) {
	cfg := &anetserver.ServerConfig{
		MaxConns:        opts.MaxConns,
		ReadTimeout:     opts.ReadTimeout,
		WriteTimeout:    opts.WriteTimeout,
		IdleTimeout:     0 * time.Second, // disable idle connection closure.
		ShutdownTimeout: 5 * time.Second,
		Logger:          logAdapter{},
	}

	s := &Server{address: address}
	srv, err := anetserver.NewServer(address, anetserver.HandlerFunc(s.handle), cfg)
	if err != nil {
		return nil, fmt.Errorf("server setup failed: %w", err)
	}
	s.srv = srv

	return s, nil
}

// Start begins listening for connections.
func (s *Server) Start() error {
	log.Info().Str("address", s.address).Msg("server started")
	return s.srv.Start()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	return s.srv.Stop()
}

// formatData returns ascii string if all bytes are printable, else hex string.
func formatData(data []byte) string {
	for _, b := range data {
		if b < 32 || b > 126 {
			return hex.EncodeToString(data)
		}
	}

	return string(data)
}

// incrementCode returns the response code by incrementing the second character.
func incrementCode(cmd string) string {
	b := []byte(cmd)
	if len(b) < 2 {
		return cmd
	}
	if b[1] == 'Z' {
		b[1] = 'A'
	} else {
		b[1]++
	}

	return string(b)
}

func (s *Server) handle(conn *anetserver.ServerConn, data []byte) ([]byte, error) {
	client := conn.Conn.RemoteAddr().String()
	active := atomic.AddInt32(&s.activeConns, 1)
	metrics.ActiveConnections.Inc()
	defer func() {
		atomic.AddInt32(&s.activeConns, -1)
		metrics.ActiveConnections.Dec()
	}()

	if len(data) < 2 {
		log.Error().Str("client_ip", client).Msg("malformed request")
		return nil, errors.New("malformed request")
	}

	start := time.Now()
	ctx, requestID := service.NewRequestContext(context.Background())
	cmd := string(data[:2])
	description := "unknown command"
	if c, ok := logic.Lookup(cmd); ok {
		description = c.Description
	}
	logging.LogRequest(client, requestID, cmd, description, int(active))
	log.Debug().
		Str("event", "handle_start").
		Str("request_id", requestID).
		Int("length", len(data)).
		Msg("starting request handling")

	out, code := logic.Execute(ctx, cmd, data[2:])

	respCode := incrementCode(cmd)
	resp := make([]byte, 0, 4+len(out))
	resp = append(resp, respCode...)
	resp = append(resp, code.CodeOnly()...)
	resp = append(resp, out...)

	total := time.Since(start)
	metrics.CommandCount.WithLabelValues(transport, cmd, code.CodeOnly()).Inc()
	metrics.CommandDuration.WithLabelValues(transport, cmd).Observe(float64(total.Microseconds()) / 1000)
	logging.LogResponse(client, requestID, cmd, respCode, code.CodeOnly(), total)
	log.Debug().
		Str("event", "handle_done").
		Str("request_id", requestID).
		Str("response", formatData(resp)).
		Msg("completed request handling")

	return resp, nil
}
