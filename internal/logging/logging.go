package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/andrei-cloud/go_arqc/pkg/emv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the zerolog logger with the specified level and output format.
// Format "human" selects the console writer, anything else JSON. Unknown levels fall back to info.
func InitLogger(level, format string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano // always initialize base logger with timestamp.
	log.Logger = newLogger(os.Stdout, format)
	zerolog.SetGlobalLevel(parseLevel(level))
}

func newLogger(w io.Writer, format string) zerolog.Logger {
	base := zerolog.New(w).With().Timestamp().Logger()
	if strings.EqualFold(format, "human") {
		return base.Output(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339Nano,
		})
	}

	return base
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}

	return lvl
}

// LogRequest logs a received command with structured fields.
func LogRequest(
	clientIP string,
	requestID string,
	command string,
	description string,
	activeConns int,
) {
	log.Info().
		Str("event", "request_received").
		Str("client_ip", clientIP).
		Str("request_id", requestID).
		Str("command", command).
		Str("description", description).
		Int("active_connections", activeConns).
		Msg("received command")
}

// LogResponse logs a sent response with structured fields.
func LogResponse(
	clientIP string,
	requestID string,
	command string,
	responseCommand string,
	errorCode string,
	duration time.Duration,
) {
	event := log.Info()
	if errorCode != "00" {
		event = log.Warn()
	}
	event.
		Str("event", "response_sent").
		Str("client_ip", clientIP).
		Str("request_id", requestID).
		Str("command", command).
		Str("response_command", responseCommand).
		Str("error_code", errorCode).
		Dur("duration", duration).
		Msg("sent response")
}

// MaskPAN hides the middle digits of a PAN for log output.
func MaskPAN(pan string) string {
	return emv.MaskPAN(pan)
}

// Redact replaces key material with a fixed marker that keeps only its length.
func Redact(secret string) string {
	if secret == "" {
		return ""
	}

	return "<redacted:" + strings.Repeat("*", min(len(secret), 8)) + ">"
}
