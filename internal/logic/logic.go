// Package logic implements the commands of the TCP protocol on top of the cryptogram service.
package logic

import (
	"context"

	"github.com/andrei-cloud/go_arqc/internal/errorcodes"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Firmware is reported by the NC diagnostics command.
const Firmware = "0100-A000"

// Handler executes a command payload and returns the response data that follows the error code.
type Handler func(ctx context.Context, input []byte) ([]byte, error)

// Command describes a supported command code.
type Command struct {
	Code        string
	Description string
	Execute     Handler
}

var commands = map[string]Command{
	"GA": {Code: "GA", Description: "Generate an ARQC", Execute: ExecuteGA},
	"GC": {Code: "GC", Description: "Derive a session key", Execute: ExecuteGC},
	"GE": {Code: "GE", Description: "Verify an ARQC from ICC data", Execute: ExecuteGE},
	"NC": {Code: "NC", Description: "Diagnostics", Execute: ExecuteNC},
}

// Lookup returns the command registered for code.
func Lookup(code string) (Command, bool) {
	cmd, ok := commands[code]
	return cmd, ok
}

// Execute runs the command for code and maps its outcome to an error code.
// Response data is only returned together with Err00.
func Execute(ctx context.Context, code string, input []byte) ([]byte, errorcodes.HSMError) {
	cmd, ok := Lookup(code)
	if !ok {
		logger(ctx).Warn().Str("command", code).Msg("unknown command")
		return nil, errorcodes.Err68
	}

	out, err := cmd.Execute(ctx, input)
	if err != nil {
		hsmErr := errorcodes.FromError(err)
		logger(ctx).Error().
			Str("command", code).
			Str("error_code", hsmErr.CodeOnly()).
			Err(err).
			Msg("command failed")
		return nil, hsmErr
	}

	return out, errorcodes.Err00
}

func logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &log.Logger
	}

	return l
}
