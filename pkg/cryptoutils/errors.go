package cryptoutils

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKeyLength is returned for TDEA keys that are not 16, 32 or 48 hex characters.
var ErrInvalidKeyLength = errors.New("invalid TDEA key length")

// HexDecodeError reports a field that is not valid hexadecimal.
type HexDecodeError struct {
	Field string
	Value string
}

func (e *HexDecodeError) Error() string {
	return fmt.Sprintf("%s is not valid hexadecimal: %q", e.Field, e.Value)
}

// CryptoOperationError wraps the cause of a failed cipher operation.
type CryptoOperationError struct {
	Op  string
	Err error
}

func (e *CryptoOperationError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *CryptoOperationError) Unwrap() error {
	return e.Err
}

// redact hides key material in error values while keeping its length visible.
func redact(key string) string {
	return strings.Repeat("*", len(key))
}
