// Package errorcodes defines command errors using a structured type.
// HSMError holds the two-character code and human-readable description.
package errorcodes

import (
	"errors"

	"github.com/andrei-cloud/go_arqc/pkg/cryptogram"
	"github.com/andrei-cloud/go_arqc/pkg/cryptoutils"
	"github.com/andrei-cloud/go_arqc/pkg/emv"
	"github.com/andrei-cloud/go_arqc/pkg/keyderivation"
)

// Predefined error instances.
var (
	Err00 = HSMError{"00", "No error"}
	Err01 = HSMError{"01", "Verification failure"}
	Err15 = HSMError{
		"15",
		"Invalid input data (invalid format, invalid characters, or not enough data provided)",
	}
	Err26 = HSMError{"26", "Invalid key scheme"}
	Err27 = HSMError{"27", "Incompatible key length"}
	Err41 = HSMError{"41", "Internal hardware/software error"}
	Err42 = HSMError{"42", "DES failure"}
	Err47 = HSMError{"47", "Algorithm not licensed"}
	Err68 = HSMError{"68", "Command has been disabled"}
	Err80 = HSMError{"80", "Data length error"}
	ErrA7 = HSMError{"A7", "Invalid algorithm"}
)

// HSMError represents a command error with its code and description.
type HSMError struct {
	Code        string // two-character error code
	Description string // human-readable description
}

// Error implements the Go error interface: "<Code>: <Description>".
func (e HSMError) Error() string {
	return e.Code + ": " + e.Description
}

// CodeOnly returns only the error code (e.g., "68"), for embedding in responses.
func (e HSMError) CodeOnly() string {
	return e.Code
}

// FromError maps an error returned by the cryptogram packages to its error code.
// Errors that already carry an HSMError keep it; unrecognized errors map to Err41.
func FromError(err error) HSMError {
	var (
		hsmErr    HSMError
		iadErr    *emv.MalformedIadError
		schemeErr *emv.UnsupportedSchemeError
		cvnErr    *emv.UnsupportedCvnError
		hexErr    *cryptoutils.HexDecodeError
		fieldErr  *cryptogram.FieldError
		cryptoErr *cryptoutils.CryptoOperationError
	)

	switch {
	case err == nil:
		return Err00
	case errors.As(err, &hsmErr):
		return hsmErr
	case errors.As(err, &iadErr):
		return ErrA7
	case errors.As(err, &schemeErr):
		return Err26
	case errors.As(err, &cvnErr):
		return Err47
	case errors.Is(err, cryptoutils.ErrInvalidKeyLength):
		return Err27
	case errors.As(err, &hexErr), errors.As(err, &fieldErr), errors.Is(err, keyderivation.ErrShortPAN):
		return Err15
	case errors.As(err, &cryptoErr):
		return Err42
	default:
		return Err41
	}
}
