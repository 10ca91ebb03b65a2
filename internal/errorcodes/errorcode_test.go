package errorcodes

import (
	"errors"
	"fmt"
	"testing"

	"github.com/andrei-cloud/go_arqc/pkg/cryptogram"
	"github.com/andrei-cloud/go_arqc/pkg/cryptoutils"
	"github.com/andrei-cloud/go_arqc/pkg/emv"
	"github.com/andrei-cloud/go_arqc/pkg/keyderivation"
	"github.com/stretchr/testify/assert"
)

func TestFromError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want HSMError
	}{
		{"nil", nil, Err00},
		{"hsm error", Err68, Err68},
		{"wrapped hsm error", fmt.Errorf("parse: %w", Err80), Err80},
		{"malformed iad", &emv.MalformedIadError{Scheme: emv.Visa}, ErrA7},
		{"unsupported scheme", &emv.UnsupportedSchemeError{Scheme: emv.Unknown}, Err26},
		{"unsupported cvn", fmt.Errorf("derive: %w", &emv.UnsupportedCvnError{Cvn: "17"}), Err47},
		{
			"key length",
			&cryptoutils.CryptoOperationError{Op: "tdes encrypt", Err: cryptoutils.ErrInvalidKeyLength},
			Err27,
		},
		{
			"bad hex data",
			&cryptoutils.CryptoOperationError{Op: "tdes encrypt", Err: &cryptoutils.HexDecodeError{Field: "data"}},
			Err15,
		},
		{"field error", &cryptogram.FieldError{Field: "TransactionDate"}, Err15},
		{"short pan", fmt.Errorf("%w: 6", keyderivation.ErrShortPAN), Err15},
		{"cipher failure", &cryptoutils.CryptoOperationError{Op: "mac", Err: errors.New("boom")}, Err42},
		{"unknown", errors.New("boom"), Err41},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FromError(tt.err))
		})
	}
}

func TestHSMError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "68", Err68.CodeOnly())
	assert.Equal(t, "68: Command has been disabled", Err68.Error())
}
