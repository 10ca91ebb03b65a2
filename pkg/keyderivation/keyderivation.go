// Package keyderivation derives EMV card keys: the Unique Derivation Key (Option A) from an
// Issuer Master Key, and the per transaction session key selected by scheme and CVN.
package keyderivation

import (
	"errors"
	"fmt"

	"github.com/andrei-cloud/go_arqc/pkg/cryptoutils"
	"github.com/andrei-cloud/go_arqc/pkg/emv"
)

const (
	psnLength = 2
	atcLength = 4

	// Diversification data following the ATC. Byte 2 is overwritten per key half.
	commonDiversifier      = "000000000000"
	proprietaryDiversifier = "0000"
)

// ErrShortPAN is returned when PAN || PSN has fewer than 16 digits.
var ErrShortPAN = errors.New("PAN and PSN shorter than 16 digits")

// DeriveUDK derives the Unique Derivation Key with EMV Option A.
//
// Y is the rightmost 16 digits of PAN || PSN, the UDK is E(Y, IMK) || E(Y xor FF..FF, IMK).
// Key parity is not adjusted.
func DeriveUDK(imk, pan, psn string) (string, error) {
	input := pan + cryptoutils.Pad(psn, '0', psnLength, true)
	if len(input) < cryptoutils.ICCKeyInputDigits {
		return "", fmt.Errorf("%w: %d", ErrShortPAN, len(input))
	}
	key, err := cryptoutils.DecodeKey(imk)
	if err != nil {
		return "", &cryptoutils.CryptoOperationError{Op: "derive udk", Err: err}
	}

	udk, err := cryptoutils.DeriveICCKey(input[len(input)-cryptoutils.ICCKeyInputDigits:], key)
	if err != nil {
		return "", fmt.Errorf("derive udk: %w", err)
	}

	return cryptoutils.Raw2Str(udk), nil
}

// SessionKey derives the session key for a scheme and generic CVN from the UDK.
//
// Visa CVN10 uses the UDK directly. Visa CVN14, 18, 2C and Mastercard CVN14, 20 use the EMV
// common session key derivation. Mastercard CVN10, 16, 17 use the proprietary derivation
// with the unpredictable number.
func SessionKey(scheme emv.PaymentScheme, cvn emv.CVN, udk, atc, un string) (string, error) {
	switch scheme {
	case emv.Visa:
		switch cvn {
		case emv.CVN10:
			return udk, nil
		case emv.CVN14, emv.CVN18, emv.CVN2C:
			return commonSessionKey(udk, atc)
		case emv.CVN22:
			return "", &emv.UnsupportedCvnError{
				Scheme: scheme,
				Cvn:    cvn.String(),
				Reason: "requires EMV Option B UDK derivation",
			}
		}
	case emv.Mastercard:
		switch cvn {
		case emv.CVN14, emv.CVN20:
			return commonSessionKey(udk, atc)
		case emv.CVN10, emv.CVN16, emv.CVN17:
			return proprietarySessionKey(udk, atc, un)
		}
	case emv.PrivateLabel, emv.Unknown:
		return "", &emv.UnsupportedSchemeError{Scheme: scheme}
	}

	return "", &emv.UnsupportedCvnError{Scheme: scheme, Cvn: cvn.String(), Reason: "no session key derivation"}
}

// DeriveSessionKey resolves scheme and CVN from the PAN and IAD, derives the UDK and then
// the session key.
func DeriveSessionKey(imk, pan, psn, atc, un, iad string) (string, error) {
	scheme := emv.SchemeFromPan(pan)
	cvn, _, err := emv.ResolveCvn(scheme, iad)
	if err != nil {
		var unsupported *emv.UnsupportedSchemeError
		if errors.As(err, &unsupported) {
			unsupported.Pan = emv.MaskPAN(pan)
		}
		return "", err
	}
	udk, err := DeriveUDK(imk, pan, psn)
	if err != nil {
		return "", err
	}

	return SessionKey(scheme, cvn, udk, atc, un)
}

func commonSessionKey(udk, atc string) (string, error) {
	return sessionKey(udk, cryptoutils.Pad(atc, '0', atcLength, true)+commonDiversifier)
}

func proprietarySessionKey(udk, atc, un string) (string, error) {
	return sessionKey(udk, cryptoutils.Pad(atc, '0', atcLength, true)+proprietaryDiversifier+un)
}

// sessionKey decodes the UDK and diversification data r and derives the session key.
func sessionKey(udk, r string) (string, error) {
	key, err := cryptoutils.DecodeKey(udk)
	if err != nil {
		return "", &cryptoutils.CryptoOperationError{Op: "derive session key", Err: err}
	}
	data, err := cryptoutils.Str2Raw("diversification data", r)
	if err != nil {
		return "", err
	}

	sk, err := cryptoutils.DeriveSessionKey(key, data)
	if err != nil {
		return "", &cryptoutils.CryptoOperationError{Op: "derive session key", Err: err}
	}

	return cryptoutils.Raw2Str(sk), nil
}
