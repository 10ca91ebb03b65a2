// Package service runs the cryptogram pipeline for the command server, the REST API and the CLI.
// It validates requests, records metrics and logs each step with key check values only.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andrei-cloud/go_arqc/internal/logging"
	"github.com/andrei-cloud/go_arqc/internal/metrics"
	"github.com/andrei-cloud/go_arqc/pkg/cryptogram"
	"github.com/andrei-cloud/go_arqc/pkg/cryptoutils"
	"github.com/andrei-cloud/go_arqc/pkg/emv"
	"github.com/andrei-cloud/go_arqc/pkg/keyderivation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// GenerateACResponse is the result of a cryptogram generation.
type GenerateACResponse struct {
	Type   string
	ARQC   string
	Scheme emv.PaymentScheme
	CVN    emv.CVN
}

// KeyResponse describes the keys derived for a card and transaction.
type KeyResponse struct {
	Scheme        emv.PaymentScheme
	CVN           emv.CVN
	SKDMethod     emv.SessionKeyDerivationMethod
	UDKCheckValue string
	SessionKey    string
	SessionKeyKCV string
}

// VerifyResponse is the outcome of a cryptogram verification.
type VerifyResponse struct {
	Match    bool
	Expected string
	Scheme   emv.PaymentScheme
	CVN      emv.CVN
}

type requestIDKey struct{}

// NewRequestContext tags ctx with a fresh request ID and a logger carrying it.
func NewRequestContext(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	ctx = context.WithValue(ctx, requestIDKey{}, id)
	reqLogger := log.With().Str("request_id", id).Logger()

	return reqLogger.WithContext(ctx), id
}

// RequestID returns the request ID stored by NewRequestContext.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &log.Logger
	}

	return l
}

// GenerateAC validates req and computes its ARQC.
func GenerateAC(ctx context.Context, req GenerateACRequest) (GenerateACResponse, error) {
	if err := ctx.Err(); err != nil {
		return GenerateACResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return GenerateACResponse{}, err
	}

	start := time.Now()
	keys, parsed, err := derive(ctx, req.IssuerMasterKey, req.Pan, req.PanSequenceNumber,
		req.ApplicationTransactionCounter, req.UnpredictableNumber, req.IssuerApplicationData)
	if err != nil {
		metrics.CryptogramCount.WithLabelValues(keys.Scheme.String(), keys.CVN.String(), metrics.Result(err)).Inc()
		return GenerateACResponse{}, err
	}

	arqc, err := cryptogram.Generate(req.Transaction(), keys.SessionKey, keys.CVN, parsed.CVR(), keys.Scheme)
	metrics.CryptogramCount.WithLabelValues(keys.Scheme.String(), keys.CVN.String(), metrics.Result(err)).Inc()
	if err != nil {
		return GenerateACResponse{}, fmt.Errorf("generate cryptogram: %w", err)
	}

	logger(ctx).Debug().
		Str("event", "cryptogram_generated").
		Str("pan", logging.MaskPAN(req.Pan)).
		Str("scheme", keys.Scheme.String()).
		Str("cvn", keys.CVN.String()).
		Str("arqc", arqc).
		Dur("duration", time.Since(start)).
		Msg("generated application cryptogram")

	return GenerateACResponse{
		Type:   cryptogram.ApplicationCryptogramType,
		ARQC:   arqc,
		Scheme: keys.Scheme,
		CVN:    keys.CVN,
	}, nil
}

// DeriveKeys validates req and derives its UDK and session key.
func DeriveKeys(ctx context.Context, req KeyRequest) (KeyResponse, error) {
	if err := ctx.Err(); err != nil {
		return KeyResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return KeyResponse{}, err
	}

	keys, _, err := derive(ctx, req.IssuerMasterKey, req.Pan, req.PanSequenceNumber,
		req.ApplicationTransactionCounter, req.UnpredictableNumber, req.IssuerApplicationData)

	return keys, err
}

// VerifyAC recomputes the cryptogram of req and compares it with req.ARQC.
func VerifyAC(ctx context.Context, req VerifyACRequest) (VerifyResponse, error) {
	if err := ctx.Err(); err != nil {
		return VerifyResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return VerifyResponse{}, err
	}

	keys, parsed, err := derive(ctx, req.IssuerMasterKey, req.Pan, req.PanSequenceNumber,
		req.ApplicationTransactionCounter, req.UnpredictableNumber, req.IssuerApplicationData)
	if err != nil {
		metrics.VerificationCount.WithLabelValues(keys.Scheme.String(), "error").Inc()
		return VerifyResponse{}, err
	}

	expected, err := cryptogram.Generate(req.Transaction(), keys.SessionKey, keys.CVN, parsed.CVR(), keys.Scheme)
	if err != nil {
		metrics.VerificationCount.WithLabelValues(keys.Scheme.String(), "error").Inc()
		return VerifyResponse{}, fmt.Errorf("generate cryptogram: %w", err)
	}
	match := cryptogram.Match(expected, req.ARQC)

	result := "match"
	if !match {
		result = "mismatch"
	}
	metrics.VerificationCount.WithLabelValues(keys.Scheme.String(), result).Inc()
	logger(ctx).Debug().
		Str("event", "cryptogram_verified").
		Str("pan", logging.MaskPAN(req.Pan)).
		Str("result", result).
		Msg("verified application cryptogram")

	return VerifyResponse{Match: match, Expected: expected, Scheme: keys.Scheme, CVN: keys.CVN}, nil
}

// VerifyTLV verifies the cryptogram (tag 9F26) of EMV ICC data under imk.
func VerifyTLV(ctx context.Context, imk, iccData string) (VerifyResponse, error) {
	card, err := cryptogram.TransactionFromTLV(iccData)
	if err != nil {
		return VerifyResponse{}, err
	}

	return VerifyAC(ctx, RequestFromCard(imk, card))
}

// RequestFromCard builds a verification request from decoded ICC data.
func RequestFromCard(imk string, card cryptogram.CardData) VerifyACRequest {
	tx := card.Transaction

	return VerifyACRequest{
		GenerateACRequest: GenerateACRequest{
			Pan:                           card.Pan,
			PanSequenceNumber:             trimNumeric(card.PanSequenceNumber, 2),
			IssuerMasterKey:               imk,
			AmountAuthorised:              trimNumeric(tx.AmountAuthorised, 12),
			AmountOther:                   trimNumeric(tx.AmountOther, 12),
			TerminalCountryCode:           trimNumeric(tx.TerminalCountryCode, 3),
			TerminalVerificationResults:   tx.TerminalVerificationResults,
			TransactionCurrencyCode:       trimNumeric(tx.TransactionCurrencyCode, 3),
			TransactionDate:               tx.TransactionDate,
			TransactionType:               tx.TransactionType,
			UnpredictableNumber:           tx.UnpredictableNumber,
			ApplicationInterchangeProfile: tx.ApplicationInterchangeProfile,
			ApplicationTransactionCounter: tx.ApplicationTransactionCounter,
			IssuerApplicationData:         tx.IssuerApplicationData,
		},
		ARQC: card.ARQC,
	}
}

// trimNumeric drops BCD leading zeros so the value fits width digits.
func trimNumeric(value string, width int) string {
	for len(value) > width && value[0] == '0' {
		value = value[1:]
	}

	return value
}

// derive resolves the scheme and CVN and derives both keys. Scheme and CVN are filled in
// the response as soon as they are known, also on failure.
func derive(
	ctx context.Context,
	imk, pan, psn, atc, un, iad string,
) (KeyResponse, emv.ParsedIAD, error) {
	var keys KeyResponse
	keys.Scheme = emv.SchemeFromPan(pan)

	cvn, parsed, err := emv.ResolveCvn(keys.Scheme, iad)
	if err != nil {
		metrics.KeyDerivationCount.WithLabelValues(keys.Scheme.String(), "", "error").Inc()
		return keys, emv.ParsedIAD{}, withPan(err, pan)
	}
	keys.CVN = cvn
	keys.SKDMethod = parsed.SKDMethod()
	if un == "" && keys.Scheme == emv.Mastercard && (cvn == emv.CVN10 || cvn == emv.CVN16) {
		return keys, parsed, &ValidationError{Violations: []FieldViolation{{
			Field:   "UnpredictableNumber",
			Message: "UnpredictableNumber is required for " + cvn.String() + ".",
		}}}
	}

	udk, err := keyderivation.DeriveUDK(imk, pan, psn)
	if err != nil {
		metrics.KeyDerivationCount.WithLabelValues(keys.Scheme.String(), cvn.String(), "error").Inc()
		return keys, parsed, fmt.Errorf("derive udk: %w", err)
	}
	sk, err := keyderivation.SessionKey(keys.Scheme, cvn, udk, atc, un)
	metrics.KeyDerivationCount.WithLabelValues(keys.Scheme.String(), cvn.String(), metrics.Result(err)).Inc()
	if err != nil {
		return keys, parsed, fmt.Errorf("derive session key: %w", err)
	}

	if keys.UDKCheckValue, err = cryptoutils.KCV(udk); err != nil {
		return keys, parsed, fmt.Errorf("udk check value: %w", err)
	}
	if keys.SessionKeyKCV, err = cryptoutils.KCV(sk); err != nil {
		return keys, parsed, fmt.Errorf("session key check value: %w", err)
	}
	keys.SessionKey = sk

	logger(ctx).Debug().
		Str("event", "keys_derived").
		Str("pan", logging.MaskPAN(pan)).
		Str("scheme", keys.Scheme.String()).
		Str("cvn", cvn.String()).
		Str("skd_method", string(keys.SKDMethod)).
		Str("udk_kcv", keys.UDKCheckValue).
		Str("sk_kcv", keys.SessionKeyKCV).
		Msg("derived card keys")

	return keys, parsed, nil
}

func withPan(err error, pan string) error {
	if schemeErr, ok := err.(*emv.UnsupportedSchemeError); ok {
		schemeErr.Pan = emv.MaskPAN(pan)
	}

	return err
}
