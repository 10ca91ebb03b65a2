// Package arqc provides the cryptogram generation and verification commands.
package arqc

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/andrei-cloud/go_arqc/internal/service"
	"github.com/andrei-cloud/go_arqc/pkg/cryptogram"
	"github.com/spf13/cobra"
)

var errMissingKey = errors.New("issuer master key is required (--imk)")

// addTransactionFlags declares one flag per request field.
func addTransactionFlags(cmd *cobra.Command) {
	cmd.Flags().String("imk", "", "Issuer master key for application cryptograms (32 hex)")
	cmd.Flags().String("pan", "", "Primary account number (16 digits)")
	cmd.Flags().String("psn", "00", "PAN sequence number")
	cmd.Flags().String("amount", "", "Amount authorised (numeric, minor units)")
	cmd.Flags().String("amount-other", "0", "Amount other (numeric, minor units)")
	cmd.Flags().String("country", "", "Terminal country code (ISO 3166-1 numeric)")
	cmd.Flags().String("tvr", "0000000000", "Terminal verification results (10 hex)")
	cmd.Flags().String("currency", "", "Transaction currency code (ISO 4217 numeric)")
	cmd.Flags().String("date", "", "Transaction date (YYYY-MM-DD)")
	cmd.Flags().String("type", "00", "Transaction type (2 hex)")
	cmd.Flags().String("un", "", "Unpredictable number (8 hex)")
	cmd.Flags().String("aip", "", "Application interchange profile (4 hex)")
	cmd.Flags().String("atc", "", "Application transaction counter (up to 4 hex)")
	cmd.Flags().String("iad", "", "Issuer application data (hex)")
	cmd.Flags().String("tlv", "", "ICC data as hex encoded BER-TLV, replaces the transaction flags")
}

// requestFromFlags builds a request from the transaction flags, or from --tlv when set.
// The second result is the cryptogram found in tag 9F26 of the ICC data.
func requestFromFlags(cmd *cobra.Command) (service.GenerateACRequest, string, error) {
	req := flagRequest(cmd)
	if req.IssuerMasterKey == "" {
		return service.GenerateACRequest{}, "", errMissingKey
	}

	if iccData, _ := cmd.Flags().GetString("tlv"); iccData != "" {
		card, err := cryptogram.TransactionFromTLV(iccData)
		if err != nil {
			return service.GenerateACRequest{}, "", fmt.Errorf("invalid icc data: %w", err)
		}
		verifyReq := service.RequestFromCard(req.IssuerMasterKey, card)

		return verifyReq.GenerateACRequest, verifyReq.ARQC, nil
	}

	return req, "", nil
}

// flagRequest returns the transaction flags as they are, defaults included.
func flagRequest(cmd *cobra.Command) service.GenerateACRequest {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}

	return service.GenerateACRequest{
		IssuerMasterKey:               get("imk"),
		Pan:                           get("pan"),
		PanSequenceNumber:             get("psn"),
		AmountAuthorised:              get("amount"),
		AmountOther:                   get("amount-other"),
		TerminalCountryCode:           get("country"),
		TerminalVerificationResults:   get("tvr"),
		TransactionCurrencyCode:       get("currency"),
		TransactionDate:               get("date"),
		TransactionType:               get("type"),
		UnpredictableNumber:           get("un"),
		ApplicationInterchangeProfile: get("aip"),
		ApplicationTransactionCounter: get("atc"),
		IssuerApplicationData:         get("iad"),
	}
}

// requestContext returns the command context tagged with a request ID.
func requestContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, _ = service.NewRequestContext(ctx)

	return ctx
}

// printValidation lists the rejected fields of a validation error.
func printValidation(w io.Writer, err error) {
	var validationErr *service.ValidationError
	if !errors.As(err, &validationErr) {
		return
	}
	for _, v := range validationErr.Violations {
		fmt.Fprintf(w, "  %s: %s\n", v.Field, v.Message)
	}
}
