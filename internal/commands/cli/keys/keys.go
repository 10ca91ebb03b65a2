// Package keys provides the card key derivation commands.
package keys

import (
	"context"
	"fmt"

	"github.com/andrei-cloud/go_arqc/internal/service"
	"github.com/andrei-cloud/go_arqc/pkg/cryptoutils"
	"github.com/andrei-cloud/go_arqc/pkg/keyderivation"
	"github.com/spf13/cobra"
)

// NewKeysCommand creates the keys command group.
func NewKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Card key derivation operations",
		Long: `Card key derivation operations.
This command provides subcommands for deriving the card unique key (UDK, EMV option A)
and the session key of a transaction from the issuer master key, and for computing
key check values.`,
	}

	// Add subcommands.
	cmd.AddCommand(newUDKCommand())
	cmd.AddCommand(newSessionKeyCommand())
	cmd.AddCommand(newCheckCommand())

	return cmd
}

func newUDKCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "udk",
		Short: "Derive the card unique key",
		Long: `Derive the card unique key (UDK) from the issuer master key, PAN and PAN
sequence number using EMV option A.`,
		RunE: runUDK,
	}

	// Add flags.
	cmd.Flags().String("imk", "", "Issuer master key (hex)")
	cmd.Flags().String("pan", "", "Primary account number")
	cmd.Flags().String("psn", "00", "PAN sequence number")

	mustMarkRequired(cmd, "imk", "pan")

	return cmd
}

func newSessionKeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Derive the session key of a transaction",
		Long: `Derive the session key of a transaction. The payment scheme is taken from the PAN and
the cryptogram version from the issuer application data, which select the derivation method.
The unpredictable number is required by the Mastercard proprietary derivation (CVN 10 and 16).`,
		RunE: runSessionKey,
	}

	// Add flags.
	cmd.Flags().String("imk", "", "Issuer master key (hex)")
	cmd.Flags().String("pan", "", "Primary account number (16 digits)")
	cmd.Flags().String("psn", "00", "PAN sequence number")
	cmd.Flags().String("atc", "", "Application transaction counter (hex)")
	cmd.Flags().String("un", "", "Unpredictable number (8 hex)")
	cmd.Flags().String("iad", "", "Issuer application data (hex)")

	mustMarkRequired(cmd, "imk", "pan", "atc", "iad")

	return cmd
}

func newCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compute the check value of a clear key",
		RunE:  runCheck,
	}

	cmd.Flags().String("key", "", "Clear key (16, 32 or 48 hex)")
	mustMarkRequired(cmd, "key")

	return cmd
}

func mustMarkRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

func runUDK(cmd *cobra.Command, _ []string) error {
	imk, _ := cmd.Flags().GetString("imk")
	pan, _ := cmd.Flags().GetString("pan")
	psn, _ := cmd.Flags().GetString("psn")

	udk, err := keyderivation.DeriveUDK(imk, pan, psn)
	if err != nil {
		return fmt.Errorf("failed to derive udk: %w", err)
	}
	kcv, err := cryptoutils.KCV(udk)
	if err != nil {
		return fmt.Errorf("failed to compute check value: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "UDK: %s\n", udk)
	fmt.Fprintf(out, "KCV: %s\n", kcv)

	return nil
}

func runSessionKey(cmd *cobra.Command, _ []string) error {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, _ = service.NewRequestContext(ctx)

	resp, err := service.DeriveKeys(ctx, service.KeyRequest{
		IssuerMasterKey:               get("imk"),
		Pan:                           get("pan"),
		PanSequenceNumber:             get("psn"),
		ApplicationTransactionCounter: get("atc"),
		UnpredictableNumber:           get("un"),
		IssuerApplicationData:         get("iad"),
	})
	if err != nil {
		return fmt.Errorf("failed to derive session key: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scheme:          %s\n", resp.Scheme)
	fmt.Fprintf(out, "CVN:             %s\n", resp.CVN)
	if resp.SKDMethod != "" {
		fmt.Fprintf(out, "SKD Method:      %s\n", resp.SKDMethod)
	}
	fmt.Fprintf(out, "UDK KCV:         %s\n", resp.UDKCheckValue)
	fmt.Fprintf(out, "Session Key:     %s\n", resp.SessionKey)
	fmt.Fprintf(out, "Session Key KCV: %s\n", resp.SessionKeyKCV)

	return nil
}

func runCheck(cmd *cobra.Command, _ []string) error {
	key, _ := cmd.Flags().GetString("key")

	kcv, err := cryptoutils.KCV(key)
	if err != nil {
		return fmt.Errorf("failed to compute check value: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "KCV: %s\n", kcv)

	return nil
}
