package arqc

import (
	"errors"
	"fmt"

	"github.com/andrei-cloud/go_arqc/internal/service"
	"github.com/spf13/cobra"
)

var errMismatch = errors.New("cryptogram mismatch")

// NewVerifyCommand creates the verify command.
func NewVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify an application request cryptogram",
		Long: `Recompute the ARQC of a transaction and compare it with the cryptogram sent by the card.
With --tlv the cryptogram of tag 9F26 is used unless --arqc is given.
The command fails when the cryptograms differ.`,
		RunE: runVerify,
	}

	addTransactionFlags(cmd)
	cmd.Flags().String("arqc", "", "Cryptogram to verify (16 hex)")

	return cmd
}

func runVerify(cmd *cobra.Command, _ []string) error {
	req, cardARQC, err := requestFromFlags(cmd)
	if err != nil {
		return err
	}
	arqc, _ := cmd.Flags().GetString("arqc")
	if arqc == "" {
		arqc = cardARQC
	}

	resp, err := service.VerifyAC(requestContext(cmd), service.VerifyACRequest{GenerateACRequest: req, ARQC: arqc})
	if err != nil {
		printValidation(cmd.ErrOrStderr(), err)
		return fmt.Errorf("failed to verify cryptogram: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scheme:   %s\n", resp.Scheme)
	fmt.Fprintf(out, "CVN:      %s\n", resp.CVN)
	fmt.Fprintf(out, "Expected: %s\n", resp.Expected)
	if !resp.Match {
		fmt.Fprintln(out, "Result:   MISMATCH")
		return errMismatch
	}
	fmt.Fprintln(out, "Result:   MATCH")

	return nil
}
