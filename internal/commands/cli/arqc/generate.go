package arqc

import (
	"fmt"

	"github.com/andrei-cloud/go_arqc/internal/service"
	"github.com/spf13/cobra"
)

// NewGenerateCommand creates the arqc command.
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arqc",
		Short: "Generate an application request cryptogram",
		Long: `Generate the ARQC of a Visa or Mastercard transaction.
Transaction data is taken from flags, from hex encoded ICC data (--tlv),
or entered in an interactive form (--interactive).`,
		Example: `  go_arqc arqc --imk 0123456789ABCDEFFEDCBA9876543210 --pan 4111111111111111 \
    --amount 12300 --country 784 --tvr 8000048000 --currency 840 --date 2025-05-22 \
    --un 52BF4585 --aip 1800 --atc 005E --iad 06011203A0B800`,
		RunE: runGenerate,
	}

	addTransactionFlags(cmd)
	cmd.Flags().Bool("interactive", false, "Enter the transaction data in an interactive form")

	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	interactive, _ := cmd.Flags().GetBool("interactive")

	var (
		req service.GenerateACRequest
		err error
	)
	if interactive {
		var ok bool
		req, ok, err = runTransactionForm(flagRequest(cmd))
		if err != nil {
			return fmt.Errorf("interactive form failed: %w", err)
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Operation cancelled.")
			return nil
		}
	} else if req, _, err = requestFromFlags(cmd); err != nil {
		return err
	}

	resp, err := service.GenerateAC(requestContext(cmd), req)
	if err != nil {
		printValidation(cmd.ErrOrStderr(), err)
		return fmt.Errorf("failed to generate cryptogram: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scheme: %s\n", resp.Scheme)
	fmt.Fprintf(out, "CVN:    %s\n", resp.CVN)
	fmt.Fprintf(out, "%s:   %s\n", resp.Type, resp.ARQC)

	return nil
}
