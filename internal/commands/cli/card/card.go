// Package card provides commands that inspect card data without keys.
package card

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andrei-cloud/go_arqc/internal/cli"
	"github.com/andrei-cloud/go_arqc/pkg/emv"
	"github.com/spf13/cobra"
)

var errSchemeRequired = errors.New("either --pan or --scheme is required")

// NewIADCommand creates the iad command.
func NewIADCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iad [issuer application data]",
		Short: "Parse issuer application data",
		Long: `Parse the issuer application data (tag 9F10) of a Visa or Mastercard card and print
its fields and cryptogram version. The layout is chosen by --scheme or by the PAN.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIAD,
	}

	cmd.Flags().String("scheme", "", "Payment scheme (VISA, MASTERCARD)")
	cmd.Flags().String("pan", "", "PAN used to determine the payment scheme")
	cmd.Flags().Bool("list-cvns", false, "List the supported cryptogram versions")

	return cmd
}

// NewSchemeCommand creates the scheme command.
func NewSchemeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scheme <pan>",
		Short: "Determine the payment scheme of a PAN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pan := args[0]
			cli.PrintFields(cmd.OutOrStdout(), [][2]string{
				{"PAN", emv.MaskPAN(pan)},
				{"Scheme", emv.SchemeFromPan(pan).String()},
			})

			return nil
		},
	}
}

func runIAD(cmd *cobra.Command, args []string) error {
	if list, _ := cmd.Flags().GetBool("list-cvns"); list {
		cli.PrintSupportedCVNs(cmd.OutOrStdout())
		return nil
	}
	if len(args) == 0 {
		return errors.New("issuer application data is required")
	}

	scheme, err := schemeFromFlags(cmd)
	if err != nil {
		return err
	}

	parsed, err := emv.ParseIAD(scheme, args[0])
	if err != nil {
		return fmt.Errorf("failed to parse iad: %w", err)
	}

	rows := [][2]string{
		{"Scheme", parsed.Scheme().String()},
		{"Generic CVN", parsed.CVN().String()},
	}
	if skd := parsed.SKDMethod(); skd != "" {
		rows = append(rows, [2]string{"SKD Method", string(skd)})
	}
	for _, name := range parsed.Names() {
		value, _ := parsed.Get(name)
		rows = append(rows, [2]string{name, value})
	}
	cli.PrintFields(cmd.OutOrStdout(), rows)

	return nil
}

func schemeFromFlags(cmd *cobra.Command) (emv.PaymentScheme, error) {
	if name, _ := cmd.Flags().GetString("scheme"); name != "" {
		switch scheme := emv.PaymentScheme(strings.ToUpper(name)); scheme {
		case emv.Visa, emv.Mastercard, emv.PrivateLabel, emv.Unknown:
			return scheme, nil
		default:
			return "", fmt.Errorf("unknown payment scheme: %s", name)
		}
	}
	if pan, _ := cmd.Flags().GetString("pan"); pan != "" {
		return emv.SchemeFromPan(pan), nil
	}

	return "", errSchemeRequired
}
