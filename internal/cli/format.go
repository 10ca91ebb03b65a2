// Package cli contains utilities for CLI operations.
package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/andrei-cloud/go_arqc/pkg/emv"
)

// CVNSupport describes how a cryptogram version is processed.
type CVNSupport struct {
	Scheme     emv.PaymentScheme
	CVN        string
	SessionKey string
	Padding    string
	Supported  bool
}

// GetSupportedCVNs returns the cryptogram versions known per scheme, in display order.
func GetSupportedCVNs() []CVNSupport {
	return []CVNSupport{
		{emv.Visa, "10 (0A)", "UDK", "ISO 9797-1 method 1", true},
		{emv.Visa, "14 (0E)", "EMV common session key", "ISO 9797-1 method 2", true},
		{emv.Visa, "18 (12)", "EMV common session key", "ISO 9797-1 method 2", true},
		{emv.Visa, "22", "EMV option B UDK", "-", false},
		{emv.Visa, "2C", "EMV common session key", "ISO 9797-1 method 2", true},
		{emv.Mastercard, "10", "Mastercard proprietary (ATC, UN)", "ISO 9797-1 method 1", true},
		{emv.Mastercard, "14", "EMV common session key", "ISO 9797-1 method 2", true},
		{emv.Mastercard, "16", "Mastercard proprietary (ATC, UN)", "ISO 9797-1 method 2", true},
		{emv.Mastercard, "17", "offline counters", "-", false},
		{emv.Mastercard, "20", "EMV common session key", "ISO 9797-1 method 2", true},
		{emv.Mastercard, "21", "offline counters", "-", false},
	}
}

// PrintSupportedCVNs prints the cryptogram versions as a table.
func PrintSupportedCVNs(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCHEME\tCVN\tSESSION KEY\tPADDING\tSUPPORTED")
	for _, c := range GetSupportedCVNs() {
		supported := "yes"
		if !c.Supported {
			supported = "no"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.Scheme, c.CVN, c.SessionKey, c.Padding, supported)
	}
	tw.Flush()
}

// PrintFields prints name and value pairs aligned in two columns.
func PrintFields(w io.Writer, fields [][2]string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range fields {
		fmt.Fprintf(tw, "%s:\t%s\n", f[0], f[1])
	}
	tw.Flush()
}
