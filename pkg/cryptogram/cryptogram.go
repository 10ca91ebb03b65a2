// Package cryptogram assembles EMV transaction data and computes the Application Request
// Cryptogram (ARQC) over it with the session key.
package cryptogram

import (
	"crypto/subtle"
	"fmt"
	"regexp"
	"strings"

	"github.com/andrei-cloud/go_arqc/pkg/cryptoutils"
	"github.com/andrei-cloud/go_arqc/pkg/emv"
)

// ApplicationCryptogramType is the only cryptogram type produced.
const ApplicationCryptogramType = "ARQC"

// Widths of the numeric transaction data elements in hex characters.
const (
	amountLength   = 12
	countryLength  = 4
	currencyLength = 4
	atcLength      = 4
	dateLength     = 6 // YYMMDD
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Transaction carries the terminal and card data elements covered by the cryptogram.
// Values are hex or decimal text as received; numeric elements are left padded with zeros.
type Transaction struct {
	AmountAuthorised              string
	AmountOther                   string
	TerminalCountryCode           string
	TerminalVerificationResults   string
	TransactionCurrencyCode       string
	TransactionDate               string // YYYY-MM-DD
	TransactionType               string
	UnpredictableNumber           string
	ApplicationInterchangeProfile string
	ApplicationTransactionCounter string
	IssuerApplicationData         string
}

// FieldError reports a transaction element that cannot be encoded.
type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}

// Assemble concatenates the transaction data in cryptogram order:
// amount, other amount, terminal country, TVR, currency, date (YYMMDD), type, UN, AIP, ATC,
// followed by the CVR for CVN10 or the whole IAD otherwise.
func Assemble(tx Transaction, cvn emv.CVN, cvr string) (string, error) {
	date, err := emvDate(tx.TransactionDate)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(cryptoutils.Pad(tx.AmountAuthorised, '0', amountLength, true))
	b.WriteString(cryptoutils.Pad(tx.AmountOther, '0', amountLength, true))
	b.WriteString(cryptoutils.Pad(tx.TerminalCountryCode, '0', countryLength, true))
	b.WriteString(tx.TerminalVerificationResults)
	b.WriteString(cryptoutils.Pad(tx.TransactionCurrencyCode, '0', currencyLength, true))
	b.WriteString(date)
	b.WriteString(tx.TransactionType)
	b.WriteString(tx.UnpredictableNumber)
	b.WriteString(tx.ApplicationInterchangeProfile)
	b.WriteString(cryptoutils.Pad(tx.ApplicationTransactionCounter, '0', atcLength, true))
	if cvn == emv.CVN10 {
		b.WriteString(cvr)
	} else {
		b.WriteString(tx.IssuerApplicationData)
	}

	return strings.ToUpper(b.String()), nil
}

// emvDate cuts YYMMDD out of a YYYY-MM-DD date. Calendar validity is the caller's concern.
func emvDate(date string) (string, error) {
	if !isoDatePattern.MatchString(date) {
		return "", &FieldError{Field: "TransactionDate", Value: date}
	}

	return date[2:4] + date[5:7] + date[8:10], nil
}

// Pad applies ISO/IEC 9797-1 method 1 for CVN10 and method 2 for every other CVN.
func Pad(data string, cvn emv.CVN) string {
	if cvn == emv.CVN10 {
		return cryptoutils.PadISO9797Method1(data)
	}

	return cryptoutils.PadISO9797Method2(data)
}

// MAC computes the ISO/IEC 9797-1 algorithm 3 MAC of block aligned data.
//
// Blocks are chained under the left half of the session key, the last result is decrypted
// under the right half and encrypted again under the left half.
func MAC(data, sessionKey string) (string, error) {
	if len(sessionKey) != cryptoutils.KEY_LENGTH_DOUBLE {
		return "", &cryptoutils.CryptoOperationError{
			Op:  "mac",
			Err: fmt.Errorf("%w: session key has %d hex characters", cryptoutils.ErrInvalidKeyLength, len(sessionKey)),
		}
	}
	if data == "" || len(data)%cryptoutils.BlockSize != 0 {
		return "", &cryptoutils.CryptoOperationError{
			Op:  "mac",
			Err: fmt.Errorf("data length %d is not a positive multiple of %d", len(data), cryptoutils.BlockSize),
		}
	}
	key, err := cryptoutils.DecodeKey(sessionKey)
	if err != nil {
		return "", &cryptoutils.CryptoOperationError{Op: "mac", Err: err}
	}
	msg, err := cryptoutils.Str2Raw("data", data)
	if err != nil {
		return "", err
	}

	mac, err := cryptoutils.CalculateMAC(msg, key)
	if err != nil {
		return "", &cryptoutils.CryptoOperationError{Op: "mac", Err: err}
	}

	return cryptoutils.Raw2Str(mac), nil
}

// Generate assembles, pads and MACs the transaction data and returns the ARQC.
// Schemes and CVNs without a known cryptogram layout are rejected before any data is built.
func Generate(tx Transaction, sessionKey string, cvn emv.CVN, cvr string, scheme emv.PaymentScheme) (string, error) {
	if err := emv.CheckCVN(scheme, cvn); err != nil {
		return "", err
	}

	data, err := Assemble(tx, cvn, cvr)
	if err != nil {
		return "", err
	}

	return MAC(Pad(data, cvn), sessionKey)
}

// Verify recomputes the ARQC and compares it with arqc in constant time.
func Verify(tx Transaction, sessionKey string, cvn emv.CVN, cvr string, scheme emv.PaymentScheme, arqc string) (bool, error) {
	want, err := Generate(tx, sessionKey, cvn, cvr, scheme)
	if err != nil {
		return false, err
	}

	return Match(want, arqc), nil
}

// Match compares two cryptograms case insensitively in constant time.
func Match(expected, arqc string) bool {
	return subtle.ConstantTimeCompare([]byte(strings.ToUpper(expected)), []byte(strings.ToUpper(arqc))) == 1
}
