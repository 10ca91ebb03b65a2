// Package emv resolves the payment scheme of a card and parses the scheme specific
// Issuer Application Data (IAD) into named fields and a generic Cryptogram Version Number.
package emv

// PaymentScheme identifies the card brand that owns a PAN.
type PaymentScheme string

const (
	Visa         PaymentScheme = "VISA"
	Mastercard   PaymentScheme = "MASTERCARD"
	PrivateLabel PaymentScheme = "PRIVATE_LABEL"
	Unknown      PaymentScheme = "UNKNOWN"
)

// PanLength is the only PAN length with a resolvable scheme.
const PanLength = 16

func (s PaymentScheme) String() string {
	return string(s)
}

// SchemeFromPan maps a 16 digit PAN to its payment scheme by its first digit.
// Any other input resolves to Unknown.
func SchemeFromPan(pan string) PaymentScheme {
	if len(pan) != PanLength || !isDigits(pan) {
		return Unknown
	}

	switch pan[0] {
	case '4':
		return Visa
	case '5':
		return Mastercard
	case '6':
		return PrivateLabel
	default:
		return Unknown
	}
}

// MaskPAN keeps the first six and last four digits of a PAN.
func MaskPAN(pan string) string {
	if len(pan) < 11 {
		return pan
	}
	masked := []byte(pan)
	for i := 6; i < len(masked)-4; i++ {
		masked[i] = '*'
	}

	return string(masked)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
