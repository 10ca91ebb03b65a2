package emv

// CVN is the scheme independent Cryptogram Version Number.
type CVN string

const (
	CVN10 CVN = "CVN10"
	CVN14 CVN = "CVN14"
	CVN16 CVN = "CVN16"
	CVN17 CVN = "CVN17"
	CVN18 CVN = "CVN18"
	CVN20 CVN = "CVN20"
	CVN21 CVN = "CVN21"
	CVN22 CVN = "CVN22"
	CVN2C CVN = "CVN2C"
)

func (c CVN) String() string {
	return string(c)
}

// SessionKeyDerivationMethod is the Mastercard session key derivation encoded in the CVN.
type SessionKeyDerivationMethod string

const (
	MastercardProprietarySKD SessionKeyDerivationMethod = "MCP_SKD"
	EMVCommonSessionKey      SessionKeyDerivationMethod = "EMV_CSK"
)

// visaCVNs maps the Visa native CVN byte to its generic form.
var visaCVNs = map[string]CVN{
	"0A": CVN10,
	"0E": CVN14,
	"12": CVN18,
	"22": CVN22,
	"2C": CVN2C,
}

// mastercardCVNs lists the Mastercard CVNs that can be computed.
// 17 and 21 include offline counters and are rejected explicitly.
var mastercardCVNs = map[string]CVN{
	"10": CVN10,
	"14": CVN14,
	"16": CVN16,
	"20": CVN20,
}

var mastercardCounterCVNs = map[string]CVN{
	"17": CVN17,
	"21": CVN21,
}

// generationCVNs lists the CVNs whose cryptogram can be computed per scheme. Visa CVN22 is
// accepted here; its session key derivation is what is missing.
var generationCVNs = map[PaymentScheme]map[CVN]bool{
	Visa:       {CVN10: true, CVN14: true, CVN18: true, CVN22: true, CVN2C: true},
	Mastercard: {CVN10: true, CVN14: true, CVN16: true, CVN20: true},
}

// CheckCVN reports whether a cryptogram of cvn can be computed for scheme.
func CheckCVN(scheme PaymentScheme, cvn CVN) error {
	supported, ok := generationCVNs[scheme]
	if !ok {
		return &UnsupportedSchemeError{Scheme: scheme}
	}
	if supported[cvn] {
		return nil
	}

	reason := "unknown cryptogram version"
	if cvn == CVN17 || cvn == CVN21 {
		reason = "offline counters are not supported"
	}

	return &UnsupportedCvnError{Scheme: scheme, Cvn: cvn.String(), Reason: reason}
}
