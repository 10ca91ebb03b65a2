package emv

import (
	"fmt"
	"strconv"
)

// Accepted Mastercard IAD lengths in hex characters.
var mastercardLengths = map[int]bool{36: true, 40: true, 52: true, 56: true}

// mastercardPlainLimit is the longest IAD whose counters are carried in plaintext.
const mastercardPlainLimit = 40

// ParseMastercardIAD parses an M/Chip IAD of 36, 40, 52 or 56 hex characters.
//
// Layout: DKI(2) CVN(2) CVR(12, 8 for CVN 10) DAC/ICC(4) Counters(16, or 32 when the IAD is
// longer than 40) LastOnlineATC(4). Characters past LastOnlineATC are ignored.
func ParseMastercardIAD(iad string) (ParsedIAD, error) {
	iad = normalize(iad)
	if !mastercardLengths[len(iad)] {
		return ParsedIAD{}, &MalformedIadError{
			Scheme: Mastercard,
			Value:  iad,
			Reason: fmt.Sprintf("length %d is not one of 36, 40, 52, 56", len(iad)),
		}
	}
	if !hexPattern.MatchString(iad) {
		return ParsedIAD{}, &MalformedIadError{Scheme: Mastercard, Value: iad, Reason: "not hexadecimal"}
	}

	native := iad[2:4]
	cvn, err := mastercardCVN(native)
	if err != nil {
		return ParsedIAD{}, err
	}
	skd, err := mastercardSKDMethod(native)
	if err != nil {
		return ParsedIAD{}, err
	}

	layout := mastercardLayout(native, len(iad))
	fields, missing := extract(iad, layout)
	if missing != "" {
		return ParsedIAD{}, &MalformedIadError{
			Scheme: Mastercard,
			Value:  iad,
			Reason: fmt.Sprintf("too short for %s with CVN %s", missing, native),
		}
	}
	fields = set(fields, FieldCVN, cvn.String())

	return ParsedIAD{
		scheme: Mastercard,
		raw:    iad,
		cvn:    cvn,
		skd:    skd,
		fields: fields,
	}, nil
}

func mastercardCVN(native string) (CVN, error) {
	if cvn, ok := mastercardCVNs[native]; ok {
		return cvn, nil
	}
	if _, ok := mastercardCounterCVNs[native]; ok {
		return "", &UnsupportedCvnError{
			Scheme: Mastercard,
			Cvn:    native,
			Reason: "offline counters are not supported",
		}
	}

	return "", &UnsupportedCvnError{Scheme: Mastercard, Cvn: native, Reason: "unknown cryptogram version"}
}

// mastercardSKDMethod reads the session key derivation bits from the low digit of the CVN.
// Of its 4 bit binary form, bits [1:3] select the method: 00 or 11 proprietary, 10 common.
func mastercardSKDMethod(native string) (SessionKeyDerivationMethod, error) {
	digit, err := strconv.ParseUint(native[1:], 10, 4)
	if err != nil {
		return "", &UnsupportedCvnError{Scheme: Mastercard, Cvn: native, Reason: "CVN is not decimal"}
	}
	bits := fmt.Sprintf("%04b", digit)[1:3]
	switch bits {
	case "00", "11":
		return MastercardProprietarySKD, nil
	case "10":
		return EMVCommonSessionKey, nil
	default:
		return "", &UnsupportedCvnError{
			Scheme: Mastercard,
			Cvn:    native,
			Reason: "unknown session key derivation bits " + bits,
		}
	}
}

func mastercardLayout(native string, length int) []fieldSpec {
	key := layoutKey{Mastercard, mastercardLongCVR}
	if native == "10" {
		key.format = mastercardShortCVR
	}
	base := layouts[key]
	layout := make([]fieldSpec, len(base))
	copy(layout, base)
	if length > mastercardPlainLimit {
		for i := range layout {
			if layout[i].name == FieldCounters {
				layout[i].length = mastercardEncryptedCounters
			}
		}
	}

	return layout
}
