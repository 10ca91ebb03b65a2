package emv

import (
	"regexp"
)

var (
	visaPrefixPattern = regexp.MustCompile(`^(06|1F|1f).*`)
	visaLengthPattern = regexp.MustCompile(`^[\da-fA-F]{14}(?:[\da-fA-F]{2}){0,25}$`)
	hexPattern        = regexp.MustCompile(`^[\da-fA-F]*$`)
)

// ParseVisaIAD parses a VIS IAD in Format 0/1/3 (leading 06) or Format 2 (leading 1F).
//
// The IddOptionId field is reduced to its low nibble and IADFormat is set to the high nibble
// of the native CVN byte. The returned CVN field carries the generic name.
func ParseVisaIAD(iad string) (ParsedIAD, error) {
	if !visaPrefixPattern.MatchString(iad) {
		return ParsedIAD{}, &MalformedIadError{Scheme: Visa, Value: iad, Reason: "must start with 06 or 1F"}
	}
	if !visaLengthPattern.MatchString(iad) {
		return ParsedIAD{}, &MalformedIadError{
			Scheme: Visa,
			Value:  iad,
			Reason: "must be 14 to 64 hex characters of even length",
		}
	}
	iad = normalize(iad)

	fields, missing := extract(iad, layouts[layoutKey{Visa, iad[:2]}])
	if missing != "" {
		return ParsedIAD{}, &MalformedIadError{Scheme: Visa, Value: iad, Reason: "too short for " + missing}
	}

	native := lookup(fields, FieldCVN)
	cvn, ok := visaCVNs[native]
	if !ok {
		return ParsedIAD{}, &UnsupportedCvnError{Scheme: Visa, Cvn: native, Reason: "unknown cryptogram version"}
	}

	if option := lookup(fields, FieldIddOptionID); option != "" {
		fields = set(fields, FieldIddOptionID, option[1:])
	}
	fields = set(fields, FieldCVN, cvn.String())
	fields = set(fields, FieldIADFormat, native[:1])

	return ParsedIAD{
		scheme: Visa,
		raw:    iad,
		cvn:    cvn,
		fields: fields,
	}, nil
}
