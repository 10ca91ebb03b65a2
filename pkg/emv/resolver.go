package emv

// ResolveCvn parses iad with the parser of scheme and returns its generic CVN.
func ResolveCvn(scheme PaymentScheme, iad string) (CVN, ParsedIAD, error) {
	parsed, err := ParseIAD(scheme, iad)
	if err != nil {
		return "", ParsedIAD{}, err
	}

	return parsed.CVN(), parsed, nil
}

// ParseIAD selects the IAD parser for scheme.
func ParseIAD(scheme PaymentScheme, iad string) (ParsedIAD, error) {
	switch scheme {
	case Visa:
		return ParseVisaIAD(iad)
	case Mastercard:
		return ParseMastercardIAD(iad)
	default:
		return ParsedIAD{}, &UnsupportedSchemeError{Scheme: scheme}
	}
}
