package cryptoutils

// XORHex XORs two hex strings and returns the uppercase hex result.
// The shorter operand is left padded with zeros to the length of the longer one.
func XORHex(a, b string) (string, error) {
	switch {
	case len(a) > len(b):
		b = Pad(b, '0', len(a), true)
	case len(b) > len(a):
		a = Pad(a, '0', len(b), true)
	}

	ra, err := Str2Raw("xor operand", a)
	if err != nil {
		return "", err
	}
	rb, err := Str2Raw("xor operand", b)
	if err != nil {
		return "", err
	}

	out := make([]byte, len(ra))
	for i := range ra {
		out[i] = ra[i] ^ rb[i]
	}

	return Raw2Str(out), nil
}
