// Package cryptoutils provides the Triple-DES, XOR and padding primitives shared by the EMV
// key derivation and cryptogram packages: hex-string helpers for the request path, and
// byte-level ICC key, session key and MAC computations underneath them.
package cryptoutils

import (
	"encoding/hex"
	"strings"
)

const (
	// BlockSize is the DES block size in hex characters.
	BlockSize = 16

	KEY_LENGTH_SINGLE = 16
	KEY_LENGTH_DOUBLE = 32
	KEY_LENGTH_TRIPLE = 48

	ISO9797_METHOD1_PADDING = "0"
	ISO9797_METHOD2_PADDING = "80"
)

// Raw2Str converts raw binary data to an uppercase hex string.
func Raw2Str(raw []byte) string {
	return strings.ToUpper(hex.EncodeToString(raw))
}

// Str2Raw decodes a hex string, reporting the offending field on failure.
func Str2Raw(field, value string) ([]byte, error) {
	raw, err := hex.DecodeString(value)
	if err != nil {
		return nil, &HexDecodeError{Field: field, Value: value}
	}

	return raw, nil
}

// IsHex reports whether s is a non-empty string of hex digits.
func IsHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}

	return true
}

// Chunk splits b into blocks of size sz. The last block may be shorter.
func Chunk(b []byte, sz int) [][]byte {
	if sz <= 0 {
		return nil
	}
	n := (len(b) + sz - 1) / sz
	out := make([][]byte, n)
	for i := range n {
		out[i] = b[i*sz : min((i+1)*sz, len(b))]
	}

	return out
}
