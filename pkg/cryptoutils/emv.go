package cryptoutils

import (
	"crypto/des"
	"errors"
	"fmt"
	"slices"
)

// ICCKeyInputDigits is the number of PAN || PSN digits that feed Option A.
const ICCKeyInputDigits = 16

// DeriveICCKey derives the 16 byte ICC master key (UDK) per EMV A1.4 Option A.
//
// digits are the rightmost 16 decimal digits of PAN || PSN. The key is
// E(Y, imk) || E(Y xor FF..FF, imk) with Y the BCD form of digits. Parity is not adjusted.
func DeriveICCKey(digits string, imk []byte) ([]byte, error) {
	if len(digits) != ICCKeyInputDigits {
		return nil, fmt.Errorf("option A needs %d digits, got %d", ICCKeyInputDigits, len(digits))
	}
	y, err := bcdEncode(digits)
	if err != nil {
		return nil, err
	}

	return derive3DESKey(imk, y)
}

// derive3DESKey returns ZL || ZR, the encryptions of block8 and its complement.
func derive3DESKey(imk, block8 []byte) ([]byte, error) {
	if len(block8) != des.BlockSize {
		return nil, errors.New("invalid block size for 3DES")
	}
	c, err := des.NewTripleDESCipher(PrepareTripleDESKey(imk))
	if err != nil {
		return nil, err
	}
	zl := make([]byte, des.BlockSize)
	c.Encrypt(zl, block8)
	tmp := make([]byte, des.BlockSize)
	for i := range block8 {
		tmp[i] = block8[i] ^ 0xFF
	}
	zr := make([]byte, des.BlockSize)
	c.Encrypt(zr, tmp)

	return slices.Concat(zl, zr), nil
}

// bcdEncode converts an even-length string of decimal digits into BCD bytes.
func bcdEncode(digits string) ([]byte, error) {
	if len(digits)%2 != 0 {
		return nil, errors.New("must be even number of digits for BCD")
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		hi := digits[2*i] - '0'
		lo := digits[2*i+1] - '0'
		if hi > 9 || lo > 9 {
			return nil, &HexDecodeError{Field: "pan", Value: digits}
		}

		out[i] = hi<<4 | lo
	}

	return out, nil
}
