package cryptoutils

import (
	"crypto/des"
	"fmt"
	"slices"
)

// Diversification bytes written at offset 2 of r for the two session key halves.
const (
	sessionKeyLeft  = 0xF0
	sessionKeyRight = 0x0F
)

// DeriveSessionKey derives a double length session key from the ICC master key km and the
// 8 byte diversification data r, following EMV A1.3.1.
//
// Byte 2 of r is set to F0 for the left half and to 0F for the right half; both are
// encrypted under km. With r = ATC || 00..00 this is the EMV common session key, with
// r = ATC || 0000 || UN the Mastercard proprietary derivation.
func DeriveSessionKey(km, r []byte) ([]byte, error) {
	if len(r) != des.BlockSize {
		return nil, fmt.Errorf("diversification data must be %d bytes, got %d", des.BlockSize, len(r))
	}
	if len(km) != 2*des.BlockSize {
		return nil, fmt.Errorf("%w: master key has %d bytes", ErrInvalidKeyLength, len(km))
	}

	f1 := slices.Clone(r)
	f2 := slices.Clone(r)
	f1[2] = sessionKeyLeft
	f2[2] = sessionKeyRight

	c, err := des.NewTripleDESCipher(PrepareTripleDESKey(km))
	if err != nil {
		return nil, err
	}
	blk1 := make([]byte, des.BlockSize)
	blk2 := make([]byte, des.BlockSize)
	c.Encrypt(blk1, f1)
	c.Encrypt(blk2, f2)

	return slices.Concat(blk1, blk2), nil
}
