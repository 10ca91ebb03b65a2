package cryptoutils

import (
	"crypto/des"
	"fmt"
)

// CalculateMAC computes the 8 byte ISO/IEC 9797-1 algorithm 3 MAC of msg under the
// double length key ks = k1 || k2.
//
// msg must already be padded. Blocks are CBC chained under k1 with a zero IV, the result
// is decrypted under k2 and encrypted again under k1.
func CalculateMAC(msg, ks []byte) ([]byte, error) {
	if len(ks) != 2*des.BlockSize {
		return nil, fmt.Errorf("%w: MAC key has %d bytes", ErrInvalidKeyLength, len(ks))
	}
	if len(msg) == 0 || len(msg)%des.BlockSize != 0 {
		return nil, fmt.Errorf("data length %d is not a positive multiple of %d bytes", len(msg), des.BlockSize)
	}

	cipher1, err := des.NewTripleDESCipher(PrepareTripleDESKey(ks[:des.BlockSize]))
	if err != nil {
		return nil, err
	}
	cipher2, err := des.NewTripleDESCipher(PrepareTripleDESKey(ks[des.BlockSize:]))
	if err != nil {
		return nil, err
	}

	h := make([]byte, des.BlockSize)
	for _, x := range Chunk(msg, des.BlockSize) {
		xorIn, err := XORBytes(x, h)
		if err != nil {
			return nil, err
		}
		cipher1.Encrypt(h, xorIn)
	}

	tmp := make([]byte, des.BlockSize)
	cipher2.Decrypt(tmp, h)
	cipher1.Encrypt(tmp, tmp)

	return tmp, nil
}

// XORBytes returns a^b for equal-length slices.
func XORBytes(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("xor: length mismatch %d != %d", len(a), len(b))
	}
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}

	return out, nil
}
