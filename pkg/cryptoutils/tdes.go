package cryptoutils

import (
	"crypto/cipher"
	"crypto/des"
	"encoding/hex"
	"fmt"

	"github.com/andreburgaud/crypt2go/ecb"
)

// ExpandTDEAKey extends a single or double length key to triple length.
// Single length keys become K|K|K, double length keys K|K[0:16]. Parity is left untouched.
func ExpandTDEAKey(key string) (string, error) {
	switch len(key) {
	case KEY_LENGTH_SINGLE:
		return key + key + key, nil
	case KEY_LENGTH_DOUBLE:
		return key + key[:KEY_LENGTH_SINGLE], nil
	case KEY_LENGTH_TRIPLE:
		return key, nil
	default:
		return "", fmt.Errorf("%w: %d hex characters", ErrInvalidKeyLength, len(key))
	}
}

// EncryptTDES encrypts block aligned hex data under key in ECB mode without padding.
func EncryptTDES(data, key string) (string, error) {
	return tdes("tdes encrypt", data, key, true)
}

// DecryptTDES decrypts block aligned hex data under key in ECB mode without padding.
func DecryptTDES(data, key string) (string, error) {
	return tdes("tdes decrypt", data, key, false)
}

// DecodeKey decodes a single, double or triple length hex key without expanding it.
// Key material is redacted from the returned errors.
func DecodeKey(key string) ([]byte, error) {
	switch len(key) {
	case KEY_LENGTH_SINGLE, KEY_LENGTH_DOUBLE, KEY_LENGTH_TRIPLE:
	default:
		return nil, fmt.Errorf("%w: %d hex characters", ErrInvalidKeyLength, len(key))
	}
	raw, err := hex.DecodeString(key)
	if err != nil {
		return nil, &HexDecodeError{Field: "key", Value: redact(key)}
	}

	return raw, nil
}

// PrepareTripleDESKey extends a single or double length key to the 24 bytes expected by
// des.NewTripleDESCipher. Other lengths are returned as is.
func PrepareTripleDESKey(key []byte) []byte {
	var key24 []byte
	switch len(key) {
	case des.BlockSize:
		key24 = make([]byte, 3*des.BlockSize)
		copy(key24, key)
		copy(key24[des.BlockSize:], key)
		copy(key24[2*des.BlockSize:], key)
	case 2 * des.BlockSize:
		key24 = make([]byte, 3*des.BlockSize)
		copy(key24, key)
		copy(key24[2*des.BlockSize:], key[:des.BlockSize])
	default:
		key24 = key
	}

	return key24
}

func tdes(op, data, key string, encrypt bool) (string, error) {
	expanded, err := ExpandTDEAKey(key)
	if err != nil {
		return "", &CryptoOperationError{Op: op, Err: err}
	}
	rawKey, err := DecodeKey(expanded)
	if err != nil {
		return "", &CryptoOperationError{Op: op, Err: err}
	}
	in, err := Str2Raw("data", data)
	if err != nil {
		return "", &CryptoOperationError{Op: op, Err: err}
	}
	if len(in)%des.BlockSize != 0 {
		return "", &CryptoOperationError{
			Op:  op,
			Err: fmt.Errorf("data length %d is not a multiple of %d bytes", len(in), des.BlockSize),
		}
	}

	block, err := des.NewTripleDESCipher(rawKey)
	if err != nil {
		return "", &CryptoOperationError{Op: op, Err: err}
	}

	var mode cipher.BlockMode
	if encrypt {
		mode = ecb.NewECBEncrypter(block)
	} else {
		mode = ecb.NewECBDecrypter(block)
	}
	out := make([]byte, len(in))
	mode.CryptBlocks(out, in)

	return Raw2Str(out), nil
}

// KCV returns the key check value: the first 3 bytes of a zero block encrypted under key.
func KCV(key string) (string, error) {
	out, err := EncryptTDES(Pad("", '0', BlockSize, false), key)
	if err != nil {
		return "", err
	}

	return out[:6], nil
}
