package cryptoutils

import "strings"

// Pad extends value with char up to length characters, on the left when left is set.
// Values already at or beyond length are returned unchanged.
func Pad(value string, char byte, length int, left bool) string {
	n := length - len(value)
	if n <= 0 {
		return value
	}
	fill := strings.Repeat(string(char), n)
	if left {
		return fill + value
	}

	return value + fill
}

// PadISO9797Method1 implements ISO/IEC 9797-1 padding method 1 over hex data.
// Zeros are appended up to the next block boundary; aligned data is returned as is.
func PadISO9797Method1(data string) string {
	return Pad(data, ISO9797_METHOD1_PADDING[0], alignedLength(len(data)), false)
}

// PadISO9797Method2 implements ISO/IEC 9797-1 padding method 2 over hex data.
// The mandatory 80 byte is always appended before zero filling.
func PadISO9797Method2(data string) string {
	return PadISO9797Method1(data + ISO9797_METHOD2_PADDING)
}

func alignedLength(n int) int {
	if r := n % BlockSize; r != 0 {
		return n + BlockSize - r
	}

	return n
}
