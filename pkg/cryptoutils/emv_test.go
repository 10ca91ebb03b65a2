package cryptoutils

import (
	"encoding/hex"
	"errors"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex %q: %v", s, err)
	}

	return b
}

func TestDeriveICCKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		digits string
		want   string
	}{
		{"visa psn 00", "1111111111111100", "30089565674D73ED841A6F0637029C18"},
		{"visa psn 01", "1111111111111101", "A669CF9F1551FCE3A55A4C7C3CE9DD52"},
		{"mastercard psn 01", "1333008901043401", "030BC88351BEF3E687E851FDFCEA1649"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := DeriveICCKey(tt.digits, mustHex(t, testIMK))
			if err != nil {
				t.Fatalf("DeriveICCKey() error: %v", err)
			}
			if Raw2Str(got) != tt.want {
				t.Errorf("DeriveICCKey() = %X, want %s", got, tt.want)
			}
		})
	}
}

func TestDeriveICCKeyErrors(t *testing.T) {
	t.Parallel()

	imk := mustHex(t, testIMK)

	if _, err := DeriveICCKey("11111111", imk); err == nil {
		t.Error("expected error for short input")
	}

	_, err := DeriveICCKey("11111111111111ZZ", imk)
	var hexErr *HexDecodeError
	if !errors.As(err, &hexErr) {
		t.Errorf("non-decimal digits: got %v, want *HexDecodeError", err)
	}

	if _, err := DeriveICCKey("1111111111111100", imk[:5]); err == nil {
		t.Error("expected error for invalid key length")
	}
}

func TestBCDEncode(t *testing.T) {
	t.Parallel()

	got, err := bcdEncode("0123456789")
	if err != nil {
		t.Fatalf("bcdEncode() error: %v", err)
	}
	if Raw2Str(got) != "0123456789" {
		t.Errorf("bcdEncode() = %X, want 0123456789", got)
	}
	if _, err := bcdEncode("123"); err == nil {
		t.Error("expected error for odd length")
	}
}
