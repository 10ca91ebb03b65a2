package cryptoutils

import (
	"errors"
	"testing"
)

func TestCalculateMAC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  string
		key  string
		want string
	}{
		{
			name: "method 1 padded, udk",
			msg:  PadISO9797Method1("0000000123000000000000000784800004800008402505220052BF45851800005E06011203"),
			key:  "30089565674D73ED841A6F0637029C18",
			want: "076C5766F738E9A6",
		},
		{
			name: "method 2 padded, session key",
			msg:  PadISO9797Method2("0000000123000000000000000784800004800008402505220052BF45851800005E06011203A0B800"),
			key:  "F05C5C15703F0AA93DBA010A463A7AED",
			want: "FDBA87A3C606B92F",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := CalculateMAC(mustHex(t, tt.msg), mustHex(t, tt.key))
			if err != nil {
				t.Fatalf("CalculateMAC() error: %v", err)
			}
			if Raw2Str(got) != tt.want {
				t.Errorf("CalculateMAC() = %X, want %s", got, tt.want)
			}
		})
	}
}

func TestCalculateMACErrors(t *testing.T) {
	t.Parallel()

	key := mustHex(t, "F05C5C15703F0AA93DBA010A463A7AED")

	_, err := CalculateMAC(make([]byte, 8), key[:8])
	if !errors.Is(err, ErrInvalidKeyLength) {
		t.Errorf("single length key: got %v, want ErrInvalidKeyLength", err)
	}
	if _, err := CalculateMAC(make([]byte, 5), key); err == nil {
		t.Error("expected error for unaligned data")
	}
	if _, err := CalculateMAC(nil, key); err == nil {
		t.Error("expected error for empty data")
	}
}

func TestXORBytes(t *testing.T) {
	t.Parallel()

	got, err := XORBytes([]byte{0xF0, 0x0F}, []byte{0xFF, 0xFF})
	if err != nil {
		t.Fatalf("XORBytes() error: %v", err)
	}
	if Raw2Str(got) != "0FF0" {
		t.Errorf("XORBytes() = %X, want 0FF0", got)
	}
	if _, err := XORBytes([]byte{1}, []byte{1, 2}); err == nil {
		t.Error("expected error for length mismatch")
	}
}

func TestPrepareTripleDESKey(t *testing.T) {
	t.Parallel()

	single := mustHex(t, "0123456789ABCDEF")
	double := mustHex(t, testIMK)

	if got := Raw2Str(PrepareTripleDESKey(single)); got != "0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF" {
		t.Errorf("single = %s", got)
	}
	if got := Raw2Str(PrepareTripleDESKey(double)); got != testIMK+"0123456789ABCDEF" {
		t.Errorf("double = %s", got)
	}
}
