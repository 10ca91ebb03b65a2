package cryptoutils

import (
	"errors"
	"testing"
)

func TestDeriveSessionKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		km   string
		r    string
		want string
	}{
		{
			name: "common session key",
			km:   "30089565674D73ED841A6F0637029C18",
			r:    "005E000000000000",
			want: "F05C5C15703F0AA93DBA010A463A7AED",
		},
		{
			name: "common session key, mastercard",
			km:   "E64AF706D9F95A61E7F0F9815BCDF399",
			r:    "0002000000000000",
			want: "317956BF145BECE841BE5EF91C17C945",
		},
		{
			name: "proprietary with unpredictable number",
			km:   "E64AF706D9F95A61E7F0F9815BCDF399",
			r:    "000100002CAE5B04",
			want: "498D984899DAF59869DFBFB3D0847990",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := mustHex(t, tt.r)
			got, err := DeriveSessionKey(mustHex(t, tt.km), r)
			if err != nil {
				t.Fatalf("DeriveSessionKey() error: %v", err)
			}
			if Raw2Str(got) != tt.want {
				t.Errorf("DeriveSessionKey() = %X, want %s", got, tt.want)
			}
			if Raw2Str(r) != tt.r {
				t.Errorf("diversification data modified: %X", r)
			}
		})
	}
}

func TestDeriveSessionKeyErrors(t *testing.T) {
	t.Parallel()

	km := mustHex(t, "30089565674D73ED841A6F0637029C18")

	if _, err := DeriveSessionKey(km, []byte{0x00, 0x01}); err == nil {
		t.Error("expected error for short diversification data")
	}

	_, err := DeriveSessionKey(km[:8], make([]byte, 8))
	if !errors.Is(err, ErrInvalidKeyLength) {
		t.Errorf("single length key: got %v, want ErrInvalidKeyLength", err)
	}
}
