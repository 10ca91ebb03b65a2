package keyderivation

import (
	"errors"
	"strings"
	"testing"

	"github.com/andrei-cloud/go_arqc/pkg/cryptoutils"
	"github.com/andrei-cloud/go_arqc/pkg/emv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIMK = "0123456789ABCDEFFEDCBA9876543210"

func TestDeriveUDK(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pan  string
		psn  string
		want string
	}{
		{"visa psn 00", "4111111111111111", "00", "30089565674D73ED841A6F0637029C18"},
		{"single digit psn", "4111111111111111", "1", "A669CF9F1551FCE3A55A4C7C3CE9DD52"},
		{"padded psn matches", "4111111111111111", "01", "A669CF9F1551FCE3A55A4C7C3CE9DD52"},
		{"visa format 2 card", "4761739001010119", "01", "80A89A585BBF65C2F12814BE578EAAE1"},
		{"mastercard psn 00", "5413330089010434", "00", "E64AF706D9F95A61E7F0F9815BCDF399"},
		{"mastercard psn 01", "5413330089010434", "01", "030BC88351BEF3E687E851FDFCEA1649"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := DeriveUDK(testIMK, tt.pan, tt.psn)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, cryptoutils.KEY_LENGTH_DOUBLE)
		})
	}
}

func TestDeriveUDKSensitivity(t *testing.T) {
	t.Parallel()

	base, err := DeriveUDK(testIMK, "4111111111111111", "00")
	require.NoError(t, err)

	again, err := DeriveUDK(testIMK, "4111111111111111", "00")
	require.NoError(t, err)
	assert.Equal(t, base, again)

	otherPan, err := DeriveUDK(testIMK, "4111111111111112", "00")
	require.NoError(t, err)
	assert.NotEqual(t, base, otherPan)

	otherKey, err := DeriveUDK("FEDCBA98765432100123456789ABCDEF", "4111111111111111", "00")
	require.NoError(t, err)
	assert.NotEqual(t, base, otherKey)
}

func TestDeriveUDKErrors(t *testing.T) {
	t.Parallel()

	_, err := DeriveUDK(testIMK, "1234", "00")
	assert.ErrorIs(t, err, ErrShortPAN)

	_, err = DeriveUDK(testIMK, "41111111111111ZZ", "00")
	var hexErr *cryptoutils.HexDecodeError
	assert.True(t, errors.As(err, &hexErr))

	_, err = DeriveUDK("0123", "4111111111111111", "00")
	assert.ErrorIs(t, err, cryptoutils.ErrInvalidKeyLength)
	assert.NotContains(t, err.Error(), "0123")
}

func TestSessionKey(t *testing.T) {
	t.Parallel()

	const (
		visaUDK   = "30089565674D73ED841A6F0637029C18"
		mcUDK00   = "E64AF706D9F95A61E7F0F9815BCDF399"
		mcUDK01   = "030BC88351BEF3E687E851FDFCEA1649"
		visa14UDK = "A669CF9F1551FCE3A55A4C7C3CE9DD52"
	)

	tests := []struct {
		name   string
		scheme emv.PaymentScheme
		cvn    emv.CVN
		udk    string
		atc    string
		un     string
		want   string
	}{
		{"visa cvn10 is the udk", emv.Visa, emv.CVN10, visaUDK, "005E", "52BF4585", visaUDK},
		{"visa cvn18 common", emv.Visa, emv.CVN18, visaUDK, "005E", "52BF4585", "F05C5C15703F0AA93DBA010A463A7AED"},
		{"visa short atc is padded", emv.Visa, emv.CVN18, visaUDK, "5E", "", "F05C5C15703F0AA93DBA010A463A7AED"},
		{"visa cvn14 common", emv.Visa, emv.CVN14, visa14UDK, "1C", "", "8FC58B846911EF018F1E758E40675349"},
		{
			"visa cvn2c common", emv.Visa, emv.CVN2C, "80A89A585BBF65C2F12814BE578EAAE1", "0001", "",
			"3818C2D4A7A1A70629B5E823E7A89C7F",
		},
		{"mastercard cvn10 proprietary", emv.Mastercard, emv.CVN10, mcUDK00, "0001", "2CAE5B04", "498D984899DAF59869DFBFB3D0847990"},
		{"mastercard cvn14 common", emv.Mastercard, emv.CVN14, mcUDK00, "0002", "2CAE5B04", "317956BF145BECE841BE5EF91C17C945"},
		{"mastercard cvn16 proprietary", emv.Mastercard, emv.CVN16, mcUDK01, "0003", "11223344", "476D74BB7E341713B4B1FF5993D99CDD"},
		{"mastercard cvn20 common", emv.Mastercard, emv.CVN20, mcUDK01, "0004", "11223344", "F72D587BC6C3EE2A61CB6671D645E3B6"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := SessionKey(tt.scheme, tt.cvn, tt.udk, tt.atc, tt.un)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSessionKeyUnsupported(t *testing.T) {
	t.Parallel()

	const udk = "30089565674D73ED841A6F0637029C18"

	tests := []struct {
		name       string
		scheme     emv.PaymentScheme
		cvn        emv.CVN
		wantScheme bool
	}{
		{"visa cvn22 needs option b", emv.Visa, emv.CVN22, false},
		{"visa cvn16", emv.Visa, emv.CVN16, false},
		{"mastercard cvn18", emv.Mastercard, emv.CVN18, false},
		{"mastercard cvn2c", emv.Mastercard, emv.CVN2C, false},
		{"private label", emv.PrivateLabel, emv.CVN10, true},
		{"unknown", emv.Unknown, emv.CVN18, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := SessionKey(tt.scheme, tt.cvn, udk, "0001", "00000000")
			require.Error(t, err)
			if tt.wantScheme {
				var schemeErr *emv.UnsupportedSchemeError
				assert.True(t, errors.As(err, &schemeErr), "got %T", err)
				return
			}
			var cvnErr *emv.UnsupportedCvnError
			require.True(t, errors.As(err, &cvnErr), "got %T", err)
			assert.Equal(t, tt.cvn.String(), cvnErr.Cvn)
		})
	}
}

func TestDeriveSessionKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pan  string
		psn  string
		atc  string
		un   string
		iad  string
		want string
	}{
		{
			"visa cvn10", "4111111111111111", "00", "005E", "52BF4585", "06010A03A00000",
			"30089565674D73ED841A6F0637029C18",
		},
		{
			"visa cvn18", "4111111111111111", "00", "005E", "52BF4585", "06011203A0B800",
			"F05C5C15703F0AA93DBA010A463A7AED",
		},
		{
			"mastercard cvn10", "5413330089010434", "00", "0001", "2CAE5B04",
			"0110A0400000123400000000000000000001", "498D984899DAF59869DFBFB3D0847990",
		},
		{
			"mastercard cvn20", "5413330089010434", "01", "0004", "11223344",
			"0120A40000000000ABCD" + strings.Repeat("0", 32) + "0004", "F72D587BC6C3EE2A61CB6671D645E3B6",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := DeriveSessionKey(testIMK, tt.pan, tt.psn, tt.atc, tt.un, tt.iad)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveSessionKeyErrors(t *testing.T) {
	t.Parallel()

	_, err := DeriveSessionKey(testIMK, "6011111111111111", "00", "0001", "00000000", "06011203A0B800")
	var schemeErr *emv.UnsupportedSchemeError
	require.True(t, errors.As(err, &schemeErr))
	assert.Equal(t, "601111******1111", schemeErr.Pan)

	_, err = DeriveSessionKey(testIMK, "4111111111111111", "00", "0001", "00000000", "06012203A00000")
	var cvnErr *emv.UnsupportedCvnError
	require.True(t, errors.As(err, &cvnErr))
	assert.Equal(t, "CVN22", cvnErr.Cvn)

	_, err = DeriveSessionKey(
		testIMK, "5413330089010434", "00", "0001", "00000000", "0117A00000000000123400000000000000000002",
	)
	require.True(t, errors.As(err, &cvnErr))
	assert.Equal(t, "17", cvnErr.Cvn)

	_, err = DeriveSessionKey(testIMK, "4111111111111111", "00", "0001", "00000000", "0701")
	var malformed *emv.MalformedIadError
	assert.True(t, errors.As(err, &malformed))
}
