package message

import (
	"testing"

	"github.com/andrei-cloud/go_arqc/internal/errorcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		parse   func([]byte) (*BaseMessage, error)
		payload string
		code    string
		check   map[string]string
	}{
		{
			name:  "GA",
			parse: NewGA,
			payload: "0123456789ABCDEFFEDCBA9876543210;4111111111111111;00;12300;0;784;8000048000;" +
				"840;2025-05-22;00;52BF4585;1800;005E;06011203A0B800",
			code:  "GA",
			check: map[string]string{FieldPAN: "4111111111111111", FieldDate: "2025-05-22", FieldIAD: "06011203A0B800"},
		},
		{
			name:    "GC without UN",
			parse:   NewGC,
			payload: "0123456789ABCDEFFEDCBA9876543210;4111111111111111;00;005E;;06011203A0B800",
			code:    "GC",
			check:   map[string]string{FieldATC: "005E", FieldUN: ""},
		},
		{
			name:    "GE",
			parse:   NewGE,
			payload: "0123456789ABCDEFFEDCBA9876543210;5A08411111111111111182021800;FDBA87A3C606B92F",
			code:    "GE",
			check:   map[string]string{FieldARQC: "FDBA87A3C606B92F"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := tt.parse([]byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.code, m.CommandCode())
			for field, want := range tt.check {
				assert.Equal(t, want, m.String(field), field)
			}
		})
	}
}

func TestParsersFieldCount(t *testing.T) {
	t.Parallel()

	for _, parse := range []func([]byte) (*BaseMessage, error){NewGA, NewGC, NewGE} {
		_, err := parse([]byte("0123456789ABCDEF;4111111111111111"))
		assert.ErrorIs(t, err, errorcodes.Err15)
	}
}

func TestTraceMasksSecrets(t *testing.T) {
	t.Parallel()

	m, err := NewGC([]byte("0123456789ABCDEFFEDCBA9876543210;4111111111111111;00;005E;;06011203A0B800"))
	require.NoError(t, err)

	trace := m.Trace()
	assert.Contains(t, trace, "Command: GC")
	assert.Contains(t, trace, "411111******1111")
	assert.NotContains(t, trace, "0123456789ABCDEF")
	assert.NotContains(t, trace, "4111111111111111")
}
