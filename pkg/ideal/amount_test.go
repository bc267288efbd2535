package ideal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		cents    int64
		expected string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{10, "0.10"},
		{100, "1.00"},
		{1050, "10.50"},
		{123456789, "1234567.89"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			got, err := FormatAmount(tt.cents)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatAmount_Negative(t *testing.T) {
	_, err := FormatAmount(-1)
	assert.Error(t, err)
}

func TestAmount_RoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 9, 10, 99, 100, 101, 1050, 99999, 100000000, 9007199254740993} {
		s, err := FormatAmount(cents)
		require.NoError(t, err)
		back, err := ParseAmount(s)
		require.NoError(t, err)
		assert.Equal(t, cents, back, "amount %s", s)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in       string
		expected int64
		wantErr  bool
	}{
		{in: "10.50", expected: 1050},
		{in: "10", expected: 1000},
		{in: "10.", expected: 1000},
		{in: "10.5", expected: 1050},
		{in: "0.01", expected: 1},
		{in: " 3.25 ", expected: 325},
		{in: "10.505", wantErr: true},
		{in: "-1.00", wantErr: true},
		{in: "1.-5", wantErr: true},
		{in: "-0.50", wantErr: true},
		{in: "+1.00", wantErr: true},
		{in: "1.+5", wantErr: true},
		{in: ".50", wantErr: true},
		{in: "1_000.00", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
