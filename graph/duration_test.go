package graph

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "PT0S"},
		{90 * time.Minute, "PT1H30M"},
		{36 * time.Hour, "PT36H"},
		{time.Hour + 5*time.Second, "PT1H5S"},
		{1500 * time.Millisecond, "PT1.5S"},
		{time.Nanosecond, "PT0.000000001S"},
		{-500 * time.Millisecond, "-PT0.5S"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.in))
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"PT0S", 0},
		{"PT1H30M", 90 * time.Minute},
		{"P1D", 24 * time.Hour},
		{"P2DT3H", 51 * time.Hour},
		{"PT1.5S", 1500 * time.Millisecond},
		{"PT0.0000000019S", time.Nanosecond},
		{"-PT0.5S", -500 * time.Millisecond},
		{"PT90M", 90 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDuration_Invalid(t *testing.T) {
	for _, in := range []string{
		"", "P", "PT", "1h30m0s", "P1Y", "P2M", "PT1M1H", "PT1H1H",
		"PT1.5H", "PT.5S", "PT1.S", "PT1..5S", "P1.5D", "PTXS", "P1DT",
		"PT9999999999999999999H",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDuration(in)
			assert.ErrorIs(t, err, ErrInvalidDuration)
		})
	}
}

func TestDuration_RoundTrip(t *testing.T) {
	for _, d := range []time.Duration{
		0, time.Nanosecond, 90 * time.Minute, -3*time.Hour - 7*time.Millisecond,
		math.MaxInt64, math.MinInt64 + 1,
	} {
		got, err := ParseDuration(FormatDuration(d))
		require.NoError(t, err, FormatDuration(d))
		assert.Equal(t, d, got)
	}
}
