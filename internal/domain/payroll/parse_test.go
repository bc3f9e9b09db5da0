package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWorkDate(t *testing.T) {
	want := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"2024-01-05", "2024/01/05", "01/05/2024", "1/5/2024", "January 5, 2024", "Jan 5, 2024", "2024-01-05 00:00:00", "45296"} {
		got, err := parseWorkDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	for _, raw := range []string{"", "someday", "0"} {
		_, err := parseWorkDate(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseClock(t *testing.T) {
	cases := map[string]clock{
		"08:00:00":            {8, 0, 0},
		"8:15":                {8, 15, 0},
		"8:30 pm":             {20, 30, 0},
		"7:05PM":              {19, 5, 0},
		"0.75":                {18, 0, 0},
		"45292.25":            {6, 0, 0},
		"2024-01-01 07:15:00": {7, 15, 0},
	}
	for raw, want := range cases {
		got, err := parseClock(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := parseClock("noon")
	assert.Error(t, err)
}

func TestParseEmployeeID(t *testing.T) {
	id, err := parseEmployeeID("7.0")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	for _, raw := range []string{"7.5", "-1", "0", "abc", ""} {
		_, err := parseEmployeeID(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseAmountAcceptsThousandsSeparator(t *testing.T) {
	f, err := parseAmount("1,250.50")
	require.NoError(t, err)
	assert.Equal(t, 1250.5, f)
}
