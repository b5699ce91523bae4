package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinancialYearFor(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{"fiscal year end", time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC), "FY2023-24"},
		{"fiscal year start", time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), "FY2024-25"},
		{"mid year", time.Date(2023, time.September, 15, 0, 0, 0, 0, time.UTC), "FY2023-24"},
		{"january before cutover", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), "FY2023-24"},
		{"century boundary", time.Date(1999, time.December, 31, 0, 0, 0, 0, time.UTC), "FY1999-00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FinancialYearFor(tt.date)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFinancialYearForZeroDate(t *testing.T) {
	_, err := FinancialYearFor(time.Time{})
	assert.Error(t, err)
}

func TestParseISODate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-03-31", "2024-03-31"},
		{" 2024-03-31 ", "2024-03-31"},
		{"2024-03-31T00:00:00", "2024-03-31"},
		{"2024-03-31T10:30:00Z", "2024-03-31"},
	}

	for _, tt := range tests {
		got, err := ParseISODate(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, ToISODate(got))
	}
}

func TestParseISODateRejectsGarbage(t *testing.T) {
	_, err := ParseISODate("31.03.2024")
	assert.Error(t, err)

	_, err = ParseISODate("")
	assert.Error(t, err)
}
