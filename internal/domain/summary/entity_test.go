package summary

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUtilization(t *testing.T) {
	tests := []struct {
		name     string
		actual   string
		expected string
		want     string
	}{
		{"full day", "8", "8", "100"},
		{"half day", "4", "8", "50"},
		{"rounds to two places", "7.333333", "8", "91.67"},
		{"over target", "9", "8", "112.5"},
		{"zero actual", "0", "8", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := decimal.RequireFromString(tt.actual)
			expected := decimal.RequireFromString(tt.expected)
			want := decimal.RequireFromString(tt.want)
			assert.True(t, Utilization(actual, expected).Equal(want),
				"got %s, want %s", Utilization(actual, expected), want)
		})
	}
}

func TestUtilization_ZeroExpectedHours(t *testing.T) {
	// Non-working days have zero expected hours; no division happens.
	got := Utilization(decimal.NewFromInt(4), decimal.Zero)
	assert.True(t, got.IsZero())
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name        string
		utilization string
		entries     int
		exits       int
		want        Status
	}{
		{"exactly ninety is excellent", "90", 2, 2, StatusExcellent},
		{"above ninety is excellent", "104.5", 2, 2, StatusExcellent},
		{"just below ninety is good", "89.99", 2, 2, StatusGood},
		{"exactly seventy five is good", "75", 2, 2, StatusGood},
		{"below seventy five is below target", "74.99", 2, 2, StatusBelowTarget},
		{"tiny positive is below target", "0.01", 1, 0, StatusBelowTarget},
		{"zero with events is incomplete", "0", 1, 0, StatusIncomplete},
		{"zero with only exits is incomplete", "0", 0, 1, StatusIncomplete},
		{"zero with no events is absent", "0", 0, 0, StatusAbsent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := decimal.RequireFromString(tt.utilization)
			assert.Equal(t, tt.want, ClassifyStatus(u, tt.entries, tt.exits))
		})
	}
}
