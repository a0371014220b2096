package usecase

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// Days are whole elapsed 24-hour periods, truncated toward zero. Calendar
// boundaries do not count: 23:00 to 01:00 the next day is zero days.
func TestRentalDays(t *testing.T) {
	out := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		returned time.Time
		days     int64
	}{
		{"same instant", out, 0},
		{"next calendar day, 2 hours later", out.Add(2 * time.Hour), 0},
		{"one second short of a day", out.Add(day - time.Second), 0},
		{"exactly one day", out.Add(day), 1},
		{"seven days and a bit", out.Add(7*day + 5*time.Hour), 7},
		{"returned before date out", out.Add(-3 * day), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.days, RentalDays(out, tt.returned))
		})
	}
}

func TestRentalFee(t *testing.T) {
	out := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		rate     decimal.Decimal
		returned time.Time
		fee      string
	}{
		{"7 days at 1", decimal.NewFromInt(1), out.Add(7 * day), "7"},
		{"same day", decimal.NewFromInt(25), out.Add(3 * time.Hour), "0"},
		{"fractional rate keeps cents", decimal.RequireFromString("12.35"), out.Add(3*day + time.Minute), "37.05"},
		{"zero rate", decimal.Zero, out.Add(10 * day), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee := RentalFee(tt.rate, out, tt.returned)
			assert.True(t, decimal.RequireFromString(tt.fee).Equal(fee), "fee %s", fee)
		})
	}
}
