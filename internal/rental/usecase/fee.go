package usecase

import (
	"time"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// RentalDays is the number of whole 24-hour periods between dateOut and
// dateReturned, truncated toward zero. A return earlier than dateOut counts
// as zero days.
func RentalDays(dateOut, dateReturned time.Time) int64 {
	days := int64(dateReturned.Sub(dateOut) / day)
	if days < 0 {
		return 0
	}
	return days
}

func RentalFee(dailyRentalRate decimal.Decimal, dateOut, dateReturned time.Time) decimal.Decimal {
	return dailyRentalRate.Mul(decimal.NewFromInt(RentalDays(dateOut, dateReturned)))
}
