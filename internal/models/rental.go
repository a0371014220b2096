package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Rental struct {
	ID           uuid.UUID        `json:"id"`
	User         UserSnapshot     `json:"user"`
	Car          CarSnapshot      `json:"car"`
	DateOut      time.Time        `json:"dateOut"`
	DateReturned *time.Time       `json:"dateReturned,omitempty"`
	RentalFee    *decimal.Decimal `json:"rentalFee,omitempty"`
}

// Active reports whether the rental has not been returned yet.
func (r Rental) Active() bool {
	return r.DateReturned == nil
}

type RentalEventType string

const (
	RentalStarted RentalEventType = "rental.started"
	RentalClosed  RentalEventType = "rental.closed"
)

type RentalEvent struct {
	ID         uuid.UUID        `json:"id"`
	Type       RentalEventType  `json:"type"`
	RentalID   uuid.UUID        `json:"rentalId"`
	UserID     uuid.UUID        `json:"userId"`
	CarID      uuid.UUID        `json:"carId"`
	RentalFee  *decimal.Decimal `json:"rentalFee,omitempty"`
	OccurredAt time.Time        `json:"occurredAt"`
}

func NewRentalEvent(eventType RentalEventType, rental Rental, at time.Time) RentalEvent {
	return RentalEvent{
		ID:         uuid.New(),
		Type:       eventType,
		RentalID:   rental.ID,
		UserID:     rental.User.ID,
		CarID:      rental.Car.ID,
		RentalFee:  rental.RentalFee,
		OccurredAt: at,
	}
}
