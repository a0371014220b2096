package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Brand struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Type struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Transmission string

const (
	TransmissionManual    Transmission = "Manual"
	TransmissionAutomatic Transmission = "Automatic"
)

type Car struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Brand           Brand           `json:"brand"`
	Type            Type            `json:"type"`
	NumberOfSeats   int             `json:"numberOfSeats"`
	NumberOfDoors   int             `json:"numberOfDoors"`
	Transmission    Transmission    `json:"transmission"`
	AirConditioner  bool            `json:"airConditioner"`
	NumberInStock   int             `json:"numberInStock"`
	DailyRentalRate decimal.Decimal `json:"dailyRentalRate"`
}

// CarSnapshot is the part of a car copied into a rental when it starts.
// The fee of a rental is always computed from the snapshot rate.
type CarSnapshot struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	DailyRentalRate decimal.Decimal `json:"dailyRentalRate"`
}

func (c Car) Snapshot() CarSnapshot {
	return CarSnapshot{
		ID:              c.ID,
		Name:            c.Name,
		DailyRentalRate: c.DailyRentalRate,
	}
}
