package delivery

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SlavaShagalov/car-rental-rest/internal/catalog/usecase"
	"github.com/SlavaShagalov/car-rental-rest/internal/models"
)

type NameDTO struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

type CarDTO struct {
	Name            string  `json:"name" validate:"required,min=1,max=50"`
	BrandID         string  `json:"brandId" validate:"required,uuid"`
	TypeID          string  `json:"typeId" validate:"required,uuid"`
	NumberOfSeats   int     `json:"numberOfSeats" validate:"omitempty,min=1,max=50"`
	NumberOfDoors   int     `json:"numberOfDoors" validate:"omitempty,min=1,max=10"`
	Transmission    string  `json:"transmission" validate:"omitempty,oneof=Manual Automatic"`
	AirConditioner  bool    `json:"airConditioner"`
	NumberInStock   int     `json:"numberInStock" validate:"min=0,max=255"`
	DailyRentalRate float64 `json:"dailyRentalRate" validate:"min=0,max=255"`
}

func (dto CarDTO) Params() usecase.CarParams {
	return usecase.CarParams{
		Name:            dto.Name,
		BrandID:         uuid.MustParse(dto.BrandID),
		TypeID:          uuid.MustParse(dto.TypeID),
		NumberOfSeats:   dto.NumberOfSeats,
		NumberOfDoors:   dto.NumberOfDoors,
		Transmission:    models.Transmission(dto.Transmission),
		AirConditioner:  dto.AirConditioner,
		NumberInStock:   dto.NumberInStock,
		DailyRentalRate: decimal.NewFromFloat(dto.DailyRentalRate),
	}
}
