package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SlavaShagalov/car-rental-rest/internal/models"
)

//go:generate mockgen -source=contract.go -destination=mocks/contract.go -package=mocks

type BrandRepository interface {
	List(ctx context.Context) ([]models.Brand, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Brand, error)
	Create(ctx context.Context, name string) (models.Brand, error)
	Update(ctx context.Context, id uuid.UUID, name string) (models.Brand, error)
	Delete(ctx context.Context, id uuid.UUID) (models.Brand, error)
}

type TypeRepository interface {
	List(ctx context.Context) ([]models.Type, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Type, error)
	Create(ctx context.Context, name string) (models.Type, error)
	Update(ctx context.Context, id uuid.UUID, name string) (models.Type, error)
	Delete(ctx context.Context, id uuid.UUID) (models.Type, error)
}

// CarFilter narrows the car list. Nil fields are not applied.
type CarFilter struct {
	BrandID *uuid.UUID
	TypeID  *uuid.UUID
	InStock bool
}

type CarParams struct {
	Name            string
	BrandID         uuid.UUID
	TypeID          uuid.UUID
	NumberOfSeats   int
	NumberOfDoors   int
	Transmission    models.Transmission
	AirConditioner  bool
	NumberInStock   int
	DailyRentalRate decimal.Decimal
}

type CarRepository interface {
	HealthCheck(ctx context.Context) error

	List(ctx context.Context, filter CarFilter) ([]models.Car, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Car, error)
	Create(ctx context.Context, car models.Car) (models.Car, error)
	Update(ctx context.Context, car models.Car) (models.Car, error)
	Delete(ctx context.Context, id uuid.UUID) (models.Car, error)
}
