package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SlavaShagalov/car-rental-rest/internal/models"
)

//go:generate mockgen -source=contract.go -destination=mocks/contract.go -package=mocks

type RentalRepository interface {
	HealthCheck(ctx context.Context) error

	// FindActive returns the rental of userID for carID that has not been
	// returned yet, or ErrNoActiveRental.
	FindActive(ctx context.Context, userID, carID uuid.UUID) (models.Rental, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Rental, error)
	List(ctx context.Context) ([]models.Rental, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Rental, error)

	// Create fails with ErrAlreadyRented when the pair already has an active rental.
	Create(ctx context.Context, rental models.Rental) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Close fails with ErrNoActiveRental when the rental is not active.
	Close(ctx context.Context, id uuid.UUID, dateReturned time.Time, fee decimal.Decimal) error
	Reopen(ctx context.Context, id uuid.UUID) error
}

// StockLedger changes numberInStock of a car atomically.
type StockLedger interface {
	// Decrement fails with ErrOutOfStock when the stock is already 0.
	Decrement(ctx context.Context, carID uuid.UUID) error
	// Increment fails with ErrCarNotFound when the car does not exist.
	Increment(ctx context.Context, carID uuid.UUID) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

type CarRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (models.Car, error)
}

type Publisher interface {
	Publish(ctx context.Context, event models.RentalEvent) error
}

type EventLog interface {
	ListByRental(ctx context.Context, rentalID uuid.UUID) ([]models.RentalEvent, error)
}
