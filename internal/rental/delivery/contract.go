package delivery

import (
	"context"

	"github.com/google/uuid"

	"github.com/SlavaShagalov/car-rental-rest/internal/models"
	"github.com/SlavaShagalov/car-rental-rest/internal/pkg/app"
)

//go:generate mockgen -source=contract.go -destination=mocks/contract.go -package=mocks

type UseCase interface {
	app.HealthChecker

	Start(ctx context.Context, userID, carID uuid.UUID) (models.Rental, error)
	Return(ctx context.Context, userID, carID uuid.UUID) (models.Rental, error)

	List(ctx context.Context) ([]models.Rental, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Rental, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Rental, error)
	Events(ctx context.Context, rentalID uuid.UUID) ([]models.RentalEvent, error)
}
