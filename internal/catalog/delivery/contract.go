package delivery

import (
	"context"

	"github.com/google/uuid"

	"github.com/SlavaShagalov/car-rental-rest/internal/catalog/usecase"
	"github.com/SlavaShagalov/car-rental-rest/internal/models"
	"github.com/SlavaShagalov/car-rental-rest/internal/pkg/app"
)

//go:generate mockgen -source=contract.go -destination=mocks/contract.go -package=mocks

type UseCase interface {
	app.HealthChecker

	ListBrands(ctx context.Context) ([]models.Brand, error)
	GetBrand(ctx context.Context, id uuid.UUID) (models.Brand, error)
	CreateBrand(ctx context.Context, name string) (models.Brand, error)
	UpdateBrand(ctx context.Context, id uuid.UUID, name string) (models.Brand, error)
	DeleteBrand(ctx context.Context, id uuid.UUID) (models.Brand, error)

	ListTypes(ctx context.Context) ([]models.Type, error)
	GetType(ctx context.Context, id uuid.UUID) (models.Type, error)
	CreateType(ctx context.Context, name string) (models.Type, error)
	UpdateType(ctx context.Context, id uuid.UUID, name string) (models.Type, error)
	DeleteType(ctx context.Context, id uuid.UUID) (models.Type, error)

	ListCars(ctx context.Context, filter usecase.CarFilter) ([]models.Car, error)
	GetCar(ctx context.Context, id uuid.UUID) (models.Car, error)
	CreateCar(ctx context.Context, params usecase.CarParams) (models.Car, error)
	UpdateCar(ctx context.Context, id uuid.UUID, params usecase.CarParams) (models.Car, error)
	DeleteCar(ctx context.Context, id uuid.UUID) (models.Car, error)
}
