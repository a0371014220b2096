package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/SlavaShagalov/car-rental-rest/internal/models"
	pkgErrors "github.com/SlavaShagalov/car-rental-rest/internal/pkg/errors"
)

const (
	DefaultNumberOfSeats = 5
	DefaultNumberOfDoors = 4
)

type UseCase struct {
	brands BrandRepository
	types  TypeRepository
	cars   CarRepository
	logger *slog.Logger
}

func New(brands BrandRepository, types TypeRepository, cars CarRepository, logger *slog.Logger) *UseCase {
	return &UseCase{
		brands: brands,
		types:  types,
		cars:   cars,
		logger: logger,
	}
}

func (u *UseCase) HealthCheck(ctx context.Context) error {
	return u.cars.HealthCheck(ctx)
}

func (u *UseCase) ListBrands(ctx context.Context) ([]models.Brand, error) {
	return u.brands.List(ctx)
}

func (u *UseCase) GetBrand(ctx context.Context, id uuid.UUID) (models.Brand, error) {
	return u.brands.GetByID(ctx, id)
}

func (u *UseCase) CreateBrand(ctx context.Context, name string) (models.Brand, error) {
	return u.brands.Create(ctx, name)
}

func (u *UseCase) UpdateBrand(ctx context.Context, id uuid.UUID, name string) (models.Brand, error) {
	return u.brands.Update(ctx, id, name)
}

func (u *UseCase) DeleteBrand(ctx context.Context, id uuid.UUID) (models.Brand, error) {
	return u.brands.Delete(ctx, id)
}

func (u *UseCase) ListTypes(ctx context.Context) ([]models.Type, error) {
	return u.types.List(ctx)
}

func (u *UseCase) GetType(ctx context.Context, id uuid.UUID) (models.Type, error) {
	return u.types.GetByID(ctx, id)
}

func (u *UseCase) CreateType(ctx context.Context, name string) (models.Type, error) {
	return u.types.Create(ctx, name)
}

func (u *UseCase) UpdateType(ctx context.Context, id uuid.UUID, name string) (models.Type, error) {
	return u.types.Update(ctx, id, name)
}

func (u *UseCase) DeleteType(ctx context.Context, id uuid.UUID) (models.Type, error) {
	return u.types.Delete(ctx, id)
}

func (u *UseCase) ListCars(ctx context.Context, filter CarFilter) ([]models.Car, error) {
	return u.cars.List(ctx, filter)
}

func (u *UseCase) GetCar(ctx context.Context, id uuid.UUID) (models.Car, error) {
	return u.cars.GetByID(ctx, id)
}

func (u *UseCase) CreateCar(ctx context.Context, params CarParams) (models.Car, error) {
	car, err := u.buildCar(ctx, uuid.New(), params)
	if err != nil {
		return models.Car{}, err
	}

	return u.cars.Create(ctx, car)
}

func (u *UseCase) UpdateCar(ctx context.Context, id uuid.UUID, params CarParams) (models.Car, error) {
	car, err := u.buildCar(ctx, id, params)
	if err != nil {
		return models.Car{}, err
	}

	return u.cars.Update(ctx, car)
}

func (u *UseCase) DeleteCar(ctx context.Context, id uuid.UUID) (models.Car, error) {
	return u.cars.Delete(ctx, id)
}

// buildCar resolves the brand and the type of a car and fills the defaults.
func (u *UseCase) buildCar(ctx context.Context, id uuid.UUID, params CarParams) (models.Car, error) {
	brand, err := u.brands.GetByID(ctx, params.BrandID)
	if errors.Is(err, pkgErrors.ErrBrandNotFound) {
		return models.Car{}, pkgErrors.ErrInvalidBrand
	} else if err != nil {
		return models.Car{}, err
	}

	carType, err := u.types.GetByID(ctx, params.TypeID)
	if errors.Is(err, pkgErrors.ErrTypeNotFound) {
		return models.Car{}, pkgErrors.ErrInvalidType
	} else if err != nil {
		return models.Car{}, err
	}

	car := models.Car{
		ID:              id,
		Name:            params.Name,
		Brand:           brand,
		Type:            carType,
		NumberOfSeats:   params.NumberOfSeats,
		NumberOfDoors:   params.NumberOfDoors,
		Transmission:    params.Transmission,
		AirConditioner:  params.AirConditioner,
		NumberInStock:   params.NumberInStock,
		DailyRentalRate: params.DailyRentalRate,
	}

	if car.NumberOfSeats == 0 {
		car.NumberOfSeats = DefaultNumberOfSeats
	}
	if car.NumberOfDoors == 0 {
		car.NumberOfDoors = DefaultNumberOfDoors
	}
	if car.Transmission == "" {
		car.Transmission = models.TransmissionManual
	}

	return car, nil
}
