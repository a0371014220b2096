package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SlavaShagalov/car-rental-rest/internal/catalog/usecase"
	"github.com/SlavaShagalov/car-rental-rest/internal/catalog/usecase/mocks"
	"github.com/SlavaShagalov/car-rental-rest/internal/models"
	pkgErrors "github.com/SlavaShagalov/car-rental-rest/internal/pkg/errors"
)

type deps struct {
	brands *mocks.MockBrandRepository
	types  *mocks.MockTypeRepository
	cars   *mocks.MockCarRepository
	uc     *usecase.UseCase
}

func newDeps(t *testing.T) deps {
	ctrl := gomock.NewController(t)
	d := deps{
		brands: mocks.NewMockBrandRepository(ctrl),
		types:  mocks.NewMockTypeRepository(ctrl),
		cars:   mocks.NewMockCarRepository(ctrl),
	}
	d.uc = usecase.New(d.brands, d.types, d.cars, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return d
}

func TestCreateCarFillsDefaults(t *testing.T) {
	d := newDeps(t)
	brand := models.Brand{ID: uuid.New(), Name: "brand1"}
	carType := models.Type{ID: uuid.New(), Name: "type1"}

	d.brands.EXPECT().GetByID(gomock.Any(), brand.ID).Return(brand, nil)
	d.types.EXPECT().GetByID(gomock.Any(), carType.ID).Return(carType, nil)
	d.cars.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, car models.Car) (models.Car, error) {
		return car, nil
	})

	car, err := d.uc.CreateCar(context.Background(), usecase.CarParams{
		Name:            "car1",
		BrandID:         brand.ID,
		TypeID:          carType.ID,
		NumberInStock:   3,
		DailyRentalRate: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, car.ID)
	assert.Equal(t, brand, car.Brand)
	assert.Equal(t, carType, car.Type)
	assert.Equal(t, usecase.DefaultNumberOfSeats, car.NumberOfSeats)
	assert.Equal(t, usecase.DefaultNumberOfDoors, car.NumberOfDoors)
	assert.Equal(t, models.TransmissionManual, car.Transmission)
}

func TestCreateCarInvalidBrand(t *testing.T) {
	d := newDeps(t)

	d.brands.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(models.Brand{}, pkgErrors.ErrBrandNotFound)

	_, err := d.uc.CreateCar(context.Background(), usecase.CarParams{BrandID: uuid.New(), TypeID: uuid.New()})
	assert.Equal(t, pkgErrors.ErrInvalidBrand, err)
}

func TestUpdateCarInvalidType(t *testing.T) {
	d := newDeps(t)

	d.brands.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(models.Brand{ID: uuid.New()}, nil)
	d.types.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(models.Type{}, pkgErrors.ErrTypeNotFound)

	_, err := d.uc.UpdateCar(context.Background(), uuid.New(), usecase.CarParams{BrandID: uuid.New(), TypeID: uuid.New()})
	assert.Equal(t, pkgErrors.ErrInvalidType, err)
}

func TestUpdateCarKeepsID(t *testing.T) {
	d := newDeps(t)
	id := uuid.New()

	d.brands.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(models.Brand{ID: uuid.New()}, nil)
	d.types.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(models.Type{ID: uuid.New()}, nil)
	d.cars.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, car models.Car) (models.Car, error) {
		assert.Equal(t, id, car.ID)
		assert.Equal(t, models.TransmissionAutomatic, car.Transmission)
		return car, nil
	})

	_, err := d.uc.UpdateCar(context.Background(), id, usecase.CarParams{
		BrandID:      uuid.New(),
		TypeID:       uuid.New(),
		Transmission: models.TransmissionAutomatic,
	})
	require.NoError(t, err)
}
