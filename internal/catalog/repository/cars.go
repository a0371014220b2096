package repository

import (
	"context"
	"log/slog"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/SlavaShagalov/car-rental-rest/internal/catalog/usecase"
	"github.com/SlavaShagalov/car-rental-rest/internal/models"
	pkgErrors "github.com/SlavaShagalov/car-rental-rest/internal/pkg/errors"
	"github.com/SlavaShagalov/car-rental-rest/pkg/sqlxutils"
)

const carColumns = `id, name, brand_id, brand_name, type_id, type_name, number_of_seats, number_of_doors,
	transmission, air_conditioner, number_in_stock, daily_rental_rate`

var carColumnList = []any{
	"id", "name", "brand_id", "brand_name", "type_id", "type_name", "number_of_seats", "number_of_doors",
	"transmission", "air_conditioner", "number_in_stock", "daily_rental_rate",
}

var dialect = goqu.Dialect("postgres")

type carRow struct {
	ID              uuid.UUID       `db:"id"`
	Name            string          `db:"name"`
	BrandID         uuid.UUID       `db:"brand_id"`
	BrandName       string          `db:"brand_name"`
	TypeID          uuid.UUID       `db:"type_id"`
	TypeName        string          `db:"type_name"`
	NumberOfSeats   int             `db:"number_of_seats"`
	NumberOfDoors   int             `db:"number_of_doors"`
	Transmission    string          `db:"transmission"`
	AirConditioner  bool            `db:"air_conditioner"`
	NumberInStock   int             `db:"number_in_stock"`
	DailyRentalRate decimal.Decimal `db:"daily_rental_rate"`
}

func (row carRow) toModel() models.Car {
	return models.Car{
		ID:              row.ID,
		Name:            row.Name,
		Brand:           models.Brand{ID: row.BrandID, Name: row.BrandName},
		Type:            models.Type{ID: row.TypeID, Name: row.TypeName},
		NumberOfSeats:   row.NumberOfSeats,
		NumberOfDoors:   row.NumberOfDoors,
		Transmission:    models.Transmission(row.Transmission),
		AirConditioner:  row.AirConditioner,
		NumberInStock:   row.NumberInStock,
		DailyRentalRate: row.DailyRentalRate,
	}
}

type SqlxCarRepository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewSqlxCarRepository(db *sqlx.DB, logger *slog.Logger) *SqlxCarRepository {
	return &SqlxCarRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SqlxCarRepository) HealthCheck(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SqlxCarRepository) List(ctx context.Context, filter usecase.CarFilter) ([]models.Car, error) {
	ds := dialect.From("cars").Select(carColumnList...).Order(goqu.C("name").Asc())
	if filter.BrandID != nil {
		ds = ds.Where(goqu.C("brand_id").Eq(filter.BrandID.String()))
	}
	if filter.TypeID != nil {
		ds = ds.Where(goqu.C("type_id").Eq(filter.TypeID.String()))
	}
	if filter.InStock {
		ds = ds.Where(goqu.C("number_in_stock").Gt(0))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build car list query")
	}

	rows := make([]carRow, 0)
	if err = sqlxutils.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, r.dbErr(err, "list cars")
	}

	cars := make([]models.Car, 0, len(rows))
	for _, row := range rows {
		cars = append(cars, row.toModel())
	}

	return cars, nil
}

func (r *SqlxCarRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Car, error) {
	const getByIDCmd = `
	SELECT ` + carColumns + `
	FROM cars
	WHERE id = $1;`

	var row carRow
	err := sqlxutils.Get(ctx, r.db, &row, getByIDCmd, id)
	if sqlxutils.IsNoRows(err) {
		return models.Car{}, pkgErrors.ErrCarNotFound
	} else if err != nil {
		return models.Car{}, r.dbErr(err, "get car")
	}

	return row.toModel(), nil
}

func (r *SqlxCarRepository) Create(ctx context.Context, car models.Car) (models.Car, error) {
	const createCmd = `
	INSERT INTO cars (id, name, brand_id, brand_name, type_id, type_name, number_of_seats, number_of_doors,
	                  transmission, air_conditioner, number_in_stock, daily_rental_rate)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING ` + carColumns + `;`

	var row carRow
	err := sqlxutils.Get(ctx, r.db, &row, createCmd, carArgs(car)...)
	if err != nil {
		return models.Car{}, r.dbErr(err, "create car")
	}

	return row.toModel(), nil
}

func (r *SqlxCarRepository) Update(ctx context.Context, car models.Car) (models.Car, error) {
	const updateCmd = `
	UPDATE cars
	SET name = $2, brand_id = $3, brand_name = $4, type_id = $5, type_name = $6, number_of_seats = $7,
	    number_of_doors = $8, transmission = $9, air_conditioner = $10, number_in_stock = $11,
	    daily_rental_rate = $12
	WHERE id = $1
	RETURNING ` + carColumns + `;`

	var row carRow
	err := sqlxutils.Get(ctx, r.db, &row, updateCmd, carArgs(car)...)
	if sqlxutils.IsNoRows(err) {
		return models.Car{}, pkgErrors.ErrCarNotFound
	} else if err != nil {
		return models.Car{}, r.dbErr(err, "update car")
	}

	return row.toModel(), nil
}

func (r *SqlxCarRepository) Delete(ctx context.Context, id uuid.UUID) (models.Car, error) {
	const deleteCmd = `
	DELETE FROM cars
	WHERE id = $1
	RETURNING ` + carColumns + `;`

	var row carRow
	err := sqlxutils.Get(ctx, r.db, &row, deleteCmd, id)
	if sqlxutils.IsNoRows(err) {
		return models.Car{}, pkgErrors.ErrCarNotFound
	} else if err != nil {
		return models.Car{}, r.dbErr(err, "delete car")
	}

	return row.toModel(), nil
}

func (r *SqlxCarRepository) dbErr(err error, action string) error {
	r.logger.Error("car storage failure", slog.String("action", action), slog.String("error", err.Error()))
	return errors.Wrap(pkgErrors.ErrDb, action+": "+err.Error())
}

func carArgs(car models.Car) []any {
	return []any{
		car.ID,
		car.Name,
		car.Brand.ID,
		car.Brand.Name,
		car.Type.ID,
		car.Type.Name,
		car.NumberOfSeats,
		car.NumberOfDoors,
		string(car.Transmission),
		car.AirConditioner,
		car.NumberInStock,
		car.DailyRentalRate,
	}
}
