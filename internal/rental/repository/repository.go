package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/SlavaShagalov/car-rental-rest/internal/models"
	pkgErrors "github.com/SlavaShagalov/car-rental-rest/internal/pkg/errors"
	"github.com/SlavaShagalov/car-rental-rest/pkg/sqlxutils"
)

const rentalColumns = `id, user_id, user_name, user_email, car_id, car_name, car_daily_rental_rate,
	date_out, date_returned, rental_fee`

type rentalRow struct {
	ID                 uuid.UUID           `db:"id"`
	UserID             uuid.UUID           `db:"user_id"`
	UserName           string              `db:"user_name"`
	UserEmail          string              `db:"user_email"`
	CarID              uuid.UUID           `db:"car_id"`
	CarName            string              `db:"car_name"`
	CarDailyRentalRate decimal.Decimal     `db:"car_daily_rental_rate"`
	DateOut            time.Time           `db:"date_out"`
	DateReturned       *time.Time          `db:"date_returned"`
	RentalFee          decimal.NullDecimal `db:"rental_fee"`
}

func (row rentalRow) toModel() models.Rental {
	rental := models.Rental{
		ID: row.ID,
		User: models.UserSnapshot{
			ID:    row.UserID,
			Name:  row.UserName,
			Email: row.UserEmail,
		},
		Car: models.CarSnapshot{
			ID:              row.CarID,
			Name:            row.CarName,
			DailyRentalRate: row.CarDailyRentalRate,
		},
		DateOut: row.DateOut.UTC(),
	}

	if row.DateReturned != nil {
		returned := row.DateReturned.UTC()
		rental.DateReturned = &returned
	}
	if row.RentalFee.Valid {
		fee := row.RentalFee.Decimal
		rental.RentalFee = &fee
	}

	return rental
}

type SqlxRepository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewSqlxRepository(db *sqlx.DB, logger *slog.Logger) *SqlxRepository {
	return &SqlxRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SqlxRepository) HealthCheck(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SqlxRepository) FindActive(ctx context.Context, userID, carID uuid.UUID) (models.Rental, error) {
	const findActiveCmd = `
	SELECT ` + rentalColumns + `
	FROM rentals
	WHERE user_id = $1 AND car_id = $2 AND date_returned IS NULL;`

	var row rentalRow
	err := sqlxutils.Get(ctx, r.db, &row, findActiveCmd, userID, carID)
	if sqlxutils.IsNoRows(err) {
		return models.Rental{}, pkgErrors.ErrNoActiveRental
	} else if err != nil {
		return models.Rental{}, r.dbErr(err, "find active rental")
	}

	return row.toModel(), nil
}

func (r *SqlxRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Rental, error) {
	const getByIDCmd = `
	SELECT ` + rentalColumns + `
	FROM rentals
	WHERE id = $1;`

	var row rentalRow
	err := sqlxutils.Get(ctx, r.db, &row, getByIDCmd, id)
	if sqlxutils.IsNoRows(err) {
		return models.Rental{}, pkgErrors.ErrRentalNotFound
	} else if err != nil {
		return models.Rental{}, r.dbErr(err, "get rental")
	}

	return row.toModel(), nil
}

func (r *SqlxRepository) List(ctx context.Context) ([]models.Rental, error) {
	const listCmd = `
	SELECT ` + rentalColumns + `
	FROM rentals
	ORDER BY date_out DESC;`

	rows := make([]rentalRow, 0)
	if err := sqlxutils.Select(ctx, r.db, &rows, listCmd); err != nil {
		return nil, r.dbErr(err, "list rentals")
	}

	return toModels(rows), nil
}

func (r *SqlxRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Rental, error) {
	const listByUserCmd = `
	SELECT ` + rentalColumns + `
	FROM rentals
	WHERE user_id = $1
	ORDER BY date_out DESC;`

	rows := make([]rentalRow, 0)
	if err := sqlxutils.Select(ctx, r.db, &rows, listByUserCmd, userID); err != nil {
		return nil, r.dbErr(err, "list user rentals")
	}

	return toModels(rows), nil
}

func (r *SqlxRepository) Create(ctx context.Context, rental models.Rental) error {
	const createCmd = `
	INSERT INTO rentals (id, user_id, user_name, user_email, car_id, car_name, car_daily_rental_rate, date_out)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	_, err := sqlxutils.Exec(ctx, r.db, createCmd,
		rental.ID,
		rental.User.ID,
		rental.User.Name,
		rental.User.Email,
		rental.Car.ID,
		rental.Car.Name,
		rental.Car.DailyRentalRate,
		rental.DateOut,
	)
	if sqlxutils.IsUniqueViolation(err) {
		return pkgErrors.ErrAlreadyRented
	} else if err != nil {
		return r.dbErr(err, "create rental")
	}

	return nil
}

func (r *SqlxRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const deleteCmd = `DELETE FROM rentals WHERE id = $1;`

	if _, err := sqlxutils.Exec(ctx, r.db, deleteCmd, id); err != nil {
		return r.dbErr(err, "delete rental")
	}

	return nil
}

func (r *SqlxRepository) Close(ctx context.Context, id uuid.UUID, dateReturned time.Time, fee decimal.Decimal) error {
	const closeCmd = `
	UPDATE rentals
	SET date_returned = $2, rental_fee = $3
	WHERE id = $1 AND date_returned IS NULL;`

	n, err := sqlxutils.Exec(ctx, r.db, closeCmd, id, dateReturned, fee)
	if err != nil {
		return r.dbErr(err, "close rental")
	}
	if n == 0 {
		return pkgErrors.ErrNoActiveRental
	}

	return nil
}

func (r *SqlxRepository) Reopen(ctx context.Context, id uuid.UUID) error {
	const reopenCmd = `
	UPDATE rentals
	SET date_returned = NULL, rental_fee = NULL
	WHERE id = $1;`

	if _, err := sqlxutils.Exec(ctx, r.db, reopenCmd, id); err != nil {
		return r.dbErr(err, "reopen rental")
	}

	return nil
}

func (r *SqlxRepository) dbErr(err error, action string) error {
	r.logger.Error("rental storage failure", slog.String("action", action), slog.String("error", err.Error()))
	return errors.Wrap(pkgErrors.ErrDb, action+": "+err.Error())
}

func toModels(rows []rentalRow) []models.Rental {
	rentals := make([]models.Rental, 0, len(rows))
	for _, row := range rows {
		rentals = append(rentals, row.toModel())
	}
	return rentals
}
