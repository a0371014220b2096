package repository

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SlavaShagalov/car-rental-rest/internal/models"
	pkgErrors "github.com/SlavaShagalov/car-rental-rest/internal/pkg/errors"
)

var rentalRowColumns = []string{
	"id", "user_id", "user_name", "user_email", "car_id", "car_name", "car_daily_rental_rate",
	"date_out", "date_returned", "rental_fee",
}

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "postgres"), mock
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFindActive(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSqlxRepository(db, discardLogger())

	id, userID, carID := uuid.New(), uuid.New(), uuid.New()
	dateOut := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM rentals")).
		WithArgs(userID, carID).
		WillReturnRows(sqlmock.NewRows(rentalRowColumns).
			AddRow(id.String(), userID.String(), "user1", "user1@domain.com", carID.String(), "car1", "2.50", dateOut, nil, nil))

	rental, err := repo.FindActive(context.Background(), userID, carID)
	require.NoError(t, err)

	assert.Equal(t, id, rental.ID)
	assert.Equal(t, models.UserSnapshot{ID: userID, Name: "user1", Email: "user1@domain.com"}, rental.User)
	assert.Equal(t, carID, rental.Car.ID)
	assert.Equal(t, "2.5", rental.Car.DailyRentalRate.String())
	assert.Equal(t, dateOut, rental.DateOut)
	assert.True(t, rental.Active())
	assert.Nil(t, rental.RentalFee)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSqlxRepository(db, discardLogger())

	mock.ExpectQuery(regexp.QuoteMeta("FROM rentals")).
		WillReturnRows(sqlmock.NewRows(rentalRowColumns))

	_, err := repo.FindActive(context.Background(), uuid.New(), uuid.New())
	assert.Equal(t, pkgErrors.ErrNoActiveRental, err)
}

func TestGetByIDReturned(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSqlxRepository(db, discardLogger())

	id := uuid.New()
	dateOut := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)
	returned := dateOut.Add(72 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("FROM rentals")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(rentalRowColumns).
			AddRow(id.String(), uuid.NewString(), "user1", "user1@domain.com", uuid.NewString(), "car1", "2", dateOut, returned, "6"))

	rental, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)

	require.NotNil(t, rental.DateReturned)
	assert.Equal(t, returned, *rental.DateReturned)
	require.NotNil(t, rental.RentalFee)
	assert.True(t, rental.RentalFee.Equal(decimal.NewFromInt(6)))
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSqlxRepository(db, discardLogger())

	mock.ExpectQuery(regexp.QuoteMeta("FROM rentals")).
		WillReturnRows(sqlmock.NewRows(rentalRowColumns))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.Equal(t, pkgErrors.ErrRentalNotFound, err)
}

func TestListByUserEmpty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSqlxRepository(db, discardLogger())

	userID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY date_out DESC")).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(rentalRowColumns))

	rentals, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.NotNil(t, rentals)
	assert.Empty(t, rentals)
}

func TestListFailure(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSqlxRepository(db, discardLogger())

	mock.ExpectQuery(regexp.QuoteMeta("FROM rentals")).WillReturnError(errors.New("connection refused"))

	_, err := repo.List(context.Background())
	assert.True(t, errors.Is(err, pkgErrors.ErrDb))
}

func TestCreate(t *testing.T) {
	rental := models.Rental{
		ID:      uuid.New(),
		User:    models.UserSnapshot{ID: uuid.New(), Name: "user1", Email: "user1@domain.com"},
		Car:     models.CarSnapshot{ID: uuid.New(), Name: "car1", DailyRentalRate: decimal.NewFromInt(1)},
		DateOut: time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name    string
		execErr error
		want    error
	}{
		{name: "created"},
		{name: "active pair exists", execErr: &pq.Error{Code: "23505"}, want: pkgErrors.ErrAlreadyRented},
		{name: "storage failure", execErr: errors.New("connection refused"), want: pkgErrors.ErrDb},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewSqlxRepository(db, discardLogger())

			exp := mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rentals")).
				WithArgs(rental.ID, rental.User.ID, "user1", "user1@domain.com", rental.Car.ID, "car1", sqlmock.AnyArg(), rental.DateOut)
			if tc.execErr != nil {
				exp.WillReturnError(tc.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := repo.Create(context.Background(), rental)
			if tc.want == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, tc.want))
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestClose(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSqlxRepository(db, discardLogger())

	id := uuid.New()
	returned := time.Date(2026, 10, 4, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE rentals")).
		WithArgs(id, returned, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Close(context.Background(), id, returned, decimal.NewFromInt(3)))

	mock.ExpectExec(regexp.QuoteMeta("date_returned IS NULL")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Close(context.Background(), id, returned, decimal.NewFromInt(3))
	assert.Equal(t, pkgErrors.ErrNoActiveRental, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAndReopen(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSqlxRepository(db, discardLogger())

	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM rentals")).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("SET date_returned = NULL")).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), id))
	require.NoError(t, repo.Reopen(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}
