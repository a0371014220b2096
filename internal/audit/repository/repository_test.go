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
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SlavaShagalov/car-rental-rest/internal/models"
	pkgErrors "github.com/SlavaShagalov/car-rental-rest/internal/pkg/errors"
)

func newRepo(t *testing.T) (*SqlxRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return NewSqlxRepository(sqlx.NewDb(mockDB, "postgres"), slog.New(slog.NewTextHandler(io.Discard, nil))), mock
}

func TestSave(t *testing.T) {
	repo, mock := newRepo(t)
	fee := decimal.NewFromInt(21)
	event := models.RentalEvent{
		ID:         uuid.New(),
		Type:       models.RentalClosed,
		RentalID:   uuid.New(),
		UserID:     uuid.New(),
		CarID:      uuid.New(),
		RentalFee:  &fee,
		OccurredAt: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (id) DO NOTHING")).
		WithArgs(event.ID, "rental.closed", event.RentalID, event.UserID, event.CarID, sqlmock.AnyArg(), event.OccurredAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveFailure(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rental_events")).WillReturnError(errors.New("connection refused"))

	err := repo.Save(context.Background(), models.RentalEvent{ID: uuid.New(), Type: models.RentalStarted})
	assert.True(t, errors.Is(err, pkgErrors.ErrDb))
}

func TestListByRental(t *testing.T) {
	repo, mock := newRepo(t)
	rentalID := uuid.New()
	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM rental_events")).
		WithArgs(rentalID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "rental_id", "user_id", "car_id", "rental_fee", "occurred_at"}).
			AddRow(uuid.NewString(), "rental.started", rentalID.String(), uuid.NewString(), uuid.NewString(), nil, at).
			AddRow(uuid.NewString(), "rental.closed", rentalID.String(), uuid.NewString(), uuid.NewString(), "21", at.Add(time.Hour)))

	events, err := repo.ListByRental(context.Background(), rentalID)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, models.RentalStarted, events[0].Type)
	assert.Nil(t, events[0].RentalFee)
	require.NotNil(t, events[1].RentalFee)
	assert.Equal(t, "21", events[1].RentalFee.String())
}
