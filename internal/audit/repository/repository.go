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

type eventRow struct {
	ID         uuid.UUID           `db:"id"`
	Type       string              `db:"type"`
	RentalID   uuid.UUID           `db:"rental_id"`
	UserID     uuid.UUID           `db:"user_id"`
	CarID      uuid.UUID           `db:"car_id"`
	RentalFee  decimal.NullDecimal `db:"rental_fee"`
	OccurredAt time.Time           `db:"occurred_at"`
}

func (row eventRow) toModel() models.RentalEvent {
	event := models.RentalEvent{
		ID:         row.ID,
		Type:       models.RentalEventType(row.Type),
		RentalID:   row.RentalID,
		UserID:     row.UserID,
		CarID:      row.CarID,
		OccurredAt: row.OccurredAt.UTC(),
	}
	if row.RentalFee.Valid {
		fee := row.RentalFee.Decimal
		event.RentalFee = &fee
	}
	return event
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

func (r *SqlxRepository) ListByRental(ctx context.Context, rentalID uuid.UUID) ([]models.RentalEvent, error) {
	const listCmd = `
	SELECT id, type, rental_id, user_id, car_id, rental_fee, occurred_at
	FROM rental_events
	WHERE rental_id = $1
	ORDER BY occurred_at;`

	rows := make([]eventRow, 0)
	if err := sqlxutils.Select(ctx, r.db, &rows, listCmd, rentalID); err != nil {
		r.logger.Error("failed to list rental events", slog.String("error", err.Error()))
		return nil, errors.Wrap(pkgErrors.ErrDb, err.Error())
	}

	events := make([]models.RentalEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.toModel())
	}

	return events, nil
}

// Save ignores an event that is already stored, so a redelivered message
// does not fail the consumer.
func (r *SqlxRepository) Save(ctx context.Context, event models.RentalEvent) error {
	const saveCmd = `
	INSERT INTO rental_events (id, type, rental_id, user_id, car_id, rental_fee, occurred_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO NOTHING;`

	fee := decimal.NullDecimal{}
	if event.RentalFee != nil {
		fee = decimal.NewNullDecimal(*event.RentalFee)
	}

	_, err := sqlxutils.Exec(ctx, r.db, saveCmd,
		event.ID,
		string(event.Type),
		event.RentalID,
		event.UserID,
		event.CarID,
		fee,
		event.OccurredAt,
	)
	if err != nil {
		return errors.Wrap(pkgErrors.ErrDb, err.Error())
	}

	return nil
}
