package repository

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	pkgErrors "github.com/SlavaShagalov/car-rental-rest/internal/pkg/errors"
	"github.com/SlavaShagalov/car-rental-rest/pkg/sqlxutils"
)

// SqlxStockLedger updates cars.number_in_stock with single guarded
// statements, so two requests can never take the same last car.
type SqlxStockLedger struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewSqlxStockLedger(db *sqlx.DB, logger *slog.Logger) *SqlxStockLedger {
	return &SqlxStockLedger{
		db:     db,
		logger: logger,
	}
}

func (l *SqlxStockLedger) Decrement(ctx context.Context, carID uuid.UUID) error {
	const decrementCmd = `
	UPDATE cars
	SET number_in_stock = number_in_stock - 1
	WHERE id = $1 AND number_in_stock > 0;`

	n, err := sqlxutils.Exec(ctx, l.db, decrementCmd, carID)
	if err != nil {
		return l.dbErr(err, "decrement stock")
	}
	if n == 0 {
		return pkgErrors.ErrOutOfStock
	}

	return nil
}

func (l *SqlxStockLedger) Increment(ctx context.Context, carID uuid.UUID) error {
	const incrementCmd = `
	UPDATE cars
	SET number_in_stock = number_in_stock + 1
	WHERE id = $1;`

	n, err := sqlxutils.Exec(ctx, l.db, incrementCmd, carID)
	if err != nil {
		return l.dbErr(err, "increment stock")
	}
	if n == 0 {
		return pkgErrors.ErrCarNotFound
	}

	return nil
}

func (l *SqlxStockLedger) dbErr(err error, action string) error {
	l.logger.Error("stock storage failure", slog.String("action", action), slog.String("error", err.Error()))
	return errors.Wrap(pkgErrors.ErrDb, action+": "+err.Error())
}
