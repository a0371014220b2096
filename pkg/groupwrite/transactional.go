package groupwrite

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SlavaShagalov/car-rental-rest/pkg/sqlxutils"
)

type Transactional struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewTransactional(db *sqlx.DB, logger *slog.Logger) *Transactional {
	return &Transactional{
		db:     db,
		logger: logger,
	}
}

// Run applies ops inside one transaction. The transaction is passed to the
// operations through the context, see sqlxutils.Executor. Compensations are
// never called: a failure rolls the whole transaction back.
func (t *Transactional) Run(ctx context.Context, ops ...Op) (err error) {
	if len(ops) == 0 {
		return ErrEmptyBatch
	}

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger(t.logger).Error("grouped write rollback failed",
				slog.Any("ops", opNames(ops)),
				slog.String(logAttrError, rbErr.Error()),
			)
		}
	}()

	txCtx := sqlxutils.WithTx(ctx, tx)
	for _, op := range ops {
		if err = op.Apply(txCtx); err != nil {
			return applyErr(op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}

	return nil
}
