// Package sqlxutils holds small helpers shared by the sqlx repositories.
//
// A transaction started by a caller travels in the context. Repositories
// call Executor to run their statements inside that transaction when there
// is one, and directly on the database otherwise.
package sqlxutils

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolationCode = "23505"

type txKey struct{}

func WithTx(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func TxFrom(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx, ok && tx != nil
}

// Executor returns the transaction stored in ctx or db.
func Executor(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx, ok := TxFrom(ctx); ok {
		return tx
	}
	return db
}

func Select(ctx context.Context, db *sqlx.DB, dest any, query string, args ...any) error {
	return sqlx.SelectContext(ctx, Executor(ctx, db), dest, query, args...)
}

func Get(ctx context.Context, db *sqlx.DB, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, Executor(ctx, db), dest, query, args...)
}

// Exec runs query and returns the number of affected rows.
func Exec(ctx context.Context, db *sqlx.DB, query string, args ...any) (int64, error) {
	res, err := Executor(ctx, db).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// IsUniqueViolation reports whether err was raised by a unique constraint,
// for both the lib/pq and the pgx drivers.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}

	return false
}

func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
