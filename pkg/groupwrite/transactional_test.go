package groupwrite

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SlavaShagalov/car-rental-rest/pkg/sqlxutils"
)

func execOp(db *sqlx.DB, name, query string) Op {
	return Op{
		Name: name,
		Apply: func(ctx context.Context) error {
			_, err := sqlxutils.Exec(ctx, db, query)
			return err
		},
		Compensate: func(context.Context) error {
			return errors.New("must not be called")
		},
	}
}

func TestTransactional_Run(t *testing.T) {
	t.Run("commits when every op succeeds", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer mockDB.Close()
		db := sqlx.NewDb(mockDB, "postgres")

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO rentals").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE cars").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = NewTransactional(db, nil).Run(context.Background(),
			execOp(db, "insert rental", "INSERT INTO rentals DEFAULT VALUES"),
			execOp(db, "decrement stock", "UPDATE cars SET number_in_stock = number_in_stock - 1"),
		)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the second op fails", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer mockDB.Close()
		db := sqlx.NewDb(mockDB, "postgres")

		errBoom := errors.New("boom")
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO rentals").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE cars").WillReturnError(errBoom)
		mock.ExpectRollback()

		err = NewTransactional(db, nil).Run(context.Background(),
			execOp(db, "insert rental", "INSERT INTO rentals DEFAULT VALUES"),
			execOp(db, "decrement stock", "UPDATE cars SET number_in_stock = number_in_stock - 1"),
		)

		assert.ErrorIs(t, err, errBoom)
		assert.Contains(t, err.Error(), "apply decrement stock")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer mockDB.Close()
		db := sqlx.NewDb(mockDB, "postgres")

		mock.ExpectBegin().WillReturnError(errors.New("no connection"))

		err = NewTransactional(db, nil).Run(context.Background(), execOp(db, "a", "SELECT 1"))

		assert.ErrorContains(t, err, "begin transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit failure", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer mockDB.Close()
		db := sqlx.NewDb(mockDB, "postgres")

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE cars").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		err = NewTransactional(db, nil).Run(context.Background(), execOp(db, "a", "UPDATE cars SET x = 1"))

		assert.ErrorContains(t, err, "commit transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
