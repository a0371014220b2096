package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SlavaShagalov/car-rental-rest/internal/auth/usecase"
	"github.com/SlavaShagalov/car-rental-rest/internal/models"
	pkgErrors "github.com/SlavaShagalov/car-rental-rest/internal/pkg/errors"
	"github.com/SlavaShagalov/car-rental-rest/pkg/sqlxutils"
)

const userColumns = `id, name, email, hashed_password, is_admin, created_at, updated_at`

type userRow struct {
	ID             uuid.UUID `db:"id"`
	Name           string    `db:"name"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
	IsAdmin        bool      `db:"is_admin"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (row userRow) toModel() models.User {
	return models.User{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Password:  row.HashedPassword,
		IsAdmin:   row.IsAdmin,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
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

func (r *SqlxRepository) Create(ctx context.Context, params usecase.CreateParams) (models.User, error) {
	const createCmd = `
	INSERT INTO users (id, name, email, hashed_password, is_admin)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING ` + userColumns + `;`

	var row userRow
	err := sqlxutils.Get(ctx, r.db, &row, createCmd, uuid.New(), params.Name, params.Email, params.HashedPassword, params.IsAdmin)
	if sqlxutils.IsUniqueViolation(err) {
		return models.User{}, pkgErrors.ErrUserAlreadyExists
	} else if err != nil {
		r.logger.Error("failed to create user", slog.String("error", err.Error()))
		return models.User{}, errors.Wrap(pkgErrors.ErrDb, err.Error())
	}

	return row.toModel(), nil
}

func (r *SqlxRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	const getByEmailCmd = `
	SELECT ` + userColumns + `
	FROM users
	WHERE email = $1;`

	return r.get(ctx, getByEmailCmd, email)
}

func (r *SqlxRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	const getByIDCmd = `
	SELECT ` + userColumns + `
	FROM users
	WHERE id = $1;`

	return r.get(ctx, getByIDCmd, id)
}

func (r *SqlxRepository) List(ctx context.Context) ([]models.User, error) {
	const listCmd = `
	SELECT ` + userColumns + `
	FROM users
	ORDER BY email;`

	rows := make([]userRow, 0)
	if err := sqlxutils.Select(ctx, r.db, &rows, listCmd); err != nil {
		r.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, errors.Wrap(pkgErrors.ErrDb, err.Error())
	}

	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toModel())
	}

	return users, nil
}

func (r *SqlxRepository) get(ctx context.Context, query string, arg any) (models.User, error) {
	var row userRow
	err := sqlxutils.Get(ctx, r.db, &row, query, arg)
	if sqlxutils.IsNoRows(err) {
		return models.User{}, pkgErrors.ErrUserNotFound
	} else if err != nil {
		r.logger.Error("failed to get user", slog.String("error", err.Error()))
		return models.User{}, errors.Wrap(pkgErrors.ErrDb, err.Error())
	}

	return row.toModel(), nil
}
