package repository

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/SlavaShagalov/car-rental-rest/internal/models"
	pkgErrors "github.com/SlavaShagalov/car-rental-rest/internal/pkg/errors"
	"github.com/SlavaShagalov/car-rental-rest/pkg/sqlxutils"
)

type namedRow struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name"`
}

// dictionary stores id/name records: brands and car types.
type dictionary struct {
	db       *sqlx.DB
	table    string
	notFound pkgErrors.Error
	logger   *slog.Logger
}

func (d *dictionary) list(ctx context.Context) ([]namedRow, error) {
	rows := make([]namedRow, 0)
	query := `SELECT id, name FROM ` + d.table + ` ORDER BY name;`
	if err := sqlxutils.Select(ctx, d.db, &rows, query); err != nil {
		return nil, d.dbErr(err, "list")
	}
	return rows, nil
}

func (d *dictionary) get(ctx context.Context, id uuid.UUID) (namedRow, error) {
	var row namedRow
	query := `SELECT id, name FROM ` + d.table + ` WHERE id = $1;`
	err := sqlxutils.Get(ctx, d.db, &row, query, id)
	if sqlxutils.IsNoRows(err) {
		return namedRow{}, d.notFound
	} else if err != nil {
		return namedRow{}, d.dbErr(err, "get")
	}
	return row, nil
}

func (d *dictionary) create(ctx context.Context, name string) (namedRow, error) {
	var row namedRow
	query := `INSERT INTO ` + d.table + ` (id, name) VALUES ($1, $2) RETURNING id, name;`
	if err := sqlxutils.Get(ctx, d.db, &row, query, uuid.New(), name); err != nil {
		return namedRow{}, d.dbErr(err, "create")
	}
	return row, nil
}

func (d *dictionary) update(ctx context.Context, id uuid.UUID, name string) (namedRow, error) {
	var row namedRow
	query := `UPDATE ` + d.table + ` SET name = $2 WHERE id = $1 RETURNING id, name;`
	err := sqlxutils.Get(ctx, d.db, &row, query, id, name)
	if sqlxutils.IsNoRows(err) {
		return namedRow{}, d.notFound
	} else if err != nil {
		return namedRow{}, d.dbErr(err, "update")
	}
	return row, nil
}

func (d *dictionary) delete(ctx context.Context, id uuid.UUID) (namedRow, error) {
	var row namedRow
	query := `DELETE FROM ` + d.table + ` WHERE id = $1 RETURNING id, name;`
	err := sqlxutils.Get(ctx, d.db, &row, query, id)
	if sqlxutils.IsNoRows(err) {
		return namedRow{}, d.notFound
	} else if err != nil {
		return namedRow{}, d.dbErr(err, "delete")
	}
	return row, nil
}

func (d *dictionary) dbErr(err error, action string) error {
	d.logger.Error("catalog storage failure",
		slog.String("table", d.table),
		slog.String("action", action),
		slog.String("error", err.Error()),
	)
	return errors.Wrap(pkgErrors.ErrDb, err.Error())
}

type SqlxBrandRepository struct {
	dict dictionary
}

func NewSqlxBrandRepository(db *sqlx.DB, logger *slog.Logger) *SqlxBrandRepository {
	return &SqlxBrandRepository{dict: dictionary{db: db, table: "brands", notFound: pkgErrors.ErrBrandNotFound, logger: logger}}
}

func (r *SqlxBrandRepository) List(ctx context.Context) ([]models.Brand, error) {
	rows, err := r.dict.list(ctx)
	if err != nil {
		return nil, err
	}

	brands := make([]models.Brand, 0, len(rows))
	for _, row := range rows {
		brands = append(brands, models.Brand(row))
	}
	return brands, nil
}

func (r *SqlxBrandRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Brand, error) {
	row, err := r.dict.get(ctx, id)
	return models.Brand(row), err
}

func (r *SqlxBrandRepository) Create(ctx context.Context, name string) (models.Brand, error) {
	row, err := r.dict.create(ctx, name)
	return models.Brand(row), err
}

func (r *SqlxBrandRepository) Update(ctx context.Context, id uuid.UUID, name string) (models.Brand, error) {
	row, err := r.dict.update(ctx, id, name)
	return models.Brand(row), err
}

func (r *SqlxBrandRepository) Delete(ctx context.Context, id uuid.UUID) (models.Brand, error) {
	row, err := r.dict.delete(ctx, id)
	return models.Brand(row), err
}

type SqlxTypeRepository struct {
	dict dictionary
}

func NewSqlxTypeRepository(db *sqlx.DB, logger *slog.Logger) *SqlxTypeRepository {
	return &SqlxTypeRepository{dict: dictionary{db: db, table: "types", notFound: pkgErrors.ErrTypeNotFound, logger: logger}}
}

func (r *SqlxTypeRepository) List(ctx context.Context) ([]models.Type, error) {
	rows, err := r.dict.list(ctx)
	if err != nil {
		return nil, err
	}

	types := make([]models.Type, 0, len(rows))
	for _, row := range rows {
		types = append(types, models.Type(row))
	}
	return types, nil
}

func (r *SqlxTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Type, error) {
	row, err := r.dict.get(ctx, id)
	return models.Type(row), err
}

func (r *SqlxTypeRepository) Create(ctx context.Context, name string) (models.Type, error) {
	row, err := r.dict.create(ctx, name)
	return models.Type(row), err
}

func (r *SqlxTypeRepository) Update(ctx context.Context, id uuid.UUID, name string) (models.Type, error) {
	row, err := r.dict.update(ctx, id, name)
	return models.Type(row), err
}

func (r *SqlxTypeRepository) Delete(ctx context.Context, id uuid.UUID) (models.Type, error) {
	row, err := r.dict.delete(ctx, id)
	return models.Type(row), err
}
