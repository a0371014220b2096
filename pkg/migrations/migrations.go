package migrations

import (
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/pkg/errors"
)

// Do applies every pending migration found in migrationsPath.
func Do(connectionString, migrationsPath string, logger *slog.Logger) error {
	m, err := migrate.New("file://"+migrationsPath, connectionString)
	if err != nil {
		return errors.Wrap(err, "create migrate instance")
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Warn("failed to close migrate instance", slog.Any("source_error", srcErr), slog.Any("db_error", dbErr))
		}
	}()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Debug("migrations: no change")
		return nil
	} else if err != nil {
		return errors.Wrap(err, "apply migrations")
	}

	version, dirty, err := m.Version()
	if err != nil {
		return errors.Wrap(err, "read migration version")
	}
	logger.Info("migrations applied", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))

	return nil
}
