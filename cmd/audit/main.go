package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/lmittmann/tint"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/SlavaShagalov/car-rental-rest/internal/audit/repository"
	"github.com/SlavaShagalov/car-rental-rest/internal/pkg/app"
	"github.com/SlavaShagalov/car-rental-rest/pkg/events"
	"github.com/SlavaShagalov/car-rental-rest/pkg/migrations"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "configs/audit.yaml", "Config file path")
	pflag.Parse()

	config, err := app.ReadLocalConfig(configPath)
	if err != nil {
		panic(err)
	}
	if !config.Kafka.Enabled {
		panic("audit requires kafka.enabled")
	}

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: slog.Level(config.Logging.Level)}))

	db, err := sqlx.Connect(config.DB.DriverName, config.DB.ConnectionString)
	if err != nil {
		panic(err)
	}

	err = migrations.Do(config.DB.ConnectionString, config.DB.MigrationsPath, logger)
	if err != nil {
		panic(err)
	}

	repo := repository.NewSqlxRepository(db, logger)

	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: config.Kafka.Addresses,
		Topic:   config.Kafka.Topic,
	})

	audit := events.NewKafkaEvents(kafkaReader, nil, repo, events.DefaultBreakerSettings, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Debug("audit consumer started", slog.String("topic", config.Kafka.Topic))

	for ctx.Err() == nil {
		err = audit.SaveEvent(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("failed to save rental event", slog.String("error", err.Error()))
		}
	}

	logger.Debug("audit consumer exited")

	if err = multierr.Combine(kafkaReader.Close(), db.Close()); err != nil {
		logger.Error("failed to release resources", slog.String("error", err.Error()))
	}
}
