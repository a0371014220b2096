package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/lmittmann/tint"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"

	auditRepository "github.com/SlavaShagalov/car-rental-rest/internal/audit/repository"
	authDelivery "github.com/SlavaShagalov/car-rental-rest/internal/auth/delivery"
	authRepository "github.com/SlavaShagalov/car-rental-rest/internal/auth/repository"
	authUseCase "github.com/SlavaShagalov/car-rental-rest/internal/auth/usecase"
	catalogDelivery "github.com/SlavaShagalov/car-rental-rest/internal/catalog/delivery"
	catalogRepository "github.com/SlavaShagalov/car-rental-rest/internal/catalog/repository"
	catalogUseCase "github.com/SlavaShagalov/car-rental-rest/internal/catalog/usecase"
	"github.com/SlavaShagalov/car-rental-rest/internal/pkg/app"
	"github.com/SlavaShagalov/car-rental-rest/internal/pkg/hasher"
	rentalDelivery "github.com/SlavaShagalov/car-rental-rest/internal/rental/delivery"
	rentalRepository "github.com/SlavaShagalov/car-rental-rest/internal/rental/repository"
	rentalUseCase "github.com/SlavaShagalov/car-rental-rest/internal/rental/usecase"
	"github.com/SlavaShagalov/car-rental-rest/pkg/events"
	"github.com/SlavaShagalov/car-rental-rest/pkg/groupwrite"
	"github.com/SlavaShagalov/car-rental-rest/pkg/migrations"
)

type WebApp interface {
	Start() error
	Shutdown(ctx context.Context) error
}

func startApp(webApp WebApp, config app.Config, logger *slog.Logger) {
	logger.Debug(fmt.Sprintf("web app starts at %s", config.Web.Host+":"+config.Web.Port),
		slog.String("db_driver", config.DB.DriverName),
		slog.String("grouped_write", config.Rental.GroupedWrite),
		slog.Bool("kafka", config.Kafka.Enabled),
	)

	go func() {
		err := webApp.Start()
		if err != nil {
			panic(err)
		}
	}()
}

func shutdownApp(webApp WebApp, logger *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Debug("shutdown web app ...")

	const shutdownTimeout = time.Minute
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := webApp.Shutdown(ctx)
	if err != nil {
		panic(err)
	}

	logger.Debug("web app exited")
}

func newGroupedWriter(config app.RentalConfig, db *sqlx.DB, logger *slog.Logger) groupwrite.Executor {
	if config.GroupedWrite == app.GroupedWriteCompensation {
		return groupwrite.NewCompensating(logger)
	}
	return groupwrite.NewTransactional(db, logger)
}

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "configs/api.yaml", "Config file path")
	pflag.Parse()

	config, err := app.ReadLocalConfig(configPath)
	if err != nil {
		panic(err)
	}
	if err = config.RequireAuth(); err != nil {
		panic(err)
	}

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: slog.Level(config.Logging.Level)}))

	decimal.MarshalJSONWithoutQuotes = true

	db, err := sqlx.Connect(config.DB.DriverName, config.DB.ConnectionString)
	if err != nil {
		panic(err)
	}

	err = migrations.Do(config.DB.ConnectionString, config.DB.MigrationsPath, logger)
	if err != nil {
		panic(err)
	}

	var (
		publisher   rentalUseCase.Publisher = events.NoopPublisher{}
		kafkaWriter *kafka.Writer
	)
	if config.Kafka.Enabled {
		kafkaWriter = &kafka.Writer{
			Addr:                   kafka.TCP(config.Kafka.Addresses...),
			Topic:                  config.Kafka.Topic,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		}
		publisher = events.NewKafkaEvents(nil, kafkaWriter, nil, events.DefaultBreakerSettings, logger)
	}

	tokens := app.NewTokenManager(config.Auth.JWTSecret, time.Duration(config.Auth.TokenTTLMinutes)*time.Minute)
	auth := app.NewAuth(tokens, logger)

	users := authRepository.NewSqlxRepository(db, logger)
	brands := catalogRepository.NewSqlxBrandRepository(db, logger)
	types := catalogRepository.NewSqlxTypeRepository(db, logger)
	cars := catalogRepository.NewSqlxCarRepository(db, logger)

	rentals := rentalUseCase.New(
		rentalRepository.NewSqlxRepository(db, logger),
		rentalRepository.NewSqlxStockLedger(db, logger),
		users,
		cars,
		newGroupedWriter(config.Rental, db, logger),
		logger,
		rentalUseCase.WithEvents(publisher, auditRepository.NewSqlxRepository(db, logger)),
	)

	deliveries := []app.Delivery{
		authDelivery.New(authUseCase.New(users, tokens, logger, hasher.NewBcrypt(hasher.DefaultCost)), auth, logger),
		catalogDelivery.New(catalogUseCase.New(brands, types, cars, logger), auth, logger),
		rentalDelivery.New(rentals, auth, logger),
	}

	webApp := app.NewFiberApp(config.Web, deliveries, logger)

	startApp(webApp, config, logger)
	shutdownApp(webApp, logger)

	err = db.Close()
	if kafkaWriter != nil {
		err = multierr.Append(err, kafkaWriter.Close())
	}
	if err != nil {
		logger.Error("failed to release resources", slog.String("error", err.Error()))
	}
}
