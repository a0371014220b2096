package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/SlavaShagalov/car-rental-rest/internal/models"
	pkgErrors "github.com/SlavaShagalov/car-rental-rest/internal/pkg/errors"
	"github.com/SlavaShagalov/car-rental-rest/pkg/groupwrite"
)

type UseCase struct {
	rentals RentalRepository
	stock   StockLedger
	users   UserRepository
	cars    CarRepository
	writer  groupwrite.Executor
	events  Publisher
	history EventLog
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*UseCase)

func WithClock(now func() time.Time) Option {
	return func(u *UseCase) {
		u.now = now
	}
}

func WithEvents(events Publisher, history EventLog) Option {
	return func(u *UseCase) {
		u.events = events
		u.history = history
	}
}

func New(
	rentals RentalRepository,
	stock StockLedger,
	users UserRepository,
	cars CarRepository,
	writer groupwrite.Executor,
	logger *slog.Logger,
	opts ...Option,
) *UseCase {
	u := &UseCase{
		rentals: rentals,
		stock:   stock,
		users:   users,
		cars:    cars,
		writer:  writer,
		logger:  logger,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

func (u *UseCase) HealthCheck(ctx context.Context) error {
	return u.rentals.HealthCheck(ctx)
}

func (u *UseCase) FindActive(ctx context.Context, userID, carID uuid.UUID) (models.Rental, error) {
	return u.rentals.FindActive(ctx, userID, carID)
}

// Start rents carID to userID: it inserts a rental and takes one car out
// of stock as a single grouped write.
func (u *UseCase) Start(ctx context.Context, userID, carID uuid.UUID) (models.Rental, error) {
	user, err := u.users.GetByID(ctx, userID)
	if errors.Is(err, pkgErrors.ErrUserNotFound) {
		return models.Rental{}, pkgErrors.ErrInvalidUser
	} else if err != nil {
		return models.Rental{}, err
	}

	car, err := u.cars.GetByID(ctx, carID)
	if errors.Is(err, pkgErrors.ErrCarNotFound) {
		return models.Rental{}, pkgErrors.ErrInvalidCar
	} else if err != nil {
		return models.Rental{}, err
	}

	_, err = u.rentals.FindActive(ctx, userID, carID)
	if err == nil {
		return models.Rental{}, pkgErrors.ErrAlreadyRented
	} else if !errors.Is(err, pkgErrors.ErrNoActiveRental) {
		return models.Rental{}, err
	}

	if car.NumberInStock <= 0 {
		return models.Rental{}, pkgErrors.ErrOutOfStock
	}

	rental := models.Rental{
		ID:      uuid.New(),
		User:    user.Snapshot(),
		Car:     car.Snapshot(),
		DateOut: u.timestamp(),
	}

	err = u.writer.Run(ctx,
		groupwrite.Op{
			Name:       "insert rental",
			Apply:      func(ctx context.Context) error { return u.rentals.Create(ctx, rental) },
			Compensate: func(ctx context.Context) error { return u.rentals.Delete(ctx, rental.ID) },
		},
		groupwrite.Op{
			Name:       "decrement stock",
			Apply:      func(ctx context.Context) error { return u.stock.Decrement(ctx, car.ID) },
			Compensate: func(ctx context.Context) error { return u.stock.Increment(ctx, car.ID) },
		},
	)
	if err != nil {
		return models.Rental{}, u.groupedWriteErr(err, "start rental", rental)
	}

	u.publish(ctx, models.RentalStarted, rental)

	return rental, nil
}

// Return closes the active rental of userID for carID, charges it and puts
// the car back in stock as a single grouped write.
func (u *UseCase) Return(ctx context.Context, userID, carID uuid.UUID) (models.Rental, error) {
	rental, err := u.rentals.FindActive(ctx, userID, carID)
	if err != nil {
		return models.Rental{}, err
	}

	dateReturned := u.timestamp()
	fee := RentalFee(rental.Car.DailyRentalRate, rental.DateOut, dateReturned)

	err = u.writer.Run(ctx,
		groupwrite.Op{
			Name:       "close rental",
			Apply:      func(ctx context.Context) error { return u.rentals.Close(ctx, rental.ID, dateReturned, fee) },
			Compensate: func(ctx context.Context) error { return u.rentals.Reopen(ctx, rental.ID) },
		},
		groupwrite.Op{
			Name:       "increment stock",
			Apply:      func(ctx context.Context) error { return u.incrementStock(ctx, rental) },
			Compensate: func(ctx context.Context) error { return u.stock.Decrement(ctx, rental.Car.ID) },
		},
	)
	if err != nil {
		return models.Rental{}, u.groupedWriteErr(err, "return rental", rental)
	}

	rental.DateReturned = &dateReturned
	rental.RentalFee = &fee

	u.publish(ctx, models.RentalClosed, rental)

	return rental, nil
}

// A car removed from the catalog while rented has no stock to put it back
// into; the return itself still succeeds.
func (u *UseCase) incrementStock(ctx context.Context, rental models.Rental) error {
	err := u.stock.Increment(ctx, rental.Car.ID)
	if errors.Is(err, pkgErrors.ErrCarNotFound) {
		u.logger.Warn("returned car is no longer in the catalog",
			slog.String("rental_id", rental.ID.String()),
			slog.String("car_id", rental.Car.ID.String()),
		)
		return nil
	}
	return err
}

func (u *UseCase) List(ctx context.Context) ([]models.Rental, error) {
	return u.rentals.List(ctx)
}

func (u *UseCase) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Rental, error) {
	return u.rentals.ListByUser(ctx, userID)
}

func (u *UseCase) GetByID(ctx context.Context, id uuid.UUID) (models.Rental, error) {
	return u.rentals.GetByID(ctx, id)
}

func (u *UseCase) Events(ctx context.Context, rentalID uuid.UUID) ([]models.RentalEvent, error) {
	if _, err := u.rentals.GetByID(ctx, rentalID); err != nil {
		return nil, err
	}

	if u.history == nil {
		return []models.RentalEvent{}, nil
	}
	return u.history.ListByRental(ctx, rentalID)
}

// Postgres keeps microseconds; truncating keeps the returned rental equal
// to the stored one.
func (u *UseCase) timestamp() time.Time {
	return u.now().UTC().Truncate(time.Microsecond)
}

// groupedWriteErr keeps precondition errors detected by the store (a
// concurrent request won the race) and turns everything else into
// ErrGroupedWrite.
func (u *UseCase) groupedWriteErr(err error, operation string, rental models.Rental) error {
	attrs := []any{
		slog.String("operation", operation),
		slog.String("rental_id", rental.ID.String()),
		slog.String("user_id", rental.User.ID.String()),
		slog.String("car_id", rental.Car.ID.String()),
		slog.String("error", err.Error()),
	}

	if errors.Is(err, groupwrite.ErrCompensationFailed) {
		u.logger.Error("rental and car stock are out of sync, reconcile manually", attrs...)
		return &compensationFailure{cause: err}
	}

	for _, kind := range []pkgErrors.Error{pkgErrors.ErrAlreadyRented, pkgErrors.ErrOutOfStock, pkgErrors.ErrNoActiveRental} {
		if errors.Is(err, kind) {
			return kind
		}
	}

	u.logger.Error("grouped write failed", attrs...)
	return errors.Wrap(pkgErrors.ErrGroupedWrite, err.Error())
}

// compensationFailure reports a grouped write that left the rental and the
// car stock out of sync. It matches ErrGroupedWrite and ErrCompensationFailed
// but hides the failed step, so callers never mistake it for a precondition
// error.
type compensationFailure struct {
	cause error
}

func (e *compensationFailure) Error() string {
	return pkgErrors.ErrGroupedWrite.Error() + ": " + e.cause.Error()
}

func (e *compensationFailure) Is(target error) bool {
	return target == pkgErrors.ErrGroupedWrite || target == groupwrite.ErrCompensationFailed
}

func (u *UseCase) publish(ctx context.Context, eventType models.RentalEventType, rental models.Rental) {
	if u.events == nil {
		return
	}

	event := models.NewRentalEvent(eventType, rental, u.timestamp())
	if err := u.events.Publish(ctx, event); err != nil {
		u.logger.Warn("failed to publish rental event",
			slog.String("type", string(eventType)),
			slog.String("rental_id", rental.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}
