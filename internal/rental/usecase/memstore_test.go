package usecase_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SlavaShagalov/car-rental-rest/internal/models"
	pkgErrors "github.com/SlavaShagalov/car-rental-rest/internal/pkg/errors"
)

// memStore is a store without transactions. It keeps the same guarantees
// as the SQL schema: one active rental per pair and stock never below 0.
type memStore struct {
	mu      sync.Mutex
	users   map[uuid.UUID]models.User
	cars    map[uuid.UUID]models.Car
	rentals map[uuid.UUID]models.Rental
	// fail makes the next call of the named method return the error.
	fail map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[uuid.UUID]models.User),
		cars:    make(map[uuid.UUID]models.Car),
		rentals: make(map[uuid.UUID]models.Rental),
		fail:    make(map[string]error),
	}
}

func (s *memStore) addUser(name string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := models.User{ID: uuid.New(), Name: name, Email: name + "@domain.com"}
	s.users[user.ID] = user
	return user
}

func (s *memStore) addCar(name string, stock int, rate int64) models.Car {
	s.mu.Lock()
	defer s.mu.Unlock()

	car := models.Car{ID: uuid.New(), Name: name, NumberInStock: stock, DailyRentalRate: decimal.NewFromInt(rate)}
	s.cars[car.ID] = car
	return car
}

func (s *memStore) failNext(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[method] = err
}

func (s *memStore) injected(method string) error {
	err := s.fail[method]
	delete(s.fail, method)
	return err
}

func (s *memStore) stock(carID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cars[carID].NumberInStock
}

func (s *memStore) setRate(carID uuid.UUID, rate int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	car := s.cars[carID]
	car.DailyRentalRate = decimal.NewFromInt(rate)
	s.cars[carID] = car
}

func (s *memStore) countActive(userID, carID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, r := range s.rentals {
		if r.User.ID == userID && r.Car.ID == carID && r.Active() {
			n++
		}
	}
	return n
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rentals)
}

// shift moves dateOut of a rental into the past.
func (s *memStore) shift(id uuid.UUID, by time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.rentals[id]
	r.DateOut = r.DateOut.Add(-by)
	s.rentals[id] = r
}

func (s *memStore) HealthCheck(context.Context) error {
	return nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (models.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rentals[id]
	if !ok {
		return models.Rental{}, pkgErrors.ErrRentalNotFound
	}
	return r, nil
}

func (s *memStore) FindActive(_ context.Context, userID, carID uuid.UUID) (models.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.rentals {
		if r.User.ID == userID && r.Car.ID == carID && r.Active() {
			return r, nil
		}
	}
	return models.Rental{}, pkgErrors.ErrNoActiveRental
}

func (s *memStore) List(context.Context) ([]models.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]models.Rental, 0, len(s.rentals))
	for _, r := range s.rentals {
		res = append(res, r)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].DateOut.After(res[j].DateOut) })
	return res, nil
}

func (s *memStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Rental, error) {
	all, _ := s.List(ctx)
	res := make([]models.Rental, 0)
	for _, r := range all {
		if r.User.ID == userID {
			res = append(res, r)
		}
	}
	return res, nil
}

func (s *memStore) Create(_ context.Context, rental models.Rental) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.injected("Create"); err != nil {
		return err
	}
	for _, r := range s.rentals {
		if r.User.ID == rental.User.ID && r.Car.ID == rental.Car.ID && r.Active() {
			return pkgErrors.ErrAlreadyRented
		}
	}
	s.rentals[rental.ID] = rental
	return nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.injected("Delete"); err != nil {
		return err
	}
	delete(s.rentals, id)
	return nil
}

func (s *memStore) Close(_ context.Context, id uuid.UUID, dateReturned time.Time, fee decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.injected("Close"); err != nil {
		return err
	}
	r, ok := s.rentals[id]
	if !ok || !r.Active() {
		return pkgErrors.ErrNoActiveRental
	}
	r.DateReturned = &dateReturned
	r.RentalFee = &fee
	s.rentals[id] = r
	return nil
}

func (s *memStore) Reopen(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.rentals[id]
	r.DateReturned = nil
	r.RentalFee = nil
	s.rentals[id] = r
	return nil
}

func (s *memStore) Decrement(_ context.Context, carID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.injected("Decrement"); err != nil {
		return err
	}
	car, ok := s.cars[carID]
	if !ok || car.NumberInStock <= 0 {
		return pkgErrors.ErrOutOfStock
	}
	car.NumberInStock--
	s.cars[carID] = car
	return nil
}

func (s *memStore) Increment(_ context.Context, carID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.injected("Increment"); err != nil {
		return err
	}
	car, ok := s.cars[carID]
	if !ok {
		return pkgErrors.ErrCarNotFound
	}
	car.NumberInStock++
	s.cars[carID] = car
	return nil
}

type memUsers struct{ *memStore }

func (s memUsers) GetByID(_ context.Context, id uuid.UUID) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return models.User{}, pkgErrors.ErrUserNotFound
	}
	return u, nil
}

type memCars struct{ *memStore }

func (s memCars) GetByID(_ context.Context, id uuid.UUID) (models.Car, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cars[id]
	if !ok {
		return models.Car{}, pkgErrors.ErrCarNotFound
	}
	return c, nil
}
