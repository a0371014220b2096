package delivery_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SlavaShagalov/car-rental-rest/internal/models"
	"github.com/SlavaShagalov/car-rental-rest/internal/pkg/app"
	pkgErrors "github.com/SlavaShagalov/car-rental-rest/internal/pkg/errors"
	"github.com/SlavaShagalov/car-rental-rest/internal/rental/delivery"
	"github.com/SlavaShagalov/car-rental-rest/internal/rental/delivery/mocks"
)

type fixture struct {
	uc     *mocks.MockUseCase
	server *app.FiberApp
	tokens *app.TokenManager
	user   models.User
	admin  models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := gomock.NewController(t)
	uc := mocks.NewMockUseCase(ctrl)
	tokens := app.NewTokenManager("secret", time.Hour)

	d := delivery.New(uc, app.NewAuth(tokens, logger), logger)

	return &fixture{
		uc:     uc,
		server: app.NewFiberApp(app.WebConfig{}, []app.Delivery{d}, logger),
		tokens: tokens,
		user:   models.User{ID: uuid.New(), Name: "user1", Email: "user1@domain.com"},
		admin:  models.User{ID: uuid.New(), Name: "admin", Email: "admin@domain.com", IsAdmin: true},
	}
}

func (f *fixture) do(t *testing.T, method, path, body string, as *models.User) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		token, err := f.tokens.Issue(*as)
		require.NoError(t, err)
		req.Header.Set(app.TokenHeader, token)
	}

	resp, err := f.server.Fiber().Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	payload := map[string]any{}
	_ = json.Unmarshal(raw, &payload)

	return resp, payload
}

func TestStartRental(t *testing.T) {
	f := newFixture(t)
	carID := uuid.New()
	rental := models.Rental{ID: uuid.New(), User: f.user.Snapshot(), Car: models.CarSnapshot{ID: carID}}

	f.uc.EXPECT().Start(gomock.Any(), f.user.ID, carID).Return(rental, nil)

	resp, payload := f.do(t, http.MethodPost, "/api/rentals", `{"carId":"`+carID.String()+`"}`, &f.user)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, rental.ID.String(), payload["id"])
}

func TestStartRentalErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		anonymous  bool
		ucErr      error
		wantStatus int
		wantMsg    string
	}{
		{name: "no token", body: `{"carId":"` + uuid.NewString() + `"}`, anonymous: true, wantStatus: http.StatusUnauthorized, wantMsg: string(pkgErrors.ErrUnauthorized)},
		{name: "missing car id", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "malformed car id", body: `{"carId":"1234"}`, wantStatus: http.StatusBadRequest},
		{name: "broken json", body: `{"carId":`, wantStatus: http.StatusBadRequest, wantMsg: string(pkgErrors.ErrBadRequest)},
		{name: "out of stock", body: `{"carId":"` + uuid.NewString() + `"}`, ucErr: pkgErrors.ErrOutOfStock, wantStatus: http.StatusBadRequest, wantMsg: string(pkgErrors.ErrOutOfStock)},
		{name: "already rented", body: `{"carId":"` + uuid.NewString() + `"}`, ucErr: pkgErrors.ErrAlreadyRented, wantStatus: http.StatusBadRequest, wantMsg: string(pkgErrors.ErrAlreadyRented)},
		{name: "grouped write", body: `{"carId":"` + uuid.NewString() + `"}`, ucErr: pkgErrors.ErrGroupedWrite, wantStatus: http.StatusInternalServerError, wantMsg: "Something failed."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			if tc.ucErr != nil {
				f.uc.EXPECT().Start(gomock.Any(), f.user.ID, gomock.Any()).Return(models.Rental{}, tc.ucErr)
			}

			as := &f.user
			if tc.anonymous {
				as = nil
			}
			resp, payload := f.do(t, http.MethodPost, "/api/rentals", tc.body, as)

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			if tc.wantMsg != "" {
				assert.Equal(t, tc.wantMsg, payload["message"])
			}
		})
	}
}

func TestReturnRental(t *testing.T) {
	f := newFixture(t)
	carID := uuid.New()

	f.uc.EXPECT().Return(gomock.Any(), f.user.ID, carID).Return(models.Rental{}, pkgErrors.ErrNoActiveRental)

	resp, payload := f.do(t, http.MethodPost, "/api/returns", `{"carId":"`+carID.String()+`"}`, &f.user)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(pkgErrors.ErrNoActiveRental), payload["message"])
}

func TestReturnRentalMalformedCarID(t *testing.T) {
	for _, body := range []string{`{"carId":"1234"}`, `{"carId":"zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz"}`} {
		f := newFixture(t)

		resp, _ := f.do(t, http.MethodPost, "/api/returns", body, &f.user)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestListRentalsAdminOnly(t *testing.T) {
	f := newFixture(t)

	resp, _ := f.do(t, http.MethodGet, "/api/rentals", "", &f.user)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	f.uc.EXPECT().List(gomock.Any()).Return([]models.Rental{}, nil)

	resp, _ = f.do(t, http.MethodGet, "/api/rentals", "", &f.admin)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListMyRentals(t *testing.T) {
	f := newFixture(t)

	f.uc.EXPECT().ListByUser(gomock.Any(), f.user.ID).Return([]models.Rental{}, nil)

	resp, _ := f.do(t, http.MethodGet, "/api/rentals/me", "", &f.user)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetRental(t *testing.T) {
	f := newFixture(t)

	resp, payload := f.do(t, http.MethodGet, "/api/rentals/1234", "", &f.admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(pkgErrors.ErrInvalidID), payload["message"])

	id := uuid.New()
	f.uc.EXPECT().GetByID(gomock.Any(), id).Return(models.Rental{}, pkgErrors.ErrRentalNotFound)

	resp, _ = f.do(t, http.MethodGet, "/api/rentals/"+id.String(), "", &f.admin)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRentalEvents(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()

	f.uc.EXPECT().Events(gomock.Any(), id).Return([]models.RentalEvent{{ID: uuid.New(), Type: models.RentalStarted, RentalID: id}}, nil)

	resp, _ := f.do(t, http.MethodGet, "/api/rentals/"+id.String()+"/events", "", &f.admin)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
