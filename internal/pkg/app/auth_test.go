package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SlavaShagalov/car-rental-rest/internal/models"
	pkgErrors "github.com/SlavaShagalov/car-rental-rest/internal/pkg/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTokenManager(t *testing.T) {
	user := models.User{ID: uuid.New(), Name: "user1", Email: "user1@domain.com", IsAdmin: true}
	tokens := NewTokenManager("secret", time.Hour)

	token, err := tokens.Issue(user)
	require.NoError(t, err)

	principal, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: user.ID, Name: "user1", Email: "user1@domain.com", IsAdmin: true}, principal)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenManager("other", time.Hour).Parse(token)
		assert.ErrorIs(t, err, pkgErrors.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewTokenManager("secret", time.Hour)
		expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		_, err := expired.Parse(token)
		assert.ErrorIs(t, err, pkgErrors.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tokens.Parse("1234")
		assert.ErrorIs(t, err, pkgErrors.ErrInvalidToken)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	auth := NewAuth(tokens, testLogger())

	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(testLogger())})
	app.Get("/me", auth.Required(), func(ctx *fiber.Ctx) error {
		principal, ok := PrincipalFrom(ctx.UserContext())
		if !ok {
			return ctx.SendStatus(fiber.StatusInternalServerError)
		}
		return ctx.SendString(principal.Name)
	})
	app.Get("/admin", auth.Required(), auth.AdminOnly(), func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusOK)
	})

	userToken, err := tokens.Issue(models.User{ID: uuid.New(), Name: "user1"})
	require.NoError(t, err)
	adminToken, err := tokens.Issue(models.User{ID: uuid.New(), Name: "admin", IsAdmin: true})
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		token  string
		status int
	}{
		{"no token", "/me", "", "", http.StatusUnauthorized},
		{"invalid token", "/me", TokenHeader, "1234", http.StatusUnauthorized},
		{"bearer token", "/me", authHeader, bearerPrefix + userToken, http.StatusOK},
		{"x-auth-token", "/me", TokenHeader, userToken, http.StatusOK},
		{"not an admin", "/admin", TokenHeader, userToken, http.StatusForbidden},
		{"admin", "/admin", TokenHeader, adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.token)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
