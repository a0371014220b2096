package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/SlavaShagalov/car-rental-rest/internal/models"
	pkgErrors "github.com/SlavaShagalov/car-rental-rest/internal/pkg/errors"
)

type ctxKey string

const principalKey ctxKey = "principal"

const (
	authHeader   = "Authorization"
	bearerPrefix = "Bearer "
	// TokenHeader carries the token for clients that do not send Authorization.
	TokenHeader = "x-auth-token"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID  uuid.UUID
	Name    string
	Email   string
	IsAdmin bool
}

type claims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *TokenManager) Issue(user models.User) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(pkgErrors.ErrIssueToken, err.Error())
	}

	return signed, nil
}

func (m *TokenManager) Parse(tokenString string) (Principal, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return Principal{}, errors.Wrap(pkgErrors.ErrInvalidToken, err.Error())
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return Principal{}, errors.Wrap(pkgErrors.ErrInvalidToken, "subject is not a user id")
	}

	return Principal{
		UserID:  userID,
		Name:    c.Name,
		Email:   c.Email,
		IsAdmin: c.IsAdmin,
	}, nil
}

type Auth struct {
	tokens *TokenManager
	logger *slog.Logger
}

func NewAuth(tokens *TokenManager, logger *slog.Logger) *Auth {
	return &Auth{
		tokens: tokens,
		logger: logger,
	}
}

// Required rejects requests without a valid token and stores the caller in
// the user context.
func (a *Auth) Required() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := extractToken(ctx)
		if token == "" {
			return pkgErrors.ErrUnauthorized
		}

		principal, err := a.tokens.Parse(token)
		if err != nil {
			a.logger.Debug("reject token", slog.String("error", err.Error()))
			return pkgErrors.ErrInvalidToken
		}

		ctx.SetUserContext(WithPrincipal(ctx.UserContext(), principal))

		return ctx.Next()
	}
}

// AdminOnly must run after Required.
func (a *Auth) AdminOnly() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		principal, ok := PrincipalFrom(ctx.UserContext())
		if !ok {
			return pkgErrors.ErrUnauthorized
		}
		if !principal.IsAdmin {
			return pkgErrors.ErrForbidden
		}

		return ctx.Next()
	}
}

func extractToken(ctx *fiber.Ctx) string {
	header := ctx.Get(authHeader)
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimPrefix(header, bearerPrefix)
	}

	return ctx.Get(TokenHeader)
}

func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalKey).(Principal)
	return principal, ok
}
