package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/SlavaShagalov/car-rental-rest/internal/models"
)

//go:generate mockgen -source=contract.go -destination=mocks/contract.go -package=mocks

type SignInParams struct {
	Email    string
	Password string
}

type SignUpParams struct {
	Name     string
	Email    string
	Password string
}

type CreateParams struct {
	Name           string
	Email          string
	HashedPassword string
	IsAdmin        bool
}

type Repository interface {
	HealthCheck(ctx context.Context) error

	Create(ctx context.Context, params CreateParams) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type TokenIssuer interface {
	Issue(user models.User) (string, error)
}
