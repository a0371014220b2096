package delivery

import (
	"context"

	"github.com/google/uuid"

	"github.com/SlavaShagalov/car-rental-rest/internal/auth/usecase"
	"github.com/SlavaShagalov/car-rental-rest/internal/models"
	"github.com/SlavaShagalov/car-rental-rest/internal/pkg/app"
)

//go:generate mockgen -source=contract.go -destination=mocks/contract.go -package=mocks

type UseCase interface {
	app.HealthChecker

	SignIn(ctx context.Context, params usecase.SignInParams) (string, error)
	SignUp(ctx context.Context, params usecase.SignUpParams) (models.User, string, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
}
