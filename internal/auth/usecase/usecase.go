package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/SlavaShagalov/car-rental-rest/internal/models"
	pkgErrors "github.com/SlavaShagalov/car-rental-rest/internal/pkg/errors"
	pkgHasher "github.com/SlavaShagalov/car-rental-rest/internal/pkg/hasher"
)

type UseCase struct {
	repo   Repository
	tokens TokenIssuer
	logger *slog.Logger
	hasher pkgHasher.Hasher
}

func New(repo Repository, tokens TokenIssuer, logger *slog.Logger, hasher pkgHasher.Hasher) *UseCase {
	return &UseCase{
		repo:   repo,
		tokens: tokens,
		logger: logger,
		hasher: hasher,
	}
}

func (u *UseCase) HealthCheck(ctx context.Context) error {
	return u.repo.HealthCheck(ctx)
}

func (u *UseCase) SignUp(ctx context.Context, params SignUpParams) (models.User, string, error) {
	_, err := u.repo.GetByEmail(ctx, params.Email)
	if !errors.Is(err, pkgErrors.ErrUserNotFound) {
		if err != nil {
			return models.User{}, "", err
		}
		return models.User{}, "", pkgErrors.ErrUserAlreadyExists
	}

	hashedPassword, err := u.hasher.GetHashedPassword(ctx, params.Password)
	if err != nil {
		return models.User{}, "", errors.Wrap(pkgErrors.ErrGetHashedPassword, err.Error())
	}

	repParams := CreateParams{
		Name:           params.Name,
		Email:          params.Email,
		HashedPassword: hashedPassword,
	}

	user, err := u.repo.Create(ctx, repParams)
	if err != nil {
		return models.User{}, "", err
	}

	token, err := u.tokens.Issue(user)
	if err != nil {
		return models.User{}, "", err
	}

	return user, token, nil
}

// SignIn answers the same error for an unknown email and a wrong password.
func (u *UseCase) SignIn(ctx context.Context, params SignInParams) (string, error) {
	user, err := u.repo.GetByEmail(ctx, params.Email)
	if errors.Is(err, pkgErrors.ErrUserNotFound) {
		return "", pkgErrors.ErrWrongLoginOrPassword
	} else if err != nil {
		return "", err
	}

	if err = u.hasher.CompareHashAndPassword(ctx, user.Password, params.Password); err != nil {
		return "", errors.Wrap(pkgErrors.ErrWrongLoginOrPassword, err.Error())
	}

	return u.tokens.Issue(user)
}

func (u *UseCase) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return u.repo.GetByID(ctx, id)
}

func (u *UseCase) List(ctx context.Context) ([]models.User, error) {
	return u.repo.List(ctx)
}
