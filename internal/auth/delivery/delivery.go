package delivery

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/SlavaShagalov/car-rental-rest/internal/auth/usecase"
	"github.com/SlavaShagalov/car-rental-rest/internal/pkg/app"
	pkgErrors "github.com/SlavaShagalov/car-rental-rest/internal/pkg/errors"
)

type Delivery struct {
	useCase UseCase
	auth    *app.Auth
	logger  *slog.Logger
}

func New(useCase UseCase, auth *app.Auth, logger *slog.Logger) *Delivery {
	return &Delivery{
		useCase: useCase,
		auth:    auth,
		logger:  logger,
	}
}

func (d *Delivery) HealthCheck(ctx context.Context) error {
	return d.useCase.HealthCheck(ctx)
}

func (d *Delivery) AddHandlers(router fiber.Router) {
	router.Post("/register", d.signup)
	router.Post("/login", d.signin)

	users := router.Group("/users", d.auth.Required())
	users.Get("/me", d.me)
	users.Get("/", d.auth.AdminOnly(), d.list)
}

func (d *Delivery) signup(ctx *fiber.Ctx) error {
	var dto SignUpDTO
	if err := app.ParseBody(ctx, &dto); err != nil {
		return err
	}

	params := usecase.SignUpParams{
		Name:     dto.Name,
		Email:    dto.Email,
		Password: dto.Password,
	}

	user, token, err := d.useCase.SignUp(ctx.UserContext(), params)
	if err != nil {
		return err
	}

	ctx.Set(app.TokenHeader, token)
	ctx.Set(fiber.HeaderAccessControlExposeHeaders, app.TokenHeader)

	return ctx.Status(fiber.StatusCreated).JSON(NewUserResponseDTO(user))
}

func (d *Delivery) signin(ctx *fiber.Ctx) error {
	var dto SignInDTO
	if err := app.ParseBody(ctx, &dto); err != nil {
		return err
	}

	params := usecase.SignInParams{
		Email:    dto.Email,
		Password: dto.Password,
	}

	token, err := d.useCase.SignIn(ctx.UserContext(), params)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).SendString(token)
}

func (d *Delivery) me(ctx *fiber.Ctx) error {
	principal, ok := app.PrincipalFrom(ctx.UserContext())
	if !ok {
		return pkgErrors.ErrUnauthorized
	}

	user, err := d.useCase.GetByID(ctx.UserContext(), principal.UserID)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(NewUserResponseDTO(user))
}

func (d *Delivery) list(ctx *fiber.Ctx) error {
	users, err := d.useCase.List(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(NewUserListResponseDTO(users))
}
