package delivery

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

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
	rentals := router.Group("/rentals", d.auth.Required())
	rentals.Post("/", d.start)
	rentals.Get("/me", d.listMine)
	rentals.Get("/", d.auth.AdminOnly(), d.list)
	rentals.Get("/:id", d.auth.AdminOnly(), d.get)
	rentals.Get("/:id/events", d.auth.AdminOnly(), d.events)

	router.Post("/returns", d.auth.Required(), d.giveBack)
}

func (d *Delivery) start(ctx *fiber.Ctx) error {
	principal, carID, err := d.parseRentalRequest(ctx)
	if err != nil {
		return err
	}

	rental, err := d.useCase.Start(ctx.UserContext(), principal.UserID, carID)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(rental)
}

func (d *Delivery) giveBack(ctx *fiber.Ctx) error {
	principal, carID, err := d.parseRentalRequest(ctx)
	if err != nil {
		return err
	}

	rental, err := d.useCase.Return(ctx.UserContext(), principal.UserID, carID)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(rental)
}

func (d *Delivery) list(ctx *fiber.Ctx) error {
	rentals, err := d.useCase.List(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(rentals)
}

func (d *Delivery) listMine(ctx *fiber.Ctx) error {
	principal, ok := app.PrincipalFrom(ctx.UserContext())
	if !ok {
		return pkgErrors.ErrUnauthorized
	}

	rentals, err := d.useCase.ListByUser(ctx.UserContext(), principal.UserID)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(rentals)
}

func (d *Delivery) get(ctx *fiber.Ctx) error {
	id, err := app.ParseID(ctx, "id")
	if err != nil {
		return err
	}

	rental, err := d.useCase.GetByID(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(rental)
}

func (d *Delivery) events(ctx *fiber.Ctx) error {
	id, err := app.ParseID(ctx, "id")
	if err != nil {
		return err
	}

	events, err := d.useCase.Events(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(events)
}

func (d *Delivery) parseRentalRequest(ctx *fiber.Ctx) (app.Principal, uuid.UUID, error) {
	principal, ok := app.PrincipalFrom(ctx.UserContext())
	if !ok {
		return app.Principal{}, uuid.Nil, pkgErrors.ErrUnauthorized
	}

	var dto RentalRequestDTO
	if err := app.ParseBody(ctx, &dto); err != nil {
		return app.Principal{}, uuid.Nil, err
	}

	carID, err := uuid.Parse(dto.CarID)
	if err != nil {
		return app.Principal{}, uuid.Nil, pkgErrors.ErrInvalidID
	}

	return principal, carID, nil
}
