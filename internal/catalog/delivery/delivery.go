package delivery

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/SlavaShagalov/car-rental-rest/internal/catalog/usecase"
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
	admin := []fiber.Handler{d.auth.Required(), d.auth.AdminOnly()}

	brands := router.Group("/brands")
	brands.Get("/", d.listBrands)
	brands.Get("/:id", d.getBrand)
	brands.Post("/", append(admin, d.createBrand)...)
	brands.Put("/:id", append(admin, d.updateBrand)...)
	brands.Delete("/:id", append(admin, d.deleteBrand)...)

	types := router.Group("/types")
	types.Get("/", d.listTypes)
	types.Get("/:id", d.getType)
	types.Post("/", append(admin, d.createType)...)
	types.Put("/:id", append(admin, d.updateType)...)
	types.Delete("/:id", append(admin, d.deleteType)...)

	cars := router.Group("/cars")
	cars.Get("/", d.listCars)
	cars.Get("/:id", d.getCar)
	cars.Post("/", append(admin, d.createCar)...)
	cars.Put("/:id", append(admin, d.updateCar)...)
	cars.Delete("/:id", append(admin, d.deleteCar)...)
}

func (d *Delivery) listBrands(ctx *fiber.Ctx) error {
	brands, err := d.useCase.ListBrands(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(brands)
}

func (d *Delivery) getBrand(ctx *fiber.Ctx) error {
	id, err := app.ParseID(ctx, "id")
	if err != nil {
		return err
	}

	brand, err := d.useCase.GetBrand(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(brand)
}

func (d *Delivery) createBrand(ctx *fiber.Ctx) error {
	var dto NameDTO
	if err := app.ParseBody(ctx, &dto); err != nil {
		return err
	}

	brand, err := d.useCase.CreateBrand(ctx.UserContext(), dto.Name)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(brand)
}

func (d *Delivery) updateBrand(ctx *fiber.Ctx) error {
	id, err := app.ParseID(ctx, "id")
	if err != nil {
		return err
	}

	var dto NameDTO
	if err = app.ParseBody(ctx, &dto); err != nil {
		return err
	}

	brand, err := d.useCase.UpdateBrand(ctx.UserContext(), id, dto.Name)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(brand)
}

func (d *Delivery) deleteBrand(ctx *fiber.Ctx) error {
	id, err := app.ParseID(ctx, "id")
	if err != nil {
		return err
	}

	brand, err := d.useCase.DeleteBrand(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(brand)
}

func (d *Delivery) listTypes(ctx *fiber.Ctx) error {
	types, err := d.useCase.ListTypes(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(types)
}

func (d *Delivery) getType(ctx *fiber.Ctx) error {
	id, err := app.ParseID(ctx, "id")
	if err != nil {
		return err
	}

	carType, err := d.useCase.GetType(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(carType)
}

func (d *Delivery) createType(ctx *fiber.Ctx) error {
	var dto NameDTO
	if err := app.ParseBody(ctx, &dto); err != nil {
		return err
	}

	carType, err := d.useCase.CreateType(ctx.UserContext(), dto.Name)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(carType)
}

func (d *Delivery) updateType(ctx *fiber.Ctx) error {
	id, err := app.ParseID(ctx, "id")
	if err != nil {
		return err
	}

	var dto NameDTO
	if err = app.ParseBody(ctx, &dto); err != nil {
		return err
	}

	carType, err := d.useCase.UpdateType(ctx.UserContext(), id, dto.Name)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(carType)
}

func (d *Delivery) deleteType(ctx *fiber.Ctx) error {
	id, err := app.ParseID(ctx, "id")
	if err != nil {
		return err
	}

	carType, err := d.useCase.DeleteType(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(carType)
}

func (d *Delivery) listCars(ctx *fiber.Ctx) error {
	filter, err := parseCarFilter(ctx)
	if err != nil {
		return err
	}

	cars, err := d.useCase.ListCars(ctx.UserContext(), filter)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(cars)
}

func (d *Delivery) getCar(ctx *fiber.Ctx) error {
	id, err := app.ParseID(ctx, "id")
	if err != nil {
		return err
	}

	car, err := d.useCase.GetCar(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(car)
}

func (d *Delivery) createCar(ctx *fiber.Ctx) error {
	var dto CarDTO
	if err := app.ParseBody(ctx, &dto); err != nil {
		return err
	}

	car, err := d.useCase.CreateCar(ctx.UserContext(), dto.Params())
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(car)
}

func (d *Delivery) updateCar(ctx *fiber.Ctx) error {
	id, err := app.ParseID(ctx, "id")
	if err != nil {
		return err
	}

	var dto CarDTO
	if err = app.ParseBody(ctx, &dto); err != nil {
		return err
	}

	car, err := d.useCase.UpdateCar(ctx.UserContext(), id, dto.Params())
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(car)
}

func (d *Delivery) deleteCar(ctx *fiber.Ctx) error {
	id, err := app.ParseID(ctx, "id")
	if err != nil {
		return err
	}

	car, err := d.useCase.DeleteCar(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusOK).JSON(car)
}

func parseCarFilter(ctx *fiber.Ctx) (usecase.CarFilter, error) {
	var filter usecase.CarFilter

	for param, dst := range map[string]**uuid.UUID{"brandId": &filter.BrandID, "typeId": &filter.TypeID} {
		raw := ctx.Query(param)
		if raw == "" {
			continue
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			return usecase.CarFilter{}, pkgErrors.ErrInvalidID
		}
		*dst = &id
	}

	filter.InStock = ctx.QueryBool("inStock", false)

	return filter, nil
}
