package app

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	pkgErrors "github.com/SlavaShagalov/car-rental-rest/internal/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseBody decodes the JSON body into dto and checks its validate tags.
// Both failures are answered with 400 and the reason.
func ParseBody(ctx *fiber.Ctx, dto any) error {
	if err := ctx.BodyParser(dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, pkgErrors.ErrBadRequest.Error())
	}

	if err := validate.Struct(dto); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fiber.NewError(fiber.StatusBadRequest, fieldErrs[0].Error())
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return nil
}

// ParseID reads a uuid path parameter.
func ParseID(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, pkgErrors.ErrInvalidID
	}
	return id, nil
}
