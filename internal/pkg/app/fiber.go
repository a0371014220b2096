package app

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	slogfiber "github.com/samber/slog-fiber"

	pkgErrors "github.com/SlavaShagalov/car-rental-rest/internal/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Delivery interface {
	HealthChecker

	AddHandlers(router fiber.Router)
}

type FiberApp struct {
	app    *fiber.App
	config WebConfig
}

const apiPrefix = "/api"

func NewFiberApp(config WebConfig, deliveries []Delivery, logger *slog.Logger) *FiberApp {
	app := fiber.New(fiber.Config{
		AppName:               "car-rental",
		DisableStartupMessage: true,
		ReadTimeout:           time.Duration(config.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:          time.Duration(config.WriteTimeoutSeconds) * time.Second,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          NewErrorHandler(logger),
	})

	app.Use(slogfiber.New(logger))

	app.Get("/manage/health", func(ctx *fiber.Ctx) error {
		for _, delivery := range deliveries {
			if err := delivery.HealthCheck(ctx.UserContext()); err != nil {
				logger.Error("health check failed", slog.String("error", err.Error()))
				return ctx.SendStatus(fiber.StatusServiceUnavailable)
			}
		}
		return ctx.SendStatus(fiber.StatusOK)
	})

	api := app.Group(apiPrefix)
	for _, delivery := range deliveries {
		delivery.AddHandlers(api)
	}

	return &FiberApp{
		app:    app,
		config: config,
	}
}

func (a *FiberApp) Start() error {
	return a.app.Listen(net.JoinHostPort(a.config.Host, a.config.Port))
}

func (a *FiberApp) Shutdown(ctx context.Context) error {
	return a.app.ShutdownWithContext(ctx)
}

// Fiber exposes the underlying app, used by tests through fiber.App.Test.
func (a *FiberApp) Fiber() *fiber.App {
	return a.app
}

// NewErrorHandler renders errors as {"message": ...}. Server faults are
// logged and answered with a generic message.
func NewErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
		}

		status, message := pkgErrors.Resolve(err)
		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				slog.String("method", ctx.Method()),
				slog.String("path", ctx.Path()),
				slog.String("error", err.Error()),
			)
		}

		return ctx.Status(status).JSON(fiber.Map{"message": message})
	}
}
