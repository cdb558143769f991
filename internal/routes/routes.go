package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/wastezero/wastezero/internal/config"
	"github.com/wastezero/wastezero/internal/forms"
	"github.com/wastezero/wastezero/internal/middleware"
	"github.com/wastezero/wastezero/internal/notification"
	"github.com/wastezero/wastezero/internal/profile"
	"github.com/wastezero/wastezero/internal/storage"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg     config.Config
	Storage storage.Storage
	Cache   *redis.Client
	Logger  *slog.Logger
	// Sleep overrides the simulated submit latency wait; nil means time.Sleep.
	Sleep func(time.Duration)
	// StoreOptions are passed to profile.NewStore.
	StoreOptions []profile.Option
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.Storage == nil {
		return fmt.Errorf("storage is required")
	}
	if d.Logger == nil {
		return fmt.Errorf("logger is required")
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if d.Cfg.IsDev() {
		// Plain text access log in the form: [HH:MM:SS] 200 -  145ms METHOD /path
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	store := profile.NewStore(d.Storage, d.Logger, d.StoreOptions...)
	formDeps := forms.Deps{
		Store:    store,
		Notifier: notification.NewLoggerNotifier(d.Logger),
		Logger:   d.Logger,
		Sleep:    d.Sleep,
	}
	formsHandler := forms.NewHandler(
		forms.NewLogin(formDeps, d.Cfg.LoginLatency),
		forms.NewRegister(formDeps, d.Cfg.RegisterLatency),
		forms.NewProfile(formDeps, 0),
		forms.NewPassword(formDeps, 0),
	)
	profileHandler := profile.NewHandler(store)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals(middleware.RequestIDHeader).(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterFormRoutes(api, formsHandler, middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit))
	RegisterProfileRoutes(api, profileHandler)

	return nil
}
