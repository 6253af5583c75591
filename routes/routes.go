package routes

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meinhoongagan/ignite-call/config"
	"github.com/meinhoongagan/ignite-call/controllers"
	"github.com/meinhoongagan/ignite-call/logger"
	"github.com/meinhoongagan/ignite-call/metrics"
	"github.com/meinhoongagan/ignite-call/utils"
)

// NewApp builds the fiber app with every middleware and route mounted.
func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "ignite-call",
		ErrorHandler: utils.ErrorHandler,
	})

	origins := cfg.CORSOrigins
	app.Use(requestid.New())
	app.Use(metrics.Middleware())
	app.Use(logger.Middleware())
	// inside the logger so a recovered panic is logged and counted as a 500
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		// browsers refuse credentials with a wildcard origin
		AllowCredentials: origins != "*" && !strings.Contains(origins, "*"),
	}))

	app.Get("/healthz", controllers.Healthz)
	app.Get("/readyz", controllers.Readyz)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	SetupAuthRoutes(app, cfg.JWTSecret)
	SetupUserRoutes(app, cfg.JWTSecret, cfg.RateLimitPerMinute)

	return app
}
