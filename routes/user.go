package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/ignite-call/controllers"
	"github.com/meinhoongagan/ignite-call/middleware"
)

// SetupUserRoutes configures registration, settings and the public booking endpoints
func SetupUserRoutes(app *fiber.App, secret string, rateLimitPerMinute int) {
	users := app.Group("/api/users")
	protected := middleware.Protected(secret)
	limited := middleware.RateLimit(rateLimitPerMinute)

	users.Post("/", limited, controllers.RegisterUser)

	// static segments are registered before /:username
	users.Get("/profile", protected, controllers.GetProfile)
	users.Put("/profile", protected, controllers.UpdateProfile)
	users.Put("/profile/avatar", protected, controllers.UpdateAvatar)
	users.Get("/time-intervals", protected, controllers.GetTimeIntervals)
	users.Post("/time-intervals", protected, controllers.CreateTimeIntervals)

	users.Get("/:username", controllers.GetPublicProfile)
	users.Get("/:username/blocked-dates", controllers.GetBlockedDates)
	users.Get("/:username/availability", controllers.GetAvailability)
	users.Post("/:username/schedule", limited, controllers.CreateScheduling)
}
