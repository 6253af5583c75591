package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/ignite-call/controllers"
	"github.com/meinhoongagan/ignite-call/middleware"
)

// SetupAuthRoutes configures the Google sign in flow and the session endpoints
func SetupAuthRoutes(app *fiber.App, secret string) {
	auth := app.Group("/api/auth")

	auth.Get("/google", controllers.GoogleSignIn)
	auth.Get("/callback/google", controllers.GoogleCallback)
	auth.Post("/signout", controllers.SignOut)
	auth.Get("/session", middleware.Protected(secret), controllers.GetSession)
}
