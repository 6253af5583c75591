package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"

	"github.com/meinhoongagan/ignite-call/logger"
	"github.com/meinhoongagan/ignite-call/utils"
)

// Protected requires a valid session cookie and stores the user id in
// c.Locals("userID").
func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    []byte(secret),
		SigningMethod: jwtware.HS256,
		TokenLookup:   "cookie:" + utils.SessionCookie,
		Claims:        &utils.SessionClaims{},
		ErrorHandler:  jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return utils.ErrUnauthorized
			}
			claims, ok := token.Claims.(*utils.SessionClaims)
			if !ok || claims.UserID == "" {
				return utils.ErrUnauthorized
			}

			c.Locals("userID", claims.UserID)
			c.Locals("username", claims.Username)
			return c.Next()
		},
	})
}

// UserID returns the id stored by Protected.
func UserID(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals("userID").(string)
	return id, ok && id != ""
}

func jwtError(c *fiber.Ctx, err error) error {
	logger.Log.Debug().Err(err).Str("path", c.Path()).Msg("session rejected")
	return utils.JSONError(c, fiber.StatusUnauthorized, "Unauthorized")
}
