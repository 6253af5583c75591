package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/ignite-call/db"
	"github.com/meinhoongagan/ignite-call/redis"
)

func Healthz(c *fiber.Ctx) error {
	return c.SendString("ok")
}

// Readyz checks the database and, when configured, redis.
func Readyz(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), time.Second)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("db not ready")
	}
	if err := redis.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("redis not ready")
	}
	return c.SendString("ready")
}
