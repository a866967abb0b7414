package middleware

import (
	"stride/backend/config"
	"stride/backend/utils"

	"github.com/gofiber/fiber/v2"
)

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _, err := utils.ExtractClaims(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

func AdminMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, role, err := utils.ExtractClaims(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if role != "admin" {
			return utils.Forbidden(c, "Admin access required")
		}
		return c.Next()
	}
}
