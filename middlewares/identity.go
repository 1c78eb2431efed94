package middlewares

import (
	"strconv"

	"bookie/database"
	"bookie/helpers"
	"bookie/models"

	"github.com/gofiber/fiber/v2"
)

// Identity resolves the caller set by the upstream identity provider. The
// X-User-Id header is trusted as-is; credentials are not re-validated here.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := c.Get("X-User-Id")
		if idStr == "" {
			return helpers.JSONStatus(c, fiber.StatusUnauthorized, "MISSING_IDENTITY")
		}

		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			return helpers.JSONStatus(c, fiber.StatusUnauthorized, "INVALID_IDENTITY")
		}

		var user models.User
		if err := database.DB.First(&user, uint(id)).Error; err != nil {
			return helpers.JSONStatus(c, fiber.StatusUnauthorized, "UNKNOWN_USER")
		}
		if user.IsBlocked {
			return helpers.JSONStatus(c, fiber.StatusForbidden, "USER_BLOCKED")
		}

		c.Locals("user", user)
		return c.Next()
	}
}

func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(models.User)
		if !ok || user.Role != models.RoleAdmin {
			return helpers.JSONStatus(c, fiber.StatusForbidden, "ADMIN_ONLY")
		}
		return c.Next()
	}
}
