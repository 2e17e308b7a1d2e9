package courseValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// ComplianceUserID validates the :user_id parameter
func ComplianceUserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := paramID(c, "user_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
		}

		c.Locals("targetUserID", userID)
		return c.Next()
	}
}
