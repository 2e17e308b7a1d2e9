package courseValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetStatusRequest is a staff edit of a learner's enrollment status
type SetStatusRequest struct {
	UserID uint   `json:"user_id" validate:"required"`
	Status string `json:"status" validate:"required,oneof=active completed cancelled"`
}

// EnrollCourse validates the course to enroll in
func EnrollCourse() fiber.Handler {
	return CourseID()
}

// CompleteModule validates the course and module being completed
func CompleteModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := paramID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		moduleID, ok := paramID(c, "module_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Module ID!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("moduleID", moduleID)
		return c.Next()
	}
}

// SetEnrollmentStatus validates a staff status edit
func SetEnrollmentStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := paramID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(SetStatusRequest)
		if ok, err := parseBody(c, reqData); !ok {
			return err
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedStatus", reqData)
		return c.Next()
	}
}
