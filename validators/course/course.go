package courseValidator

import (
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateCourseRequest is the admin payload for a new course
type CreateCourseRequest struct {
	Title               string  `json:"title" validate:"required,min=3,max=200"`
	Description         string  `json:"description" validate:"required,min=5"`
	Author              string  `json:"author" validate:"required,min=3,excludesall=<>{}"`
	Status              string  `json:"status" validate:"omitempty,oneof=DRAFT ACTIVE ARCHIVED"`
	Price               float64 `json:"price" validate:"gte=0"`
	IsMandatory         bool    `json:"is_mandatory"`
	RecertificationDays int     `json:"recertification_days" validate:"gte=0,lte=3650"`
	OrganizationID      *uint   `json:"organization_id"`
}

// CreateModuleRequest is the admin payload for a new module
type CreateModuleRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
}

// CreateCourseAdmin validates admin course creation request
func CreateCourseAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if ok, err := parseBody(c, reqData); !ok {
			return err
		}

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)
		reqData.Author = strings.TrimSpace(reqData.Author)

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// CreateModule validates module creation request
func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := paramID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(CreateModuleRequest)
		if ok, err := parseBody(c, reqData); !ok {
			return err
		}
		reqData.Title = strings.TrimSpace(reqData.Title)

		c.Locals("courseID", courseID)
		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

// CourseID validates the :id course parameter
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := paramID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}
