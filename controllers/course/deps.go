package controllers

import (
	"context"
	"errors"
	"log"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/services/apperr"
	"lms/services/enrollment"
	"lms/services/exam"
	"lms/services/gamification"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// EnrollmentMailer confirms new enrollments by email
type EnrollmentMailer interface {
	SendEnrollmentEmail(ctx context.Context, email, name, courseName string) error
}

// Deps are the services the course handlers run on
type Deps struct {
	DB           *gorm.DB
	Store        *database.Store
	Enrollments  *enrollment.Service
	Exams        *exam.Pipeline
	Gamification *gamification.Service
	Mailer       EnrollmentMailer
	Now          func() time.Time
}

var deps Deps

// Setup installs the services used by the handlers in this package
func Setup(d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	deps = d
}

// respondError maps a service error onto the JSON envelope
func respondError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, err.Error(), nil)
	case errors.Is(err, apperr.ErrInvariantViolation):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
	case errors.Is(err, apperr.ErrConflict):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, err.Error(), nil)
	case errors.Is(err, apperr.ErrPaymentRequired):
		return middleware.JsonResponse(c, fiber.StatusPaymentRequired, false, "This course requires payment!", nil)
	default:
		log.Printf("[HTTP] %s %s: %v", c.Method(), c.Path(), err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, fallback, nil)
	}
}

func currentUser(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userId").(uint)
	return userID, ok
}
