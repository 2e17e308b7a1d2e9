package controllers

import (
	"context"
	"log"

	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

func EnrollInCourse(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	enrollment, err := deps.Enrollments.Enroll(c.UserContext(), userID, courseID)
	if err != nil {
		return respondError(c, err, "Failed to enroll in course!")
	}

	if deps.Mailer != nil {
		go sendEnrollmentEmail(userID, courseID)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", enrollment)
}

func sendEnrollmentEmail(userID, courseID uint) {
	ctx := context.Background()

	user, err := deps.Store.FindUser(ctx, userID)
	if err != nil {
		log.Printf("[ENROLLMENT] Enrollment email skipped for user %d: %v", userID, err)
		return
	}
	course, err := deps.Store.FindCourse(ctx, courseID)
	if err != nil {
		log.Printf("[ENROLLMENT] Enrollment email skipped for course %d: %v", courseID, err)
		return
	}

	if err := deps.Mailer.SendEnrollmentEmail(ctx, user.Email, user.Name, course.Title); err != nil {
		log.Printf("[ENROLLMENT] Enrollment email to %s failed: %v", user.Email, err)
	}
}

func GetEnrollments(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollments, err := deps.Enrollments.ListForUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err, "Failed to fetch enrollments!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}

func GetEnrollment(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)

	enrollment, err := deps.Enrollments.Get(c.UserContext(), userID, courseID)
	if err != nil {
		return respondError(c, err, "Failed to fetch enrollment!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment fetched successfully!", enrollment)
}

func CompleteModule(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	moduleID := c.Locals("moduleID").(uint)

	enrollment, err := deps.Enrollments.CompleteModule(c.UserContext(), userID, courseID, moduleID)
	if err != nil {
		return respondError(c, err, "Failed to update progress!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module marked as complete!", enrollment)
}

// AdminSetEnrollmentStatus lets staff complete, reopen or cancel an enrollment
func AdminSetEnrollmentStatus(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	reqData := c.Locals("validatedStatus").(*validators.SetStatusRequest)

	enrollment, err := deps.Enrollments.SetStatus(c.UserContext(), reqData.UserID, courseID, reqData.Status)
	if err != nil {
		return respondError(c, err, "Failed to update enrollment!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment updated successfully!", enrollment)
}
