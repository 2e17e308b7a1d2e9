package controllers

import (
	"log"

	"lms/middleware"
	courseModels "lms/models/course"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateCourse creates a course
func AdminCreateCourse(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourse").(*validators.CreateCourseRequest)

	course := courseModels.Course{
		Title:               reqData.Title,
		Description:         reqData.Description,
		Author:              reqData.Author,
		Status:              reqData.Status,
		Price:               reqData.Price,
		IsMandatory:         reqData.IsMandatory,
		RecertificationDays: reqData.RecertificationDays,
		OrganizationID:      reqData.OrganizationID,
	}
	if course.Status == "" {
		course.Status = courseModels.CourseDraft
	}
	course.IsPublished = course.Status == courseModels.CourseActive

	if err := deps.DB.WithContext(c.UserContext()).Create(&course).Error; err != nil {
		log.Printf("[COURSE] Error creating course: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// AdminCreateModule adds a module to a course
func AdminCreateModule(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	reqData := c.Locals("validatedModule").(*validators.CreateModuleRequest)

	if _, err := deps.Store.FindCourse(c.UserContext(), courseID); err != nil {
		return respondError(c, err, "Failed to create module!")
	}

	module := courseModels.Module{
		CourseID:    courseID,
		Title:       reqData.Title,
		Description: reqData.Description,
		OrderIndex:  reqData.OrderIndex,
	}
	if err := deps.DB.WithContext(c.UserContext()).Create(&module).Error; err != nil {
		log.Printf("[COURSE] Error creating module: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// GetCourses lists active courses
func GetCourses(c *fiber.Ctx) error {
	var courses []courseModels.Course
	if err := deps.DB.WithContext(c.UserContext()).
		Where("status = ? AND is_deleted = ?", courseModels.CourseActive, false).
		Order("created_at desc").
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// GetCourseDetail returns a course with its modules
func GetCourseDetail(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	course, err := deps.Store.FindCourse(c.UserContext(), courseID)
	if err != nil {
		return respondError(c, err, "Failed to fetch course!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", course)
}
