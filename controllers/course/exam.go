package controllers

import (
	"errors"
	"log"

	"lms/middleware"
	courseModels "lms/models/course"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const defaultPassingScore = 70

// CreateExam creates an exam with its ordered questions
func CreateExam(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedExam").(*validators.CreateExamRequest)

	if _, err := deps.Store.FindCourse(c.UserContext(), reqData.CourseID); err != nil {
		return respondError(c, err, "Failed to create exam!")
	}

	exam := courseModels.Exam{
		CourseID:     reqData.CourseID,
		Title:        reqData.Title,
		Description:  reqData.Description,
		TimeLimit:    reqData.TimeLimit,
		PassingScore: reqData.PassingScore,
		CreatedBy:    userID,
	}
	if exam.PassingScore == 0 {
		exam.PassingScore = defaultPassingScore
	}

	for i, q := range reqData.Questions {
		question := courseModels.ExamQuestion{
			QuestionText:  q.QuestionText,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Type:          q.Type,
			Points:        q.Points,
			OrderIndex:    i,
		}
		if question.Type == "" {
			question.Type = courseModels.QuestionMultipleChoice
		}
		if question.Points == 0 {
			question.Points = 1
		}
		exam.Questions = append(exam.Questions, question)
	}

	if err := deps.DB.WithContext(c.UserContext()).Create(&exam).Error; err != nil {
		log.Printf("[EXAM] Error creating exam: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create exam!", nil)
	}

	log.Printf("[EXAM] User %d created exam %d for course %d", userID, exam.ID, exam.CourseID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Exam created successfully!", exam)
}

// ListCourseExams lists the exams of a course without their questions
func ListCourseExams(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	var exams []courseModels.Exam
	if err := deps.DB.WithContext(c.UserContext()).
		Where("course_id = ?", courseID).
		Order("created_at asc").
		Find(&exams).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch exams!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exams fetched successfully!", exams)
}

// GetExam returns an exam with its questions. Correct answers never leave
// the server.
func GetExam(c *fiber.Ctx) error {
	examID := c.Locals("examID").(uint)

	exam, err := deps.Store.FindExam(c.UserContext(), examID)
	if err != nil {
		return respondError(c, err, "Failed to fetch exam!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam fetched successfully!", exam)
}

// SubmitExam grades a submission and records the attempt
func SubmitExam(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	examID := c.Locals("examID").(uint)
	reqData := c.Locals("validatedSubmission").(*validators.SubmitExamRequest)

	result, err := deps.Exams.Submit(c.UserContext(), examID, userID, reqData.Answers)
	if err != nil {
		return respondError(c, err, "Failed to submit exam!")
	}

	message := "Exam submitted. You did not pass this time."
	if result.Attempt.Status == courseModels.AttemptPassed {
		message = "Congratulations! You passed the exam."
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, message, result)
}

// GetExamAttempts lists the caller's attempts at an exam, newest first
func GetExamAttempts(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	examID := c.Locals("examID").(uint)

	var exam courseModels.Exam
	if err := deps.DB.WithContext(c.UserContext()).Select("id").First(&exam, examID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Exam not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	var attempts []courseModels.ExamAttempt
	if err := deps.DB.WithContext(c.UserContext()).
		Where("user_id = ? AND exam_id = ?", userID, examID).
		Order("completed_at desc, id desc").
		Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", attempts)
}
