package courseValidator

import (
	"fmt"
	"regexp"
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

var certificateNumberPattern = regexp.MustCompile(`^CERT-[A-Z0-9]{4,32}$`)

// QuestionRequest is one question of a new exam
type QuestionRequest struct {
	QuestionText  string   `json:"question_text" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswer int      `json:"correct_answer" validate:"gte=0"`
	Type          string   `json:"type" validate:"omitempty,oneof=multiple-choice true-false"`
	Points        int      `json:"points" validate:"omitempty,gte=1"`
}

// CreateExamRequest is the payload for a new exam
type CreateExamRequest struct {
	CourseID     uint              `json:"course_id" validate:"required"`
	Title        string            `json:"title" validate:"required,min=3"`
	Description  string            `json:"description"`
	TimeLimit    int               `json:"time_limit" validate:"gte=0"`
	PassingScore float64           `json:"passing_score" validate:"omitempty,gt=0,lte=100"`
	Questions    []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// SubmitExamRequest carries one answer index per question, in question order
type SubmitExamRequest struct {
	Answers []int `json:"answers" validate:"required"`
}

// CreateExam validates exam creation request
func CreateExam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateExamRequest)
		if ok, err := parseBody(c, reqData); !ok {
			return err
		}

		errors := make(map[string]string)
		for i, q := range reqData.Questions {
			if q.CorrectAnswer >= len(q.Options) {
				errors[fmt.Sprintf("questions[%d].correct_answer", i)] = "correct_answer must index one of the options!"
			}
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)
		c.Locals("validatedExam", reqData)
		return c.Next()
	}
}

// ExamID validates the :id exam parameter
func ExamID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		examID, ok := paramID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Exam ID!", nil)
		}

		c.Locals("examID", examID)
		return c.Next()
	}
}

// ExamCourseID validates the :course_id parameter of exam listings
func ExamCourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := paramID(c, "course_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// SubmitExam validates an exam submission
func SubmitExam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		examID, ok := paramID(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Exam ID!", nil)
		}

		reqData := new(SubmitExamRequest)
		if ok, err := parseBody(c, reqData); !ok {
			return err
		}

		c.Locals("examID", examID)
		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

// CertificateNumber validates the :number parameter
func CertificateNumber() fiber.Handler {
	return func(c *fiber.Ctx) error {
		number := strings.ToUpper(strings.TrimSpace(c.Params("number")))
		if !certificateNumberPattern.MatchString(number) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid certificate number!", nil)
		}

		c.Locals("certificateNumber", number)
		return c.Next()
	}
}
