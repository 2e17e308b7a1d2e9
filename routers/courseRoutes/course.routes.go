package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all learner-facing routes
func SetupCourseRoutes(app *fiber.App) {
	// Course catalogue
	courseGroup := app.Group("/course")
	courseGroup.Get("/list", controllers.GetCourses)
	courseGroup.Get("/:id", validators.CourseID(), controllers.GetCourseDetail)

	// Enrollment and progress
	userGroup := app.Group("/user", middleware.JWTMiddleware)
	userGroup.Post("/enroll/:id", validators.EnrollCourse(), controllers.EnrollInCourse)
	userGroup.Get("/enrollments", controllers.GetEnrollments)
	userGroup.Get("/enrollments/:id", validators.CourseID(), controllers.GetEnrollment)
	userGroup.Post("/course/:id/module/:module_id/complete", validators.CompleteModule(), controllers.CompleteModule)
	userGroup.Get("/certificates", controllers.GetUserCertificates)
	userGroup.Get("/rewards", controllers.GetMyRewards)

	// Exams
	examGroup := app.Group("/exam", middleware.JWTMiddleware)
	examGroup.Post("/", middleware.RequireRole(models.RoleInstructor, models.RoleAdmin), validators.CreateExam(), controllers.CreateExam)
	examGroup.Get("/course/:course_id", validators.ExamCourseID(), controllers.ListCourseExams)
	examGroup.Get("/:id", validators.ExamID(), controllers.GetExam)
	examGroup.Post("/:id/submit", validators.SubmitExam(), controllers.SubmitExam)
	examGroup.Get("/:id/attempts", validators.ExamID(), controllers.GetExamAttempts)

	// Public certificate verification
	app.Get("/certificate/verify/:number", validators.CertificateNumber(), controllers.VerifyCertificate)

	// Gamification
	app.Get("/gamification/leaderboard", middleware.JWTMiddleware, controllers.GetLeaderboard)

	// Compliance reporting
	complianceGroup := app.Group("/compliance", middleware.JWTMiddleware)
	complianceGroup.Get("/summary", middleware.RequireRole(models.RoleManager, models.RoleAdmin), controllers.ComplianceSummary)
	complianceGroup.Get("/user/:user_id", validators.ComplianceUserID(), controllers.UserCompliance)
}
