package controllers

import (
	"errors"

	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CertificateView is a certificate with the titles it was issued for
type CertificateView struct {
	courseModels.Certificate
	CourseTitle string `json:"course_title"`
	ExamTitle   string `json:"exam_title"`
	UserName    string `json:"user_name,omitempty"`
}

func certificateQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&courseModels.Certificate{}).
		Select("certificates.*, courses.title AS course_title, exams.title AS exam_title, users.name AS user_name").
		Joins("LEFT JOIN courses ON courses.id = certificates.course_id").
		Joins("LEFT JOIN exams ON exams.id = certificates.exam_id").
		Joins("LEFT JOIN users ON users.id = certificates.user_id")
}

// GetUserCertificates lists the caller's certificates, newest first
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var certificates []CertificateView
	if err := certificateQuery(deps.DB.WithContext(c.UserContext())).
		Where("certificates.user_id = ?", userID).
		Order("certificates.issued_at desc, certificates.id desc").
		Scan(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certificates)
}

// VerifyCertificate looks a certificate up by its public number
func VerifyCertificate(c *fiber.Ctx) error {
	number := c.Locals("certificateNumber").(string)

	var certificate CertificateView
	err := certificateQuery(deps.DB.WithContext(c.UserContext())).
		Where("certificates.certificate_number = ?", number).
		Take(&certificate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid.", certificate)
}
