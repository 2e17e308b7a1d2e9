package controllers

import (
	"strconv"

	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/compliance"

	"github.com/gofiber/fiber/v2"
)

// ComplianceSummary tallies compliance across the organization's mandatory
// courses as of now
func ComplianceSummary(c *fiber.Ctx) error {
	orgID := middleware.OrganizationID(c)
	role, _ := c.Locals("role").(string)
	if role != models.RoleAdmin && orgID == nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Organization access required!", nil)
	}
	if role == models.RoleAdmin {
		if raw := c.Query("organization_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid organization_id!", nil)
			}
			org := uint(id)
			orgID = &org
		}
	}

	records, mandatoryCourses, err := deps.Store.MandatoryComplianceRecords(c.UserContext(), orgID)
	if err != nil {
		return respondError(c, err, "Failed to build compliance report!")
	}

	summary := compliance.Summarize(records, deps.Now())

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Compliance summary fetched successfully!", fiber.Map{
		"organization_id":   orgID,
		"mandatory_courses": mandatoryCourses,
		"total_enrollments": summary.Total(),
		"compliance_rate":   summary.Rate(),
		"summary":           summary,
	})
}

// UserCompliance lists a learner's compliance-relevant enrollments with
// their status recomputed as of now. Learners may only see their own.
func UserCompliance(c *fiber.Ctx) error {
	callerID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetID := c.Locals("targetUserID").(uint)
	role, _ := c.Locals("role").(string)
	if targetID != callerID {
		switch role {
		case models.RoleAdmin:
		case models.RoleManager:
			target, err := deps.Store.FindUser(c.UserContext(), targetID)
			if err != nil {
				return respondError(c, err, "Failed to fetch compliance status!")
			}
			if !sameOrganization(middleware.OrganizationID(c), target.OrganizationID) {
				return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
			}
		default:
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
		}
	}

	enrollments, err := deps.Store.UserComplianceEnrollments(c.UserContext(), targetID)
	if err != nil {
		return respondError(c, err, "Failed to fetch compliance status!")
	}

	now := deps.Now()
	current := make([]courseModels.Enrollment, 0, len(enrollments))
	for _, e := range enrollments {
		current = append(current, compliance.Current(e, e.Course, now))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Compliance status fetched successfully!", current)
}

// sameOrganization is true only when both sides belong to the same
// organization; a missing organization never matches.
func sameOrganization(a, b *uint) bool {
	return a != nil && b != nil && *a == *b
}
