// Package compliance derives an enrollment's compliance status from its
// completion state and the course's recertification policy.
//
// Everything here is a pure function of its arguments. The current instant
// is always passed in, never read from the clock.
package compliance

import (
	"time"

	"lms/models/course"
	"lms/services/apperr"
)

// ExpiringSoonDays is the fixed window before expiry in which a completion
// is reported as expiring soon. It is a platform policy, not a course setting.
const ExpiringSoonDays = 30

// Result is the derived compliance state of one enrollment.
type Result struct {
	Status    string
	ExpiresAt *time.Time
}

// ComputeStatus derives the compliance status of e under c's policy at now.
//
// Enrollments that are not completed keep their recorded status (or
// not_started when none is recorded). A completed enrollment in a course
// without recertification is compliant forever. Otherwise the completion
// expires recertificationDays calendar days after completedAt: an instant at
// or after the expiry is expired, an instant strictly inside the last
// ExpiringSoonDays days is expiring_soon.
func ComputeStatus(e *course.Enrollment, c *course.Course, now time.Time) (Result, error) {
	if e.Status != course.EnrollmentCompleted {
		status := e.ComplianceStatus
		if status == "" {
			status = course.ComplianceNotStarted
		}
		return Result{Status: status}, nil
	}

	if e.CompletedAt == nil {
		return Result{}, apperr.Invariant("enrollment %d is completed but has no completion date", e.ID)
	}

	if c == nil {
		return Result{}, apperr.Invariant("enrollment %d has no course", e.ID)
	}

	if c.RecertificationDays <= 0 {
		return Result{Status: course.ComplianceCompliant}, nil
	}

	expiresAt := e.CompletedAt.AddDate(0, 0, c.RecertificationDays)
	switch {
	case !now.Before(expiresAt):
		return Result{Status: course.ComplianceExpired, ExpiresAt: &expiresAt}, nil
	case now.After(expiresAt.AddDate(0, 0, -ExpiringSoonDays)):
		return Result{Status: course.ComplianceExpiringSoon, ExpiresAt: &expiresAt}, nil
	default:
		return Result{Status: course.ComplianceCompliant, ExpiresAt: &expiresAt}, nil
	}
}

// Apply recomputes the compliance fields of e in place. ExpiresAt is only
// kept when the course requires recertification.
func Apply(e *course.Enrollment, c *course.Course, now time.Time) error {
	res, err := ComputeStatus(e, c, now)
	if err != nil {
		return err
	}

	e.ComplianceStatus = res.Status
	if e.Status == course.EnrollmentCompleted {
		e.ExpiresAt = res.ExpiresAt
	}
	return nil
}

// Current returns a copy of e with its compliance fields recomputed at now.
// Read paths use it so a stored status never goes stale past its expiry.
// An enrollment that violates the completion invariant is returned as stored.
func Current(e course.Enrollment, c *course.Course, now time.Time) course.Enrollment {
	_ = Apply(&e, c, now)
	return e
}
