// Package enrollment manages a learner's enrollment lifecycle: joining a
// course, completing modules, staff status edits, and the compliance fields
// that follow from them.
package enrollment

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"lms/models/course"
	"lms/services/apperr"
	"lms/services/compliance"
)

type Store interface {
	// FindCourse returns the course with its modules.
	FindCourse(ctx context.Context, courseID uint) (*course.Course, error)
	FindEnrollment(ctx context.Context, userID, courseID uint) (*course.Enrollment, error)
	// ListEnrollments returns the user's enrollments with Course loaded.
	ListEnrollments(ctx context.Context, userID uint) ([]course.Enrollment, error)
	// CreateEnrollment fails with apperr.ErrConflict on a duplicate (user, course).
	CreateEnrollment(ctx context.Context, e *course.Enrollment) error
	// SaveEnrollment writes progress, status, completion and compliance
	// fields in a single statement.
	SaveEnrollment(ctx context.Context, e *course.Enrollment) error
	// EachCompletedEnrollment calls fn for every completed enrollment with
	// Course loaded.
	EachCompletedEnrollment(ctx context.Context, fn func(e *course.Enrollment) error) error
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// Enroll creates an active enrollment in a free, active course.
func (s *Service) Enroll(ctx context.Context, userID, courseID uint) (*course.Enrollment, error) {
	c, err := s.store.FindCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c.Status != course.CourseActive {
		return nil, apperr.NotFound("active course")
	}
	if c.Price > 0 {
		return nil, fmt.Errorf("course %d costs %.2f: %w", c.ID, c.Price, apperr.ErrPaymentRequired)
	}

	e := &course.Enrollment{
		UserID:           userID,
		CourseID:         courseID,
		Status:           course.EnrollmentActive,
		ComplianceStatus: course.ComplianceNotStarted,
		CompletedModules: []uint{},
		EnrolledAt:       s.now(),
	}
	if err := s.store.CreateEnrollment(ctx, e); err != nil {
		return nil, err
	}

	log.Printf("[ENROLLMENT] User %d enrolled in course %d", userID, courseID)
	return e, nil
}

// CompleteModule records moduleID as done. Completing an already recorded
// module is a no-op. Progress never decreases; reaching 100 completes the
// enrollment and recomputes its compliance.
func (s *Service) CompleteModule(ctx context.Context, userID, courseID, moduleID uint) (*course.Enrollment, error) {
	e, err := s.store.FindEnrollment(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if e.Status == course.EnrollmentCancelled {
		return nil, apperr.Conflict("enrollment %d is cancelled", e.ID)
	}

	c, err := s.store.FindCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !c.HasModule(moduleID) {
		return nil, apperr.NotFound("module")
	}

	if e.HasCompletedModule(moduleID) {
		return e, nil
	}
	e.CompletedModules = append(e.CompletedModules, moduleID)

	// Modules removed from the course since they were completed no longer count.
	done := 0
	for _, id := range e.CompletedModules {
		if c.HasModule(id) {
			done++
		}
	}
	progress := int(math.Round(float64(done) / float64(len(c.Modules)) * 100))
	if progress > 100 {
		progress = 100
	}
	if progress > e.Progress {
		e.Progress = progress
	}

	now := s.now()
	if e.Progress == 100 {
		markCompleted(e, now)
	}
	if err := compliance.Apply(e, c, now); err != nil {
		return nil, err
	}

	if err := s.store.SaveEnrollment(ctx, e); err != nil {
		return nil, err
	}

	if e.Status == course.EnrollmentCompleted {
		log.Printf("[ENROLLMENT] User %d completed course %d, compliance %s", userID, courseID, e.ComplianceStatus)
	}
	return e, nil
}

// SetStatus applies a staff status edit and recomputes compliance.
func (s *Service) SetStatus(ctx context.Context, userID, courseID uint, status string) (*course.Enrollment, error) {
	switch status {
	case course.EnrollmentActive, course.EnrollmentCompleted, course.EnrollmentCancelled:
	default:
		return nil, apperr.Invariant("unknown enrollment status %q", status)
	}

	e, err := s.store.FindEnrollment(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	c, err := s.store.FindCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if status == course.EnrollmentCompleted {
		e.Progress = 100
		markCompleted(e, now)
	} else {
		e.Status = status
	}
	if err := compliance.Apply(e, c, now); err != nil {
		return nil, err
	}

	if err := s.store.SaveEnrollment(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Get returns the enrollment with compliance recomputed for the current time.
func (s *Service) Get(ctx context.Context, userID, courseID uint) (*course.Enrollment, error) {
	e, err := s.store.FindEnrollment(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	c, err := s.store.FindCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	current := compliance.Current(*e, c, s.now())
	return &current, nil
}

// ListForUser returns every enrollment of the user with compliance
// recomputed for the current time.
func (s *Service) ListForUser(ctx context.Context, userID uint) ([]course.Enrollment, error) {
	enrollments, err := s.store.ListEnrollments(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range enrollments {
		if enrollments[i].Course == nil {
			continue
		}
		enrollments[i] = compliance.Current(enrollments[i], enrollments[i].Course, now)
	}
	return enrollments, nil
}

// Transition is a persisted compliance change found by RefreshCompliance.
type Transition struct {
	Enrollment course.Enrollment
	From       string
	To         string
}

// RefreshCompliance recomputes every completed enrollment at now and
// persists the ones whose status moved. Enrollments that break the
// completion invariant are logged and skipped.
func (s *Service) RefreshCompliance(ctx context.Context, now time.Time) ([]Transition, error) {
	var transitions []Transition

	err := s.store.EachCompletedEnrollment(ctx, func(e *course.Enrollment) error {
		if e.Course == nil {
			return nil
		}
		from := e.ComplianceStatus
		if err := compliance.Apply(e, e.Course, now); err != nil {
			log.Printf("[ENROLLMENT] Skipping enrollment %d: %v", e.ID, err)
			return nil
		}
		if e.ComplianceStatus == from {
			return nil
		}
		if err := s.store.SaveEnrollment(ctx, e); err != nil {
			return err
		}
		transitions = append(transitions, Transition{Enrollment: *e, From: from, To: e.ComplianceStatus})
		return nil
	})
	return transitions, err
}

// markCompleted sets the completed status. completedAt is only ever set once.
func markCompleted(e *course.Enrollment, now time.Time) {
	e.Status = course.EnrollmentCompleted
	if e.CompletedAt == nil {
		e.CompletedAt = &now
	}
}
