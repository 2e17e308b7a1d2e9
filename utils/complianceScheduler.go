package utils

import (
	"context"
	"log"
	"time"

	"lms/models"
	"lms/models/course"
	"lms/services/enrollment"

	"github.com/robfig/cron/v3"
)

type ComplianceSweeper interface {
	RefreshCompliance(ctx context.Context, now time.Time) ([]enrollment.Transition, error)
}

type UserFinder interface {
	FindUser(ctx context.Context, userID uint) (*models.User, error)
}

type ComplianceReminder interface {
	SendComplianceReminderEmail(ctx context.Context, email, name, courseName, complianceStatus string, expiresAt *time.Time) error
}

// ComplianceJob persists compliance transitions and reminds learners whose
// certification is lapsing.
type ComplianceJob struct {
	Sweeper  ComplianceSweeper
	Users    UserFinder
	Reminder ComplianceReminder
	Now      func() time.Time
}

// InitializeComplianceScheduler starts the sweep on the given cron spec. An
// empty spec disables it and returns a nil scheduler.
func InitializeComplianceScheduler(spec string, job *ComplianceJob) (*cron.Cron, error) {
	if spec == "" {
		log.Println("[COMPLIANCE-SCHEDULER] Disabled, COMPLIANCE_SWEEP_CRON is empty")
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		log.Println("[COMPLIANCE-SCHEDULER] Running compliance sweep...")
		if _, err := job.Run(context.Background()); err != nil {
			log.Printf("[COMPLIANCE-SCHEDULER] Sweep failed: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("[COMPLIANCE-SCHEDULER] Compliance scheduler started (%s)", spec)
	return c, nil
}

// Run sweeps once and returns the persisted transitions.
func (j *ComplianceJob) Run(ctx context.Context) ([]enrollment.Transition, error) {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}

	transitions, err := j.Sweeper.RefreshCompliance(ctx, now())
	if err != nil {
		return transitions, err
	}
	log.Printf("[COMPLIANCE-SCHEDULER] %d enrollments changed compliance status", len(transitions))

	for _, t := range transitions {
		if t.To != course.ComplianceExpiringSoon && t.To != course.ComplianceExpired {
			continue
		}
		j.remind(ctx, t)
	}
	return transitions, nil
}

func (j *ComplianceJob) remind(ctx context.Context, t enrollment.Transition) {
	e := t.Enrollment
	if j.Reminder == nil || e.Course == nil {
		return
	}

	user, err := j.Users.FindUser(ctx, e.UserID)
	if err != nil {
		log.Printf("[COMPLIANCE-SCHEDULER] Error fetching user %d: %v", e.UserID, err)
		return
	}

	if err := j.Reminder.SendComplianceReminderEmail(ctx, user.Email, user.Name, e.Course.Title, t.To, e.ExpiresAt); err != nil {
		log.Printf("[COMPLIANCE-SCHEDULER] Reminder for enrollment %d failed: %v", e.ID, err)
		return
	}
	log.Printf("[COMPLIANCE-SCHEDULER] Sent %s reminder for enrollment %d to %s", t.To, e.ID, user.Email)
}
