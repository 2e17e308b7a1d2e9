// Package exam scores exam submissions and issues certificates for passing
// attempts.
//
// The attempt and its certificate are written atomically. Points, the
// result email and outbound events run afterwards as best-effort tasks: their
// failures are logged and never change the outcome of a submission.
package exam

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"lms/models"
	"lms/models/course"
	"lms/services/apperr"
)

// PassBonusPoints is awarded for every passing attempt.
const PassBonusPoints = 50

const certificateNumberAttempts = 3

// Outbound event names.
const (
	EventExamCompleted     = "exam.completed"
	EventCertificateIssued = "certificate.issued"
)

// Store is the persistence the pipeline needs.
type Store interface {
	FindExam(ctx context.Context, examID uint) (*course.Exam, error)
	FindUser(ctx context.Context, userID uint) (*models.User, error)
	// CreateAttempt inserts attempt and, when cert is non-nil, cert in one
	// transaction, linking the attempt to the certificate.
	CreateAttempt(ctx context.Context, attempt *course.ExamAttempt, cert *course.Certificate) error
}

type PointsAwarder interface {
	AwardPoints(ctx context.Context, userID uint, amount int, reason string) error
}

type ResultNotifier interface {
	SendExamResultEmail(ctx context.Context, email, name, examTitle string, percentage int, status string) error
}

type EventPublisher interface {
	Fire(ctx context.Context, event string, payload any) error
}

// Result is what a submission returns to the caller.
type Result struct {
	Attempt     course.ExamAttempt  `json:"attempt"`
	Certificate *course.Certificate `json:"certificate,omitempty"`
}

type Pipeline struct {
	store    Store
	points   PointsAwarder
	notifier ResultNotifier
	events   EventPublisher
	locker   Locker

	now               func() time.Time
	certificateNumber func() (string, error)

	wg sync.WaitGroup
}

type Option func(*Pipeline)

// WithEvents publishes exam.completed and certificate.issued events.
func WithEvents(p EventPublisher) Option {
	return func(pl *Pipeline) { pl.events = p }
}

// WithLocker replaces the in-process per (user, exam) lock.
func WithLocker(l Locker) Option {
	return func(pl *Pipeline) { pl.locker = l }
}

func WithClock(now func() time.Time) Option {
	return func(pl *Pipeline) { pl.now = now }
}

func WithCertificateNumbers(gen func() (string, error)) Option {
	return func(pl *Pipeline) { pl.certificateNumber = gen }
}

func NewPipeline(store Store, points PointsAwarder, notifier ResultNotifier, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:             store,
		points:            points,
		notifier:          notifier,
		locker:            NewKeyedMutex(),
		now:               time.Now,
		certificateNumber: NewCertificateNumber,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewCertificateNumber returns a human-readable certificate number with a
// cryptographically random suffix, e.g. CERT-3FA09C1B77D2.
func NewCertificateNumber() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "CERT-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

// Submit grades answers for examID on behalf of userID and records a new
// attempt. Every call creates a new attempt; retakes are legitimate.
func (p *Pipeline) Submit(ctx context.Context, examID, userID uint, answers []int) (*Result, error) {
	exam, err := p.store.FindExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	grade, err := GradeAnswers(exam.Questions, answers)
	if err != nil {
		return nil, fmt.Errorf("exam %d: %w", exam.ID, err)
	}
	status := Status(grade.Percentage, exam.PassingScore)

	unlock, err := p.locker.Lock(ctx, attemptLockKey(userID, exam.ID))
	if err != nil {
		log.Printf("[EXAM] Could not lock attempts for user %d exam %d, continuing unlocked: %v", userID, exam.ID, err)
		unlock = func() {}
	}
	res, err := p.persist(ctx, exam, userID, answers, grade, status)
	unlock()
	if err != nil {
		return nil, err
	}

	log.Printf("[EXAM] User %d scored %.2f%% on exam %d (%s), attempt %d", userID, grade.Percentage, exam.ID, status, res.Attempt.ID)

	p.dispatch(ctx, exam, userID, res)
	return res, nil
}

func (p *Pipeline) persist(ctx context.Context, exam *course.Exam, userID uint, answers []int, grade Grade, status string) (*Result, error) {
	for try := 1; ; try++ {
		completedAt := p.now()
		attempt := course.ExamAttempt{
			UserID:      userID,
			ExamID:      exam.ID,
			CourseID:    exam.CourseID,
			Answers:     append([]int(nil), answers...),
			Score:       grade.Score,
			TotalPoints: grade.TotalPoints,
			Percentage:  grade.Percentage,
			Status:      status,
			CompletedAt: completedAt,
		}

		var cert *course.Certificate
		if status == course.AttemptPassed {
			number, err := p.certificateNumber()
			if err != nil {
				return nil, fmt.Errorf("generate certificate number: %w", err)
			}
			cert = &course.Certificate{
				UserID:            userID,
				CourseID:          exam.CourseID,
				ExamID:            exam.ID,
				CertificateNumber: number,
				IssuedAt:          completedAt,
			}
		}

		err := p.store.CreateAttempt(ctx, &attempt, cert)
		if err == nil {
			return &Result{Attempt: attempt, Certificate: cert}, nil
		}
		// A certificate number collision rolls back the whole write; retry
		// with a fresh number.
		if cert == nil || !errors.Is(err, apperr.ErrConflict) || try >= certificateNumberAttempts {
			return nil, err
		}
		log.Printf("[EXAM] Certificate number %s collided, retrying", cert.CertificateNumber)
	}
}

// dispatch runs the best-effort side effects of a persisted attempt.
func (p *Pipeline) dispatch(ctx context.Context, exam *course.Exam, userID uint, res *Result) {
	ctx = context.WithoutCancel(ctx)
	attempt := res.Attempt

	if res.Certificate != nil {
		cert := *res.Certificate
		p.goSafe("award points", func() error {
			return p.points.AwardPoints(ctx, userID, PassBonusPoints, "Passed Exam: "+exam.Title)
		})
		p.publish(ctx, EventCertificateIssued, cert)
	}

	p.goSafe("result email", func() error {
		user, err := p.store.FindUser(ctx, userID)
		if err != nil {
			return err
		}
		if user.Email == "" {
			return nil
		}
		return p.notifier.SendExamResultEmail(ctx, user.Email, user.Name, exam.Title, int(math.Round(attempt.Percentage)), attempt.Status)
	})

	p.publish(ctx, EventExamCompleted, attempt)
}

func (p *Pipeline) publish(ctx context.Context, event string, payload any) {
	if p.events == nil {
		return
	}
	p.goSafe(event, func() error {
		return p.events.Fire(ctx, event, payload)
	})
}

// goSafe runs fn in the background. Errors and panics are logged only.
func (p *Pipeline) goSafe(name string, fn func() error) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[EXAM] %s panicked: %v", name, r)
			}
		}()
		if err := fn(); err != nil {
			log.Printf("[EXAM] %s failed: %v", name, err)
		}
	}()
}

// Drain blocks until every side effect started so far has finished.
func (p *Pipeline) Drain() {
	p.wg.Wait()
}
