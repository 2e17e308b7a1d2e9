package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"lms/models"
	"lms/models/course"
	"lms/services/enrollment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubSweeper struct {
	transitions []enrollment.Transition
	err         error
	at          time.Time
}

func (s *stubSweeper) RefreshCompliance(_ context.Context, now time.Time) ([]enrollment.Transition, error) {
	s.at = now
	return s.transitions, s.err
}

type stubUsers map[uint]*models.User

func (u stubUsers) FindUser(_ context.Context, id uint) (*models.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, errors.New("user not found")
}

type mockReminder struct{ mock.Mock }

func (m *mockReminder) SendComplianceReminderEmail(ctx context.Context, email, name, courseName, status string, expiresAt *time.Time) error {
	return m.Called(email, courseName, status).Error(0)
}

func transition(userID uint, to string) enrollment.Transition {
	return enrollment.Transition{
		Enrollment: course.Enrollment{UserID: userID, Course: &course.Course{Title: "AML"}},
		From:       course.ComplianceCompliant,
		To:         to,
	}
}

func TestComplianceJobRemindsOnLapse(t *testing.T) {
	now := time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC)
	sweeper := &stubSweeper{transitions: []enrollment.Transition{
		transition(1, course.ComplianceExpiringSoon),
		transition(2, course.ComplianceExpired),
		transition(3, course.ComplianceCompliant),
		transition(4, course.ComplianceExpired),
	}}
	users := stubUsers{
		1: {Email: "one@example.com"},
		2: {Email: "two@example.com"},
		3: {Email: "three@example.com"},
	}
	reminder := &mockReminder{}
	reminder.On("SendComplianceReminderEmail", "one@example.com", "AML", course.ComplianceExpiringSoon).Return(nil).Once()
	reminder.On("SendComplianceReminderEmail", "two@example.com", "AML", course.ComplianceExpired).Return(errors.New("bounced")).Once()

	job := &ComplianceJob{Sweeper: sweeper, Users: users, Reminder: reminder, Now: func() time.Time { return now }}
	transitions, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, transitions, 4)
	assert.True(t, now.Equal(sweeper.at))
	reminder.AssertExpectations(t)
}

func TestComplianceJobSweepError(t *testing.T) {
	job := &ComplianceJob{Sweeper: &stubSweeper{err: errors.New("db down")}, Users: stubUsers{}}
	_, err := job.Run(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestInitializeComplianceScheduler(t *testing.T) {
	job := &ComplianceJob{Sweeper: &stubSweeper{}, Users: stubUsers{}}

	c, err := InitializeComplianceScheduler("", job)
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = InitializeComplianceScheduler("not a cron spec", job)
	assert.Error(t, err)

	c, err = InitializeComplianceScheduler("0 2 * * *", job)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Len(t, c.Entries(), 1)
	c.Stop()
}
