package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	to      []string
	subject string
	body    string
}

func recordingMailer(out *[]sent, err error) *Mailer {
	return &Mailer{transport: func(_ context.Context, to []string, subject, htmlBody string) error {
		*out = append(*out, sent{to: to, subject: subject, body: htmlBody})
		return err
	}}
}

func TestSendExamResultEmail(t *testing.T) {
	var out []sent
	m := recordingMailer(&out, nil)

	require.NoError(t, m.SendExamResultEmail(context.Background(), "ada@example.com", "Ada", "Safety Final", 75, course.AttemptPassed))
	require.Len(t, out, 1)
	assert.Equal(t, []string{"ada@example.com"}, out[0].to)
	assert.Equal(t, "Exam Result: Safety Final", out[0].subject)
	assert.Contains(t, out[0].body, "75%")
	assert.Contains(t, out[0].body, "PASSED")
	assert.Contains(t, out[0].body, "Congratulations!")
}

func TestSendEmailReturnsTransportError(t *testing.T) {
	var out []sent
	m := recordingMailer(&out, errors.New("smtp down"))

	err := m.SendEnrollmentEmail(context.Background(), "ada@example.com", "Ada", "Safety")
	assert.EqualError(t, err, "smtp down")
}

func TestSendComplianceReminderEmail(t *testing.T) {
	var out []sent
	m := recordingMailer(&out, nil)
	expires := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, m.SendComplianceReminderEmail(context.Background(), "a@b.c", "A", "AML", course.ComplianceExpiringSoon, &expires))
	require.NoError(t, m.SendComplianceReminderEmail(context.Background(), "a@b.c", "A", "AML", course.ComplianceExpired, &expires))

	require.Len(t, out, 2)
	assert.Equal(t, "Recertification Due: AML", out[0].subject)
	assert.Contains(t, out[0].body, "March 1, 2025")
	assert.Equal(t, "Certification Expired: AML", out[1].subject)
}
