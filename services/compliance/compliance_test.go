package compliance

import (
	"testing"
	"time"

	"lms/models/course"
	"lms/services/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2025, time.January, 10, 9, 30, 0, 0, time.UTC)

func completed(at time.Time) *course.Enrollment {
	return &course.Enrollment{
		Status:           course.EnrollmentCompleted,
		ComplianceStatus: course.ComplianceNotStarted,
		Progress:         100,
		CompletedAt:      &at,
	}
}

func TestComputeStatus_NotCompleted(t *testing.T) {
	c := &course.Course{RecertificationDays: 90}

	for _, status := range []string{course.EnrollmentActive, course.EnrollmentCancelled} {
		res, err := ComputeStatus(&course.Enrollment{Status: status}, c, day0)
		require.NoError(t, err)
		assert.Equal(t, course.ComplianceNotStarted, res.Status, status)
		assert.Nil(t, res.ExpiresAt)
	}
}

func TestComputeStatus_NotCompletedKeepsRecordedStatus(t *testing.T) {
	e := &course.Enrollment{Status: course.EnrollmentActive, ComplianceStatus: course.ComplianceExpired}

	res, err := ComputeStatus(e, &course.Course{RecertificationDays: 90}, day0)
	require.NoError(t, err)
	assert.Equal(t, course.ComplianceExpired, res.Status)
}

func TestComputeStatus_NoRecertificationIsPermanent(t *testing.T) {
	e := completed(day0)
	c := &course.Course{RecertificationDays: 0}

	for _, now := range []time.Time{day0, day0.AddDate(0, 0, 31), day0.AddDate(12, 0, 0)} {
		res, err := ComputeStatus(e, c, now)
		require.NoError(t, err)
		assert.Equal(t, course.ComplianceCompliant, res.Status)
		assert.Nil(t, res.ExpiresAt)
	}
}

func TestComputeStatus_NegativeRecertificationTreatedAsNone(t *testing.T) {
	res, err := ComputeStatus(completed(day0), &course.Course{RecertificationDays: -5}, day0.AddDate(3, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, course.ComplianceCompliant, res.Status)
}

func TestComputeStatus_RecertificationWindow(t *testing.T) {
	e := completed(day0)
	c := &course.Course{RecertificationDays: 90}
	expiry := day0.AddDate(0, 0, 90)

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"completion instant", day0, course.ComplianceCompliant},
		{"day 30", day0.AddDate(0, 0, 30), course.ComplianceCompliant},
		{"exactly day 60", day0.AddDate(0, 0, 60), course.ComplianceCompliant},
		{"just after day 60", day0.AddDate(0, 0, 60).Add(time.Nanosecond), course.ComplianceExpiringSoon},
		{"day 75", day0.AddDate(0, 0, 75), course.ComplianceExpiringSoon},
		{"just before expiry", expiry.Add(-time.Nanosecond), course.ComplianceExpiringSoon},
		{"exactly at expiry", expiry, course.ComplianceExpired},
		{"day 91", day0.AddDate(0, 0, 91), course.ComplianceExpired},
		{"years later", day0.AddDate(5, 0, 0), course.ComplianceExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ComputeStatus(e, c, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Status)
			require.NotNil(t, res.ExpiresAt)
			assert.True(t, res.ExpiresAt.Equal(expiry))
		})
	}
}

func TestComputeStatus_CalendarDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	completedAt := time.Date(2025, time.March, 1, 9, 0, 0, 0, loc)

	res, err := ComputeStatus(completed(completedAt), &course.Course{RecertificationDays: 30}, completedAt)
	require.NoError(t, err)
	require.NotNil(t, res.ExpiresAt)
	// The DST switch shortens the span by an hour, the wall clock stays put.
	assert.True(t, time.Date(2025, time.March, 31, 9, 0, 0, 0, loc).Equal(*res.ExpiresAt))
}

func TestComputeStatus_CompletedWithoutDateFails(t *testing.T) {
	e := &course.Enrollment{Status: course.EnrollmentCompleted}

	_, err := ComputeStatus(e, &course.Course{RecertificationDays: 0}, day0)
	assert.ErrorIs(t, err, apperr.ErrInvariantViolation)
}

func TestComputeStatus_CompletedWithoutCourseFails(t *testing.T) {
	_, err := ComputeStatus(completed(day0), nil, day0)
	assert.ErrorIs(t, err, apperr.ErrInvariantViolation)
}

func TestApply(t *testing.T) {
	e := completed(day0)
	c := &course.Course{RecertificationDays: 90}

	require.NoError(t, Apply(e, c, day0.AddDate(0, 0, 70)))
	assert.Equal(t, course.ComplianceExpiringSoon, e.ComplianceStatus)
	require.NotNil(t, e.ExpiresAt)
	assert.True(t, e.ExpiresAt.Equal(day0.AddDate(0, 0, 90)))

	// Dropping the recertification requirement clears the expiry.
	c.RecertificationDays = 0
	require.NoError(t, Apply(e, c, day0.AddDate(0, 0, 70)))
	assert.Equal(t, course.ComplianceCompliant, e.ComplianceStatus)
	assert.Nil(t, e.ExpiresAt)
}

func TestApply_LeavesEnrollmentUntouchedOnError(t *testing.T) {
	e := &course.Enrollment{Status: course.EnrollmentCompleted, ComplianceStatus: course.ComplianceCompliant}

	assert.Error(t, Apply(e, &course.Course{}, day0))
	assert.Equal(t, course.ComplianceCompliant, e.ComplianceStatus)
}

func TestCurrent_DoesNotMutateStoredValue(t *testing.T) {
	stored := *completed(day0)
	stored.ComplianceStatus = course.ComplianceCompliant
	c := &course.Course{RecertificationDays: 90}

	fresh := Current(stored, c, day0.AddDate(0, 0, 120))

	assert.Equal(t, course.ComplianceExpired, fresh.ComplianceStatus)
	assert.Equal(t, course.ComplianceCompliant, stored.ComplianceStatus)
}

func TestSummarize(t *testing.T) {
	recert := &course.Course{RecertificationDays: 90}
	permanent := &course.Course{}
	now := day0.AddDate(0, 0, 75)

	records := []Record{
		{Enrollment: *completed(day0), Course: recert},                                   // expiring soon
		{Enrollment: *completed(day0.AddDate(0, 0, -30)), Course: recert},                // expired
		{Enrollment: *completed(day0.AddDate(0, 0, 60)), Course: recert},                 // compliant
		{Enrollment: *completed(day0.AddDate(-3, 0, 0)), Course: permanent},              // compliant
		{Enrollment: course.Enrollment{Status: course.EnrollmentActive}, Course: recert}, // not started
		{Enrollment: course.Enrollment{Status: course.EnrollmentCompleted}, Course: recert},
	}

	s := Summarize(records, now)
	assert.Equal(t, Summary{Compliant: 2, ExpiringSoon: 1, Expired: 1, NotStarted: 1, Invalid: 1}, s)
	assert.Equal(t, 6, s.Total())
	assert.InDelta(t, 50.0, s.Rate(), 0.0001)
}

func TestSummaryRate_Empty(t *testing.T) {
	assert.Zero(t, Summary{}.Rate())
}
