package compliance

import (
	"time"

	"lms/models/course"
)

// Record pairs an enrollment with the course it belongs to.
type Record struct {
	Enrollment course.Enrollment
	Course     *course.Course
}

// Summary counts enrollments per compliance status.
type Summary struct {
	Compliant    int `json:"compliant"`
	ExpiringSoon int `json:"expiring_soon"`
	Expired      int `json:"expired"`
	NotStarted   int `json:"not_started"`
	Invalid      int `json:"invalid"`
}

// Total is the number of enrollments counted.
func (s Summary) Total() int {
	return s.Compliant + s.ExpiringSoon + s.Expired + s.NotStarted + s.Invalid
}

// Rate is the share of counted enrollments that are compliant or expiring
// soon (still valid), as a percentage. An empty summary has a rate of 0.
func (s Summary) Rate() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return float64(s.Compliant+s.ExpiringSoon) / float64(total) * 100
}

// Summarize recomputes every record at now and tallies the statuses.
// Records that break the completion invariant are counted as Invalid.
func Summarize(records []Record, now time.Time) Summary {
	var s Summary
	for i := range records {
		res, err := ComputeStatus(&records[i].Enrollment, records[i].Course, now)
		if err != nil {
			s.Invalid++
			continue
		}
		switch res.Status {
		case course.ComplianceCompliant:
			s.Compliant++
		case course.ComplianceExpiringSoon:
			s.ExpiringSoon++
		case course.ComplianceExpired:
			s.Expired++
		default:
			s.NotStarted++
		}
	}
	return s
}
