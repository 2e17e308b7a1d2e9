package database

import (
	"context"
	"errors"

	"lms/models"
	courseModels "lms/models/course"
	"lms/services/apperr"
	"lms/services/compliance"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const enrollmentBatchSize = 200

// Store is the gorm-backed persistence used by the services
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// translate maps gorm errors onto the service error kinds
func translate(op, entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict("%s: duplicate %s", op, entity)
	default:
		return apperr.Persistence(op, err)
	}
}

func (s *Store) FindExam(ctx context.Context, examID uint) (*courseModels.Exam, error) {
	var exam courseModels.Exam
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc, id asc")
		}).
		First(&exam, examID).Error
	if err != nil {
		return nil, translate("find exam", "exam", err)
	}
	return &exam, nil
}

func (s *Store) FindUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error
	if err != nil {
		return nil, translate("find user", "user", err)
	}
	return &user, nil
}

// CreateAttempt writes the attempt and its certificate in one transaction so
// a certificate never exists without its attempt.
func (s *Store) CreateAttempt(ctx context.Context, attempt *courseModels.ExamAttempt, cert *courseModels.Certificate) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		if cert == nil {
			return nil
		}

		cert.AttemptID = attempt.ID
		if err := tx.Create(cert).Error; err != nil {
			return err
		}
		if err := tx.Model(&courseModels.ExamAttempt{}).Where("id = ?", attempt.ID).
			Update("certificate_id", cert.ID).Error; err != nil {
			return err
		}
		attempt.CertificateID = &cert.ID
		return nil
	})
	if err != nil {
		attempt.ID = 0
		attempt.CertificateID = nil
		if cert != nil {
			cert.ID = 0
		}
		return translate("create attempt", "certificate number", err)
	}
	return nil
}

func (s *Store) FindCourse(ctx context.Context, courseID uint) (*courseModels.Course, error) {
	var c courseModels.Course
	err := s.db.WithContext(ctx).
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("order_index asc, id asc")
		}).
		Where("id = ? AND is_deleted = ?", courseID, false).
		First(&c).Error
	if err != nil {
		return nil, translate("find course", "course", err)
	}
	return &c, nil
}

func (s *Store) FindEnrollment(ctx context.Context, userID, courseID uint) (*courseModels.Enrollment, error) {
	var e courseModels.Enrollment
	err := s.db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&e).Error
	if err != nil {
		return nil, translate("find enrollment", "enrollment", err)
	}
	return &e, nil
}

func (s *Store) ListEnrollments(ctx context.Context, userID uint) ([]courseModels.Enrollment, error) {
	var enrollments []courseModels.Enrollment
	err := s.db.WithContext(ctx).Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&enrollments).Error
	if err != nil {
		return nil, translate("list enrollments", "enrollment", err)
	}
	return enrollments, nil
}

func (s *Store) CreateEnrollment(ctx context.Context, e *courseModels.Enrollment) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("already enrolled in course %d", e.CourseID)
		}
		return translate("create enrollment", "enrollment", err)
	}
	return nil
}

// SaveEnrollment persists every enrollment column in one UPDATE
func (s *Store) SaveEnrollment(ctx context.Context, e *courseModels.Enrollment) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(e).Error
	return translate("save enrollment", "enrollment", err)
}

func (s *Store) EachCompletedEnrollment(ctx context.Context, fn func(e *courseModels.Enrollment) error) error {
	var batch []courseModels.Enrollment
	err := s.db.WithContext(ctx).Preload("Course").
		Where("status = ?", courseModels.EnrollmentCompleted).
		FindInBatches(&batch, enrollmentBatchSize, func(tx *gorm.DB, _ int) error {
			for i := range batch {
				if err := fn(&batch[i]); err != nil {
					return err
				}
			}
			return nil
		}).Error
	return translate("scan enrollments", "enrollment", err)
}

// MandatoryComplianceRecords returns every enrollment in the organization's
// mandatory courses paired with its course, and the number of such courses.
// A nil organization covers all mandatory courses; only admins reach it.
func (s *Store) MandatoryComplianceRecords(ctx context.Context, organizationID *uint) ([]compliance.Record, int, error) {
	q := s.db.WithContext(ctx).Where("is_mandatory = ? AND is_deleted = ?", true, false)
	if organizationID != nil {
		q = q.Where("organization_id = ?", *organizationID)
	}

	var courses []courseModels.Course
	if err := q.Find(&courses).Error; err != nil {
		return nil, 0, translate("list mandatory courses", "course", err)
	}
	if len(courses) == 0 {
		return nil, 0, nil
	}

	byID := make(map[uint]*courseModels.Course, len(courses))
	ids := make([]uint, 0, len(courses))
	for i := range courses {
		byID[courses[i].ID] = &courses[i]
		ids = append(ids, courses[i].ID)
	}

	var enrollments []courseModels.Enrollment
	if err := s.db.WithContext(ctx).Where("course_id IN ?", ids).Find(&enrollments).Error; err != nil {
		return nil, 0, translate("list enrollments", "enrollment", err)
	}

	records := make([]compliance.Record, 0, len(enrollments))
	for _, e := range enrollments {
		records = append(records, compliance.Record{Enrollment: e, Course: byID[e.CourseID]})
	}
	return records, len(courses), nil
}

// UserComplianceEnrollments returns the user's enrollments in courses that
// are mandatory or require recertification, with Course loaded.
func (s *Store) UserComplianceEnrollments(ctx context.Context, userID uint) ([]courseModels.Enrollment, error) {
	courseIDs := s.db.Model(&courseModels.Course{}).Select("id").
		Where("is_deleted = ? AND (is_mandatory = ? OR recertification_days > ?)", false, true, 0)

	var enrollments []courseModels.Enrollment
	err := s.db.WithContext(ctx).Preload("Course").
		Where("user_id = ? AND course_id IN (?)", userID, courseIDs).
		Order("id asc").
		Find(&enrollments).Error
	if err != nil {
		return nil, translate("list compliance enrollments", "enrollment", err)
	}
	return enrollments, nil
}
