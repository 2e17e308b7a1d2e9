// Package gamification keeps learner points and milestone badges.
package gamification

import (
	"context"
	"errors"
	"log"
	"time"

	"lms/models"
	"lms/services/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultLeaderboardSize is the number of learners on the leaderboard.
const DefaultLeaderboardSize = 10

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Rewards is a learner's point balance and earned badges.
type Rewards struct {
	UserID uint               `json:"user_id"`
	Points int                `json:"points"`
	Badges []models.UserBadge `json:"badges"`
}

// LeaderboardEntry is one ranked learner.
type LeaderboardEntry struct {
	Rank   int            `json:"rank"`
	UserID uint           `json:"user_id"`
	Name   string         `json:"name"`
	Points int            `json:"points"`
	Badges []models.Badge `json:"badges"`
}

// AwardPoints adds amount to the user's balance and grants every points
// milestone badge the new balance reaches. Each badge is granted once.
func (s *Service) AwardPoints(ctx context.Context, userID uint, amount int, reason string) error {
	var awarded []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND is_deleted = ?", userID, false).
			Update("points", gorm.Expr("points + ?", amount))
		if res.Error != nil {
			return apperr.Persistence("award points", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("user")
		}

		var user models.User
		if err := tx.Select("id", "points").First(&user, userID).Error; err != nil {
			return apperr.Persistence("reload user", err)
		}

		var badges []models.Badge
		err := tx.Where("criteria_type = ? AND criteria_value <= ?", models.CriteriaPointsMilestone, user.Points).
			Order("criteria_value asc").
			Find(&badges).Error
		if err != nil {
			return apperr.Persistence("find milestone badges", err)
		}

		now := s.now()
		for _, b := range badges {
			grant := models.UserBadge{UserID: userID, BadgeID: b.ID, AwardedAt: now}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant)
			if res.Error != nil {
				return apperr.Persistence("grant badge", res.Error)
			}
			if res.RowsAffected > 0 {
				awarded = append(awarded, b.Name)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("[GAMIFICATION] Awarded %d points to user %d for: %s", amount, userID, reason)
	for _, name := range awarded {
		log.Printf("[GAMIFICATION] User %d earned badge %q", userID, name)
	}
	return nil
}

// Leaderboard ranks students by points, highest first.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardSize
	}

	var users []models.User
	err := s.db.WithContext(ctx).
		Preload("Badges.Badge").
		Where("role = ? AND is_deleted = ?", models.RoleStudent, false).
		Order("points desc, id asc").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, apperr.Persistence("leaderboard", err)
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		badges := make([]models.Badge, 0, len(u.Badges))
		for _, ub := range u.Badges {
			badges = append(badges, ub.Badge)
		}
		entries = append(entries, LeaderboardEntry{
			Rank:   i + 1,
			UserID: u.ID,
			Name:   u.Name,
			Points: u.Points,
			Badges: badges,
		})
	}
	return entries, nil
}

// Rewards returns the user's points and badges.
func (s *Service) Rewards(ctx context.Context, userID uint) (*Rewards, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Badges", func(db *gorm.DB) *gorm.DB { return db.Order("awarded_at asc") }).
		Preload("Badges.Badge").
		Where("id = ? AND is_deleted = ?", userID, false).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user")
	}
	if err != nil {
		return nil, apperr.Persistence("rewards", err)
	}

	return &Rewards{UserID: user.ID, Points: user.Points, Badges: user.Badges}, nil
}
