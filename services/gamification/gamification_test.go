package gamification_test

import (
	"context"
	"testing"

	"lms/database/dbtest"
	"lms/models"
	"lms/services/apperr"
	"lms/services/gamification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	badges := []models.Badge{
		{Name: "Rising Star", Description: "Earn 50 points", CriteriaType: models.CriteriaPointsMilestone, CriteriaValue: 50},
		{Name: "Centurion", Description: "Earn 100 points", CriteriaType: models.CriteriaPointsMilestone, CriteriaValue: 100},
		{Name: "First Pass", Description: "Pass an exam", CriteriaType: models.CriteriaExamPassed, CriteriaValue: 1},
	}
	require.NoError(t, db.Create(&badges).Error)
}

func newUser(t *testing.T, db *gorm.DB, name, role string, points int) models.User {
	t.Helper()
	u := models.User{Name: name, Email: name + "@example.com", Password: "x", Role: role, Points: points}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestAwardPointsGrantsMilestonesOnce(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	seed(t, db)
	svc := gamification.NewService(db)
	u := newUser(t, db, "ada", models.RoleStudent, 0)

	require.NoError(t, svc.AwardPoints(ctx, u.ID, 50, "Passed Exam: Safety"))
	r, err := svc.Rewards(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, r.Points)
	require.Len(t, r.Badges, 1)
	assert.Equal(t, "Rising Star", r.Badges[0].Badge.Name)

	require.NoError(t, svc.AwardPoints(ctx, u.ID, 50, "Passed Exam: Privacy"))
	r, err = svc.Rewards(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, r.Points)
	require.Len(t, r.Badges, 2)
	assert.Equal(t, "Centurion", r.Badges[1].Badge.Name)

	var count int64
	require.NoError(t, db.Model(&models.UserBadge{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestAwardPointsUnknownUser(t *testing.T) {
	db := dbtest.New(t)
	svc := gamification.NewService(db)

	err := svc.AwardPoints(context.Background(), 404, 50, "nothing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	seed(t, db)
	svc := gamification.NewService(db)

	low := newUser(t, db, "low", models.RoleStudent, 10)
	high := newUser(t, db, "high", models.RoleStudent, 0)
	newUser(t, db, "mentor", models.RoleInstructor, 1000)
	require.NoError(t, svc.AwardPoints(ctx, high.ID, 120, "bonus"))

	entries, err := svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, high.ID, entries[0].UserID)
	assert.Equal(t, 120, entries[0].Points)
	assert.Len(t, entries[0].Badges, 2)

	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, low.ID, entries[1].UserID)
	assert.Empty(t, entries[1].Badges)

	entries, err = svc.Leaderboard(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRewardsUnknownUser(t *testing.T) {
	_, err := gamification.NewService(dbtest.New(t)).Rewards(context.Background(), 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
