package controllers

import (
	"lms/middleware"
	"lms/services/gamification"

	"github.com/gofiber/fiber/v2"
)

func GetLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", gamification.DefaultLeaderboardSize)
	if limit < 1 || limit > 100 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Limit must be between 1 and 100!", nil)
	}

	entries, err := deps.Gamification.Leaderboard(c.UserContext(), limit)
	if err != nil {
		return respondError(c, err, "Failed to fetch leaderboard!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Leaderboard fetched successfully!", entries)
}

func GetMyRewards(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	rewards, err := deps.Gamification.Rewards(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err, "Failed to fetch rewards!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rewards fetched successfully!", rewards)
}
