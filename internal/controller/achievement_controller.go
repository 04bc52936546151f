package controller

import (
	"agent_academy_backend/internal/service"
	"agent_academy_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
	ProgressService    *service.ProgressService
}

func NewAchievementController(achievementService *service.AchievementService, progressService *service.ProgressService) *AchievementController {
	return &AchievementController{
		AchievementService: achievementService,
		ProgressService:    progressService,
	}
}

// GetProgress godoc
// @Summary Get the signed-in student's progress and level
// @Tags progress
// @Produce json
// @Success 200 {object} util.Response{data=service.ProgressOverview}
// @Security BearerAuth
// @Router /api/progress [get]
func (ctrl *AchievementController) GetProgress(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	overview, err := ctrl.ProgressService.GetProgress(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, overview)
}

// List godoc
// @Summary List the signed-in student's achievements
// @Tags achievements
// @Produce json
// @Success 200 {object} util.Response{data=service.AchievementOverview}
// @Security BearerAuth
// @Router /api/achievements [get]
func (ctrl *AchievementController) List(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	overview, err := ctrl.AchievementService.GetUserAchievements(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, overview)
}

// Leaderboard godoc
// @Summary Get the XP leaderboard
// @Tags achievements
// @Produce json
// @Param limit query int false "Number of rows" default(10)
// @Success 200 {object} util.Response{data=[]service.LeaderboardRow}
// @Security BearerAuth
// @Router /api/achievements/leaderboard [get]
func (ctrl *AchievementController) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit > 100 {
		limit = 100
	}

	rows, err := ctrl.AchievementService.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, rows)
}
