package controller

import (
	"agent_academy_backend/internal/service"
	"agent_academy_backend/internal/util"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ChallengeController struct {
	ChallengeService *service.ChallengeService
	ProgressService  *service.ProgressService
}

func NewChallengeController(challengeService *service.ChallengeService, progressService *service.ProgressService) *ChallengeController {
	return &ChallengeController{
		ChallengeService: challengeService,
		ProgressService:  progressService,
	}
}

// List godoc
// @Summary List published challenges
// @Tags challenges
// @Produce json
// @Param category query string false "Filter by category"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Security BearerAuth
// @Router /api/challenges [get]
func (ctrl *ChallengeController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	challenges, total, err := ctrl.ChallengeService.ListChallenges(c.Query("category"), limit, (page-1)*limit)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}

	util.Success(c, util.PageResponse{List: challenges, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary Get one challenge
// @Tags challenges
// @Produce json
// @Param id path int true "Challenge ID"
// @Success 200 {object} util.Response{data=model.Challenge}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/challenges/{id} [get]
func (ctrl *ChallengeController) Get(c *gin.Context) {
	ch, err := ctrl.ChallengeService.GetChallenge(util.MustParseUint(c.Param("id")))
	if err != nil {
		util.NotFound(c)
		return
	}
	util.Success(c, ch)
}

// Create godoc
// @Summary Create a challenge
// @Tags challenges
// @Accept json
// @Produce json
// @Param request body service.CreateChallengeRequest true "Challenge payload"
// @Success 201 {object} util.Response{data=model.Challenge}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /api/challenges [post]
func (ctrl *ChallengeController) Create(c *gin.Context) {
	var req service.CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	ch, err := ctrl.ChallengeService.CreateChallenge(req)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Created(c, ch)
}

// Update godoc
// @Summary Update a challenge
// @Tags challenges
// @Accept json
// @Produce json
// @Param id path int true "Challenge ID"
// @Param request body service.UpdateChallengeRequest true "Fields to update"
// @Success 200 {object} util.Response{data=model.Challenge}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/challenges/{id} [put]
func (ctrl *ChallengeController) Update(c *gin.Context) {
	var req service.UpdateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	ch, err := ctrl.ChallengeService.UpdateChallenge(util.MustParseUint(c.Param("id")), req)
	if err != nil {
		if errors.Is(err, util.ErrChallengeNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, ch)
}

// Start godoc
// @Summary Start or resume a challenge session
// @Tags challenges
// @Produce json
// @Param id path int true "Challenge ID"
// @Success 200 {object} util.Response{data=model.ChallengeSession}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/challenges/{id}/start [post]
func (ctrl *ChallengeController) Start(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	sess, err := ctrl.ChallengeService.StartChallenge(claims.UserID, util.MustParseUint(c.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrChallengeNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, sess)
}

// UnlockHint godoc
// @Summary Unlock a hint for the open session
// @Tags challenges
// @Accept json
// @Produce json
// @Param id path int true "Challenge ID"
// @Param request body service.UnlockHintRequest true "Hint to unlock"
// @Success 200 {object} util.Response{data=model.ChallengeSession}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /api/challenges/{id}/hints [post]
func (ctrl *ChallengeController) UnlockHint(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req service.UnlockHintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	sess, err := ctrl.ChallengeService.UnlockHint(claims.UserID, util.MustParseUint(c.Param("id")), req.HintID)
	if err != nil {
		if errors.Is(err, util.ErrSessionNotStarted) {
			util.BadRequest(c, err.Error())
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, sess)
}

// Submit godoc
// @Summary Submit a run/check result for XP
// @Tags challenges
// @Accept json
// @Produce json
// @Param id path int true "Challenge ID"
// @Param request body service.SubmitRequest true "Submission payload"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/challenges/{id}/submit [post]
func (ctrl *ChallengeController) Submit(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req service.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	result, err := ctrl.ProgressService.SubmitChallenge(c.Request.Context(), claims.UserID, util.MustParseUint(c.Param("id")), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrChallengeNotFound):
			util.NotFound(c)
		case errors.Is(err, util.ErrSessionNotStarted), errors.Is(err, util.ErrScoreOutOfRange):
			util.BadRequest(c, err.Error())
		case errors.Is(err, util.ErrSessionCompleted):
			util.Error(c, http.StatusConflict, err.Error())
		default:
			util.LogInternalError(c, err)
		}
		return
	}
	util.Success(c, result)
}
