package controller

import (
	"agent_academy_backend/internal/service"
	"agent_academy_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type TutorController struct {
	TutorService *service.TutorService
}

func NewTutorController(tutorService *service.TutorService) *TutorController {
	return &TutorController{TutorService: tutorService}
}

// Initialize godoc
// @Summary Open (or resume) the tutoring thread for a lesson section
// @Tags tutor
// @Accept json
// @Produce json
// @Param request body service.InitializeRequest true "Lesson scope"
// @Success 200 {object} util.Response{data=service.ConversationView}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /api/tutor/conversations [post]
func (ctrl *TutorController) Initialize(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req service.InitializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	view, err := ctrl.TutorService.Initialize(claims.UserID, req)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, view)
}

// GetMessages godoc
// @Summary Get the full message history of a conversation
// @Tags tutor
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} util.Response{data=[]model.AIMessage}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/tutor/conversations/{id}/messages [get]
func (ctrl *TutorController) GetMessages(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	messages, err := ctrl.TutorService.GetMessages(c.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrConversationNotFound):
			util.NotFound(c)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(c)
		default:
			util.LogInternalError(c, err)
		}
		return
	}
	util.Success(c, messages)
}

// SendMessage godoc
// @Summary Send a student message and get the tutor's reply
// @Tags tutor
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID"
// @Param request body service.SendMessageRequest true "Message payload"
// @Success 200 {object} util.Response{data=service.SendMessageResult}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/tutor/conversations/{id}/messages [post]
func (ctrl *TutorController) SendMessage(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req service.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	result, err := ctrl.TutorService.SendMessage(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmptyMessage):
			util.BadRequest(c, err.Error())
		case errors.Is(err, util.ErrConversationNotFound):
			util.NotFound(c)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(c)
		default:
			util.LogInternalError(c, err)
		}
		return
	}
	util.Success(c, result)
}

// ListFlagged godoc
// @Summary List conversations waiting on a teacher
// @Tags tutor
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Security BearerAuth
// @Router /api/tutor/flagged [get]
func (ctrl *TutorController) ListFlagged(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	convs, total, err := ctrl.TutorService.ListFlagged(limit, (page-1)*limit)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: convs, Total: total, Page: page, Limit: limit})
}

type interveneRequest struct {
	Content string `json:"content" binding:"required"`
}

// Intervene godoc
// @Summary Post a teacher message into a conversation
// @Tags tutor
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID"
// @Param request body interveneRequest true "Teacher message"
// @Success 200 {object} util.Response{data=model.AIMessage}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/tutor/conversations/{id}/intervene [post]
func (ctrl *TutorController) Intervene(c *gin.Context) {
	var req interveneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	msg, err := ctrl.TutorService.Intervene(c.Param("id"), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrConversationNotFound):
			util.NotFound(c)
		case errors.Is(err, util.ErrEmptyMessage):
			util.BadRequest(c, err.Error())
		default:
			util.LogInternalError(c, err)
		}
		return
	}
	util.Success(c, msg)
}

// Resolve godoc
// @Summary Mark a flagged conversation as handled
// @Tags tutor
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/tutor/conversations/{id}/resolve [post]
func (ctrl *TutorController) Resolve(c *gin.Context) {
	if err := ctrl.TutorService.Resolve(c.Param("id")); err != nil {
		if errors.Is(err, util.ErrConversationNotFound) {
			util.NotFound(c)
			return
		}
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, nil)
}
