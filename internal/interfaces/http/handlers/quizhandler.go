package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"learnhub/internal/application/contentsvc"
	"learnhub/internal/domain/content"
	"learnhub/internal/interfaces/http/middleware"
	"learnhub/internal/shared/logger"
	"learnhub/internal/shared/utils"
)

type QuizHandler struct {
	contentService *contentsvc.Service
	logger         logger.Interface
}

func NewQuizHandler(contentService *contentsvc.Service, logger logger.Interface) *QuizHandler {
	return &QuizHandler{
		contentService: contentService,
		logger:         logger,
	}
}

type CreateQuizRequest struct {
	Title        string `json:"title" binding:"required,max=200"`
	Description  string `json:"description"`
	TimeLimitSec int    `json:"time_limit_sec" binding:"min=0"`
}

type UpdateQuizRequest struct {
	Title        string `json:"title" binding:"required,max=200"`
	Description  string `json:"description"`
	TimeLimitSec int    `json:"time_limit_sec" binding:"min=0"`
}

type QuizResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DescriptionHTML string    `json:"description_html,omitempty"`
	TenantID        *uint     `json:"tenant_id"`
	IsShared        bool      `json:"is_shared"`
	IsActive        bool      `json:"is_active"`
	TimeLimitSec    int       `json:"time_limit_sec"`
	CreatedBy       uint      `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

func (h *QuizHandler) toQuizResponse(quiz *content.Quiz, renderDescription bool) QuizResponse {
	resp := QuizResponse{
		ID:           quiz.ID(),
		Title:        quiz.Title(),
		Description:  quiz.Description(),
		TenantID:     quiz.TenantID(),
		IsShared:     quiz.IsShared(),
		IsActive:     quiz.IsActive(),
		TimeLimitSec: quiz.TimeLimitSec(),
		CreatedBy:    quiz.CreatedBy(),
		CreatedAt:    quiz.CreatedAt(),
	}

	if renderDescription && quiz.Description() != "" {
		html, err := h.contentService.RenderDescription(quiz.Description())
		if err != nil {
			h.logger.Warnw("description render failed", "quiz_id", quiz.ID(), "error", err)
		} else {
			resp.DescriptionHTML = html
		}
	}

	return resp
}

// CreateQuiz godoc
// @Summary Create a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateQuizRequest true "Quiz"
// @Success 201 {object} utils.APIResponse{data=QuizResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /quizzes [post]
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	result := middleware.GateResultFromContext(c)
	if result == nil {
		utils.ErrorResponse(c, http.StatusForbidden, "no authorization context")
		return
	}

	var req CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	quiz, err := h.contentService.CreateQuiz(c.Request.Context(), contentsvc.CreateQuizInput{
		Title:        req.Title,
		Description:  req.Description,
		TenantID:     result.TenantID,
		TimeLimitSec: req.TimeLimitSec,
		CreatedBy:    result.AccountID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, h.toQuizResponse(quiz, false), "quiz created")
}

// ListQuizzes godoc
// @Summary List visible quizzes
// @Tags quizzes
// @Produce json
// @Security Bearer
// @Param title query string false "Title filter"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.APIResponse
// @Router /quizzes [get]
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	result := middleware.GateResultFromContext(c)
	if result == nil {
		utils.ErrorResponse(c, http.StatusForbidden, "no authorization context")
		return
	}

	pagination := utils.ParsePagination(c)
	filter := content.ContentFilter{
		Title:      c.Query("title"),
		ActiveOnly: true,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
	}

	quizzes, total, err := h.contentService.ListVisibleQuizzes(c.Request.Context(), result.TenantID, filter)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		items = append(items, h.toQuizResponse(quiz, false))
	}

	utils.ListSuccessResponse(c, items, total, pagination.Page, pagination.PageSize)
}

// GetQuiz godoc
// @Summary Get a quiz
// @Tags quizzes
// @Produce json
// @Security Bearer
// @Param id path int true "Quiz ID"
// @Success 200 {object} utils.APIResponse{data=QuizResponse}
// @Failure 404 {object} utils.APIResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	quiz, err := h.contentService.GetQuiz(c.Request.Context(), quizID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "success", h.toQuizResponse(quiz, true))
}

// UpdateQuiz godoc
// @Summary Update a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Quiz ID"
// @Param request body UpdateQuizRequest true "Changes"
// @Success 200 {object} utils.APIResponse{data=QuizResponse}
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /quizzes/{id} [put]
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	quiz, err := h.contentService.UpdateQuiz(c.Request.Context(), quizID, contentsvc.UpdateQuizInput{
		Title:        req.Title,
		Description:  req.Description,
		TimeLimitSec: req.TimeLimitSec,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "quiz updated", h.toQuizResponse(quiz, false))
}

// ShareQuiz godoc
// @Summary Share a quiz globally
// @Tags quizzes
// @Produce json
// @Security Bearer
// @Param id path int true "Quiz ID"
// @Success 200 {object} utils.APIResponse{data=QuizResponse}
// @Failure 403 {object} utils.APIResponse
// @Router /quizzes/{id}/share [post]
func (h *QuizHandler) ShareQuiz(c *gin.Context) {
	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	quiz, err := h.contentService.ShareQuiz(c.Request.Context(), quizID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "quiz shared", h.toQuizResponse(quiz, false))
}

// DeleteQuiz godoc
// @Summary Delete a quiz
// @Tags quizzes
// @Security Bearer
// @Param id path int true "Quiz ID"
// @Success 204
// @Failure 403 {object} utils.APIResponse
// @Router /quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.contentService.DeleteQuiz(c.Request.Context(), quizID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
