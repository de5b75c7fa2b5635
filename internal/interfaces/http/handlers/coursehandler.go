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

// CourseHandler exposes course management. Reads show the tenant's own
// courses plus globally shared ones; writes run behind the course edit
// gate.
type CourseHandler struct {
	contentService *contentsvc.Service
	logger         logger.Interface
}

func NewCourseHandler(contentService *contentsvc.Service, logger logger.Interface) *CourseHandler {
	return &CourseHandler{
		contentService: contentService,
		logger:         logger,
	}
}

type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
}

type UpdateCourseRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
}

type CourseResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DescriptionHTML string    `json:"description_html,omitempty"`
	TenantID        *uint     `json:"tenant_id"`
	IsShared        bool      `json:"is_shared"`
	IsActive        bool      `json:"is_active"`
	CreatedBy       uint      `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

func (h *CourseHandler) toCourseResponse(course *content.Course, renderDescription bool) CourseResponse {
	resp := CourseResponse{
		ID:          course.ID(),
		Title:       course.Title(),
		Description: course.Description(),
		TenantID:    course.TenantID(),
		IsShared:    course.IsShared(),
		IsActive:    course.IsActive(),
		CreatedBy:   course.CreatedBy(),
		CreatedAt:   course.CreatedAt(),
	}

	if renderDescription && course.Description() != "" {
		html, err := h.contentService.RenderDescription(course.Description())
		if err != nil {
			h.logger.Warnw("description render failed", "course_id", course.ID(), "error", err)
		} else {
			resp.DescriptionHTML = html
		}
	}

	return resp
}

// CreateCourse godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateCourseRequest true "Course"
// @Success 201 {object} utils.APIResponse{data=CourseResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	result := middleware.GateResultFromContext(c)
	if result == nil {
		utils.ErrorResponse(c, http.StatusForbidden, "no authorization context")
		return
	}

	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	course, err := h.contentService.CreateCourse(c.Request.Context(), contentsvc.CreateCourseInput{
		Title:       req.Title,
		Description: req.Description,
		TenantID:    result.TenantID,
		CreatedBy:   result.AccountID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, h.toCourseResponse(course, false), "course created")
}

// ListCourses godoc
// @Summary List visible courses
// @Description Lists the caller's tenant-owned courses plus globally shared ones
// @Tags courses
// @Produce json
// @Security Bearer
// @Param title query string false "Title filter"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} utils.APIResponse
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
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

	courses, total, err := h.contentService.ListVisibleCourses(c.Request.Context(), result.TenantID, filter)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		items = append(items, h.toCourseResponse(course, false))
	}

	utils.ListSuccessResponse(c, items, total, pagination.Page, pagination.PageSize)
}

// GetCourse godoc
// @Summary Get a course
// @Description Returns the course with its description rendered to sanitized HTML
// @Tags courses
// @Produce json
// @Security Bearer
// @Param id path int true "Course ID"
// @Success 200 {object} utils.APIResponse{data=CourseResponse}
// @Failure 404 {object} utils.APIResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.contentService.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "success", h.toCourseResponse(course, true))
}

// UpdateCourse godoc
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "Course ID"
// @Param request body UpdateCourseRequest true "Changes"
// @Success 200 {object} utils.APIResponse{data=CourseResponse}
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	course, err := h.contentService.UpdateCourse(c.Request.Context(), courseID, contentsvc.UpdateCourseInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "course updated", h.toCourseResponse(course, false))
}

// ShareCourse godoc
// @Summary Share a course globally
// @Description Marks the course as visible to every tenant
// @Tags courses
// @Produce json
// @Security Bearer
// @Param id path int true "Course ID"
// @Success 200 {object} utils.APIResponse{data=CourseResponse}
// @Failure 403 {object} utils.APIResponse
// @Router /courses/{id}/share [post]
func (h *CourseHandler) ShareCourse(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	course, err := h.contentService.ShareCourse(c.Request.Context(), courseID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "course shared", h.toCourseResponse(course, false))
}

// DeleteCourse godoc
// @Summary Delete a course
// @Tags courses
// @Security Bearer
// @Param id path int true "Course ID"
// @Success 204
// @Failure 403 {object} utils.APIResponse
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.contentService.DeleteCourse(c.Request.Context(), courseID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
