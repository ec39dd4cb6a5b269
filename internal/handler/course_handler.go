package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/molisezx/luct-reporting/internal/models"
	"github.com/molisezx/luct-reporting/internal/service"
	appErrors "github.com/molisezx/luct-reporting/pkg/errors"
	"github.com/molisezx/luct-reporting/pkg/response"
)

// CourseHandler wires HTTP endpoints to the course service.
type CourseHandler struct {
	service *service.CourseService
}

// NewCourseHandler creates a new handler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary List courses
// @Description List courses visible to the caller's role
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	courses, err := h.service.List(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, courses, nil)
}

// Summaries godoc
// @Summary Course summaries
// @Description The caller's courses with class and lecturer counts
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /principal/courses [get]
func (h *CourseHandler) Summaries(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	summaries, err := h.service.Summaries(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summaries, nil)
}

// ListFaculties godoc
// @Summary List faculties
// @Description Reference list of faculties
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /faculties [get]
func (h *CourseHandler) ListFaculties(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	faculties, err := h.service.ListFaculties(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, faculties, nil)
}

// Create godoc
// @Summary Create course
// @Description Add a course under a faculty
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body models.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	var req models.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}

	course, err := h.service.Create(c.Request.Context(), caller, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, course)
}
