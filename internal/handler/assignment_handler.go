package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/molisezx/luct-reporting/internal/models"
	"github.com/molisezx/luct-reporting/internal/service"
	appErrors "github.com/molisezx/luct-reporting/pkg/errors"
	"github.com/molisezx/luct-reporting/pkg/response"
)

// AssignmentHandler wires HTTP endpoints to the assignment service.
type AssignmentHandler struct {
	service *service.AssignmentService
}

// NewAssignmentHandler creates a new handler.
func NewAssignmentHandler(svc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: svc}
}

// Assign godoc
// @Summary Assign lecturer to course
// @Description Record the grant of a course to a lecturer
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body models.AssignLecturerRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Assign(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	var req models.AssignLecturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	assignment, err := h.service.Assign(c.Request.Context(), caller, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, assignment)
}

// ListLecturers godoc
// @Summary List lecturers
// @Description Lecturer roster for the assignment picker
// @Tags Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /program/lecturers [get]
func (h *AssignmentHandler) ListLecturers(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	lecturers, err := h.service.ListLecturers(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, lecturers, nil)
}
