package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/molisezx/luct-reporting/internal/models"
	"github.com/molisezx/luct-reporting/internal/service"
	appErrors "github.com/molisezx/luct-reporting/pkg/errors"
	"github.com/molisezx/luct-reporting/pkg/response"
)

// RatingHandler wires HTTP endpoints to the rating service.
type RatingHandler struct {
	service *service.RatingService
}

// NewRatingHandler creates a new handler.
func NewRatingHandler(svc *service.RatingService) *RatingHandler {
	return &RatingHandler{service: svc}
}

// Submit godoc
// @Summary Rate a report
// @Description Record or replace the caller's rating for a report
// @Tags Ratings
// @Accept json
// @Produce json
// @Param payload body models.SubmitRatingRequest true "Rating payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /ratings [post]
func (h *RatingHandler) Submit(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	var req models.SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rating payload"))
		return
	}

	res, err := h.service.Submit(c.Request.Context(), caller, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if res.Created {
		response.Created(c, res)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// ListByReport godoc
// @Summary List report ratings
// @Description Ratings recorded against one report
// @Tags Ratings
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/{id}/ratings [get]
func (h *RatingHandler) ListByReport(c *gin.Context) {
	caller := callerFromContext(c)
	if caller == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return
	}

	ratings, err := h.service.ListByReport(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, ratings, nil)
}
