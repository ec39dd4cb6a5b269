package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/molisezx/luct-reporting/internal/middleware"
	"github.com/molisezx/luct-reporting/internal/models"
)

// callerFromContext returns the identity snapshot the session middleware
// stored, or nil when the route was reached without it.
func callerFromContext(c *gin.Context) *models.UserInfo {
	value, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	caller, ok := value.(*models.UserInfo)
	if !ok {
		return nil
	}
	return caller
}
