package schedule

import (
	"errors"
	"net/http"

	"github.com/ViniDB27/ignite-call/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ReplaceTimeIntervals godoc
// @Summary      Replace weekly time intervals
// @Description  Replaces the authenticated provider's whole weekly availability set.
// @Tags         schedule
// @Security     BearerAuth
// @Accept       json
// @Param        request  body  ReplaceIntervalsRequest  true  "Weekly intervals"
// @Success      204
// @Failure      400  {object}  gin.H
// @Failure      401  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /time-intervals [put]
func (h *Handler) ReplaceTimeIntervals(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req ReplaceIntervalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.ReplaceWeeklyIntervals(c.Request.Context(), userID, req.Intervals); err != nil {
		if errors.Is(err, ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace time intervals"})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetTimeIntervals godoc
// @Summary      Get weekly time intervals
// @Description  Returns the authenticated provider's weekly availability set.
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   WeekDayInterval
// @Failure      401  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /time-intervals [get]
func (h *Handler) GetTimeIntervals(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	intervals, err := h.service.GetWeeklyIntervals(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch time intervals"})
		return
	}

	if intervals == nil {
		intervals = []WeekDayInterval{}
	}

	c.JSON(http.StatusOK, intervals)
}
