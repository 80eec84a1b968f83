package scheduling

import (
	"errors"
	"net/http"
	"time"

	"github.com/ViniDB27/ignite-call/internal/auth"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service Service
	loc     *time.Location
}

func NewHandler(service Service, loc *time.Location) *Handler {
	return &Handler{service: service, loc: loc}
}

// Availability godoc
// @Summary      Provider availability for a date
// @Description  Returns the hour slots of the given date with their availability.
// @Tags         scheduling
// @Produce      json
// @Param        username  path      string  true  "Provider username"
// @Param        date      query     string  true  "Calendar date (YYYY-MM-DD)"
// @Success      200       {object}  AvailabilityResponse
// @Failure      400       {object}  gin.H
// @Failure      404       {object}  gin.H
// @Failure      500       {object}  gin.H
// @Router       /users/{username}/availability [get]
func (h *Handler) Availability(c *gin.Context) {
	username := c.Param("username")

	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query param is required"})
		return
	}

	date, err := time.ParseInLocation(dateLayout, dateStr, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}

	slots, err := h.service.Availability(c.Request.Context(), username, date)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User does not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve availability"})
		return
	}

	c.JSON(http.StatusOK, AvailabilityResponse{Date: dateStr, Slots: slots})
}

// CreateBooking godoc
// @Summary      Book a slot
// @Description  Books a one-hour meeting slot with the provider.
// @Tags         scheduling
// @Accept       json
// @Produce      json
// @Param        username  path      string                true  "Provider username"
// @Param        request   body      CreateBookingRequest  true  "Booking data"
// @Success      201       {object}  Booking
// @Failure      400       {object}  gin.H
// @Failure      404       {object}  gin.H
// @Failure      409       {object}  gin.H
// @Failure      500       {object}  gin.H
// @Router       /users/{username}/schedule [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	username := c.Param("username")

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.service.CreateBooking(c.Request.Context(), username, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPastDate):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Date is in the past"})
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User does not exist"})
		case errors.Is(err, ErrSlotConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Date is already booked"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		}
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// ListDayBookings godoc
// @Summary      List bookings for a date
// @Description  Returns the authenticated provider's bookings for the given date.
// @Tags         scheduling
// @Security     BearerAuth
// @Produce      json
// @Param        date  query     string  true  "Calendar date (YYYY-MM-DD)"
// @Success      200   {array}   Booking
// @Failure      400   {object}  gin.H
// @Failure      401   {object}  gin.H
// @Failure      500   {object}  gin.H
// @Router       /bookings [get]
func (h *Handler) ListDayBookings(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query param is required"})
		return
	}

	date, err := time.ParseInLocation(dateLayout, dateStr, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}

	bookings, err := h.service.DayBookings(c.Request.Context(), userID, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	if bookings == nil {
		bookings = []Booking{}
	}

	c.JSON(http.StatusOK, bookings)
}
