package handlers

import (
	"errors"
	"net/http"

	"washbot/models"
	"washbot/services/schedule"
	"washbot/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler serves the slot-store HTTP surface.
type AppointmentHandler struct {
	Repo schedule.SlotRepository
}

func NewAppointmentHandler(repo schedule.SlotRepository) *AppointmentHandler {
	return &AppointmentHandler{Repo: repo}
}

// GetSlotsHandler handles GET /api/appointments/slots?date=YYYY-MM-DD.
// A date with no schedule row or no open slots yields an informational status
// record with a 200, matching what the tool executor expects to parse.
func (h *AppointmentHandler) GetSlotsHandler(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing 'date' query parameter."})
		return
	}

	slots, err := h.Repo.AvailableSlots(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, schedule.ErrNoSchedule) {
			c.JSON(http.StatusOK, []gin.H{{"status": "No schedule found for this date."}})
			return
		}
		utils.GetLogger().Error("availability read failed", zap.String("date", date), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "Error", "message": err.Error()})
		return
	}

	if len(slots) == 0 {
		c.JSON(http.StatusOK, []gin.H{{"status": "No available slots found on " + date + "."}})
		return
	}
	c.JSON(http.StatusOK, slots)
}

// BookSlotHandler handles POST /api/appointments/slots.
func (h *AppointmentHandler) BookSlotHandler(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing required fields in body. Need 'date', 'time', and 'user_id'.",
		})
		return
	}

	result, err := h.Repo.Book(c.Request.Context(), req.Date, req.Time, req.UserID)
	if err != nil {
		var taken *schedule.SlotTakenError
		switch {
		case errors.As(err, &taken):
			c.JSON(http.StatusConflict, gin.H{"status": "Error", "message": taken.Error()})
		case errors.Is(err, schedule.ErrBlackedOut):
			c.JSON(http.StatusConflict, gin.H{"status": "Error", "message": "Slot is not offered on this date."})
		case errors.Is(err, schedule.ErrNoSchedule):
			c.JSON(http.StatusInternalServerError, gin.H{"status": "Error", "message": "Date " + req.Date + " not found."})
		case errors.Is(err, schedule.ErrUnknownTime):
			c.JSON(http.StatusInternalServerError, gin.H{"status": "Error", "message": "Time slot " + req.Time + " not valid or header not found."})
		default:
			utils.GetLogger().Error("booking write failed",
				zap.String("date", req.Date), zap.String("time", req.Time), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"status": "Error", "message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}
