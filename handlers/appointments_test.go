package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"washbot/models"
	"washbot/services/schedule"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSlotRepo keeps the grid in memory: a map of date to occupied cells.
type fakeSlotRepo struct {
	grid map[string]map[string]string // date -> time -> occupant or blackout
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{grid: map[string]map[string]string{}}
}

func (f *fakeSlotRepo) addDate(date string) {
	f.grid[date] = map[string]string{}
}

func (f *fakeSlotRepo) AvailableSlots(ctx context.Context, date string) ([]models.Slot, error) {
	row, ok := f.grid[date]
	if !ok {
		return nil, schedule.ErrNoSchedule
	}
	var slots []models.Slot
	for _, label := range models.TimeColumns {
		if row[label] == "" {
			slots = append(slots, models.Slot{Date: date, Time: label, Status: models.SlotStatusAvailable})
		}
	}
	return slots, nil
}

func (f *fakeSlotRepo) Book(ctx context.Context, date, timeLabel, userID string) (*models.BookingResult, error) {
	row, ok := f.grid[date]
	if !ok {
		return nil, schedule.ErrNoSchedule
	}
	if !models.IsCanonicalTime(timeLabel) {
		return nil, schedule.ErrUnknownTime
	}
	switch current := row[timeLabel]; {
	case strings.EqualFold(current, models.BlackoutMarker):
		return nil, schedule.ErrBlackedOut
	case current != "":
		return nil, &schedule.SlotTakenError{Occupant: current}
	}
	row[timeLabel] = userID
	return &models.BookingResult{
		Status:  "Success",
		Message: fmt.Sprintf("Slot booked successfully on %s at %s for %s.", date, timeLabel, userID),
	}, nil
}

func appointmentRouter(repo schedule.SlotRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAppointmentHandler(repo)
	r.GET("/api/appointments/slots", h.GetSlotsHandler)
	r.POST("/api/appointments/slots", h.BookSlotHandler)
	return r
}

func getSlots(t *testing.T, r *gin.Engine, query string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/appointments/slots"+query, nil)
	r.ServeHTTP(w, req)
	return w
}

func postBooking(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/appointments/slots", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestGetSlotsHandler(t *testing.T) {
	t.Run("missing date parameter", func(t *testing.T) {
		w := getSlots(t, appointmentRouter(newFakeSlotRepo()), "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no schedule row is an informational record, not an error", func(t *testing.T) {
		w := getSlots(t, appointmentRouter(newFakeSlotRepo()), "?date=2026-03-11")
		assert.Equal(t, http.StatusOK, w.Code)

		var records []map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "No schedule found for this date.", records[0]["status"])
	})

	t.Run("open slots in column order", func(t *testing.T) {
		repo := newFakeSlotRepo()
		repo.addDate("2026-03-11")
		repo.grid["2026-03-11"]["9:00 AM"] = "Taha-9999"
		repo.grid["2026-03-11"]["1:00 PM"] = models.BlackoutMarker

		w := getSlots(t, appointmentRouter(repo), "?date=2026-03-11")
		assert.Equal(t, http.StatusOK, w.Code)

		var slots []models.Slot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &slots))
		require.Len(t, slots, 6)
		assert.Equal(t, "10:00 AM", slots[0].Time)
		for _, s := range slots {
			assert.Equal(t, models.SlotStatusAvailable, s.Status)
			assert.NotEqual(t, "9:00 AM", s.Time)
			assert.NotEqual(t, "1:00 PM", s.Time)
		}
	})

	t.Run("fully booked date", func(t *testing.T) {
		repo := newFakeSlotRepo()
		repo.addDate("2026-03-11")
		for _, label := range models.TimeColumns {
			repo.grid["2026-03-11"][label] = "someone"
		}

		w := getSlots(t, appointmentRouter(repo), "?date=2026-03-11")
		assert.Equal(t, http.StatusOK, w.Code)

		var records []map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "No available slots found on 2026-03-11.", records[0]["status"])
	})
}

func TestBookSlotHandler(t *testing.T) {
	t.Run("successful booking", func(t *testing.T) {
		repo := newFakeSlotRepo()
		repo.addDate("2026-03-11")

		w := postBooking(t, appointmentRouter(repo),
			`{"date":"2026-03-11","time":"4:00 PM","user_id":"Taha-9999"}`)
		assert.Equal(t, http.StatusCreated, w.Code)

		var result models.BookingResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, "Success", result.Status)
		assert.Equal(t, "Taha-9999", repo.grid["2026-03-11"]["4:00 PM"])
	})

	t.Run("double booking conflicts", func(t *testing.T) {
		repo := newFakeSlotRepo()
		repo.addDate("2026-03-11")
		r := appointmentRouter(repo)

		first := postBooking(t, r, `{"date":"2026-03-11","time":"4:00 PM","user_id":"Taha-9999"}`)
		assert.Equal(t, http.StatusCreated, first.Code)

		second := postBooking(t, r, `{"date":"2026-03-11","time":"4:00 PM","user_id":"Amir-1234"}`)
		assert.Equal(t, http.StatusConflict, second.Code)
		assert.Contains(t, second.Body.String(), "Slot already booked by Taha-9999.")
		// The original occupant is untouched.
		assert.Equal(t, "Taha-9999", repo.grid["2026-03-11"]["4:00 PM"])
	})

	t.Run("blacked-out slot conflicts", func(t *testing.T) {
		repo := newFakeSlotRepo()
		repo.addDate("2026-03-11")
		repo.grid["2026-03-11"]["4:00 PM"] = models.BlackoutMarker

		w := postBooking(t, appointmentRouter(repo),
			`{"date":"2026-03-11","time":"4:00 PM","user_id":"Taha-9999"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
		// The blackout marker survives the attempt.
		assert.Equal(t, models.BlackoutMarker, repo.grid["2026-03-11"]["4:00 PM"])
	})

	t.Run("unknown date", func(t *testing.T) {
		w := postBooking(t, appointmentRouter(newFakeSlotRepo()),
			`{"date":"2026-03-11","time":"4:00 PM","user_id":"Taha-9999"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Date 2026-03-11 not found.")
	})

	t.Run("missing fields", func(t *testing.T) {
		w := postBooking(t, appointmentRouter(newFakeSlotRepo()), `{"date":"2026-03-11"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("short user id", func(t *testing.T) {
		w := postBooking(t, appointmentRouter(newFakeSlotRepo()),
			`{"date":"2026-03-11","time":"4:00 PM","user_id":"ab"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
