package rag

import (
	"context"
	"testing"

	"washbot/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// stubExecutor records calls and replies with a fixed result.
type stubExecutor struct {
	result models.ToolResult
	names  []string
	args   []map[string]any
}

func (s *stubExecutor) SafeExecute(functionName string, args map[string]any) models.ToolResult {
	s.names = append(s.names, functionName)
	s.args = append(s.args, args)
	return s.result
}

func TestDirectBooking(t *testing.T) {
	t.Run("confirmed booking skips the model round trip", func(t *testing.T) {
		exec := &stubExecutor{result: models.ToolResult{
			Status:  models.ToolStatusSuccess,
			Message: "Slot booked for Taha-9999 Taha-9999 on 2026-03-11 at 4:00 PM.",
		}}
		e := &Engine{executor: exec, logger: zap.NewNop()}

		result := e.GenerateWithTools(context.Background(),
			"Book me in for 2026-03-11 at 4:00 PM, user id: Taha-9999", "", nil, "")

		assert.Equal(t, "Slot booked for Taha-9999 on 2026-03-11 at 4:00 PM.", result.Response)
		assert.Equal(t, models.ToolBookAppointmentSlot, result.ToolUsed)
		assert.Equal(t, models.ModeToolCalling, result.Mode)
		if assert.NotNil(t, result.ToolResult) {
			assert.Equal(t, "2026-03-11", result.ToolResult.BookingDetails["date"])
			assert.Equal(t, "4:00 PM", result.ToolResult.BookingDetails["time"])
			assert.Equal(t, "Taha-9999", result.ToolResult.BookingDetails["user_id"])
		}
		if assert.Len(t, exec.args, 1) {
			assert.Equal(t, models.ToolBookAppointmentSlot, exec.names[0])
			assert.Equal(t, "2026-03-11", exec.args[0]["date"])
			assert.Equal(t, "4:00 PM", exec.args[0]["time"])
			assert.Equal(t, "Taha-9999", exec.args[0]["user_id"])
		}
	})

	t.Run("non-success outcome falls through", func(t *testing.T) {
		exec := &stubExecutor{result: models.ToolResult{
			Status:  models.ToolStatusAlreadyBooked,
			Message: "That slot is already booked.",
		}}
		e := &Engine{executor: exec, logger: zap.NewNop()}

		result, ok := e.directBooking("Book me in for 2026-03-11 at 4:00 PM, user id: Taha-9999", "")
		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Len(t, exec.names, 1)
	})

	t.Run("schedule phrasing also short-circuits", func(t *testing.T) {
		exec := &stubExecutor{result: models.ToolResult{
			Status:  models.ToolStatusSuccess,
			Message: "Slot booked.",
		}}
		e := &Engine{executor: exec, logger: zap.NewNop()}

		result, ok := e.directBooking("Schedule a wash tomorrow at 4pm, user id: Taha-9999", "")
		assert.True(t, ok)
		assert.Equal(t, models.ModeToolCalling, result.Mode)
		if assert.Len(t, exec.args, 1) {
			assert.Equal(t, "4:00 PM", exec.args[0]["time"])
			assert.NotEmpty(t, exec.args[0]["date"])
		}
	})

	t.Run("incomplete message never reaches the executor", func(t *testing.T) {
		exec := &stubExecutor{result: models.ToolResult{Status: models.ToolStatusSuccess}}
		e := &Engine{executor: exec, logger: zap.NewNop()}

		result, ok := e.directBooking("Book me in for tomorrow, user id: Taha-9999", "")
		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Empty(t, exec.names)
	})

	t.Run("no booking vocabulary skips the pre-check", func(t *testing.T) {
		exec := &stubExecutor{result: models.ToolResult{Status: models.ToolStatusSuccess}}
		e := &Engine{executor: exec, logger: zap.NewNop()}

		_, ok := e.directBooking("2026-03-11 at 4:00 PM, user id: Taha-9999", "")
		assert.False(t, ok)
		assert.Empty(t, exec.names)
	})
}

func TestNormalizeArgs(t *testing.T) {
	e := &Engine{}

	t.Run("normalizes date and time for booking", func(t *testing.T) {
		args := e.normalizeArgs(models.ToolBookAppointmentSlot, map[string]any{
			"date":    "2026-03-11",
			"time":    "16:00",
			"user_id": "Taha-9999",
		}, "")
		assert.Equal(t, "2026-03-11", args["date"])
		assert.Equal(t, "4:00 PM", args["time"])
		assert.Equal(t, "Taha-9999", args["user_id"])
	})

	t.Run("missing booking date falls back to the last lookup", func(t *testing.T) {
		e := &Engine{}
		e.rememberSlotsDate("2026-03-12")

		args := e.normalizeArgs(models.ToolBookAppointmentSlot, map[string]any{
			"time":    "4:00 PM",
			"user_id": "Taha-9999",
		}, "")
		assert.Equal(t, "2026-03-12", args["date"])
	})

	t.Run("missing user id falls back to the session user", func(t *testing.T) {
		args := e.normalizeArgs(models.ToolBookAppointmentSlot, map[string]any{
			"date": "2026-03-11",
			"time": "4:00 PM",
		}, "Amir-1234")
		assert.Equal(t, "Amir-1234", args["user_id"])
	})

	t.Run("explicit user id is never overridden", func(t *testing.T) {
		args := e.normalizeArgs(models.ToolBookAppointmentSlot, map[string]any{
			"date":    "2026-03-11",
			"time":    "4:00 PM",
			"user_id": "Taha-9999",
		}, "Amir-1234")
		assert.Equal(t, "Taha-9999", args["user_id"])
	})

	t.Run("slot lookup does not inherit a stale date", func(t *testing.T) {
		e := &Engine{}
		e.rememberSlotsDate("2026-03-12")

		args := e.normalizeArgs(models.ToolGetAvailableSlots, map[string]any{}, "")
		_, present := args["date"]
		assert.False(t, present)
	})
}

func TestAnnotateBooking(t *testing.T) {
	args := map[string]any{"date": "2026-03-11", "time": "4:00 PM", "user_id": "Taha-9999"}

	t.Run("successful booking gains slot details", func(t *testing.T) {
		result := models.ToolResult{Status: models.ToolStatusSuccess, Message: "booked"}
		annotateBooking(models.ToolBookAppointmentSlot, &result, args)
		assert.Equal(t, "2026-03-11", result.BookingDetails["date"])
		assert.Equal(t, "4:00 PM", result.BookingDetails["time"])
		assert.Equal(t, "Taha-9999", result.BookingDetails["user_id"])
	})

	t.Run("failed booking is left alone", func(t *testing.T) {
		result := models.ToolResult{Status: models.ToolStatusAlreadyBooked}
		annotateBooking(models.ToolBookAppointmentSlot, &result, args)
		assert.Nil(t, result.BookingDetails)
	})

	t.Run("slot lookup is left alone", func(t *testing.T) {
		result := models.ToolResult{Status: models.ToolStatusSuccess}
		annotateBooking(models.ToolGetAvailableSlots, &result, args)
		assert.Nil(t, result.BookingDetails)
	})

	t.Run("existing details are preserved", func(t *testing.T) {
		result := models.ToolResult{
			Status:         models.ToolStatusSuccess,
			BookingDetails: map[string]any{"date": "kept"},
		}
		annotateBooking(models.ToolBookAppointmentSlot, &result, args)
		assert.Equal(t, "kept", result.BookingDetails["date"])
		assert.Equal(t, "4:00 PM", result.BookingDetails["time"])
	})
}

func TestCollapseDoubledID(t *testing.T) {
	assert.Equal(t,
		"Slot booked for Taha-9999.",
		collapseDoubledID("Slot booked for Taha-9999 Taha-9999.", "Taha-9999"))
	assert.Equal(t, "Slot booked for Taha-9999.",
		collapseDoubledID("Slot booked for Taha-9999.", "Taha-9999"))
	assert.Equal(t, "unchanged", collapseDoubledID("unchanged", ""))
}

func TestBookingSystemPrompt(t *testing.T) {
	p := bookingSystemPrompt("Be helpful.", "Taha-9999")
	assert.Contains(t, p, "Be helpful.")
	assert.Contains(t, p, "Current user ID: Taha-9999")

	assert.Contains(t, bookingSystemPrompt("x", ""), "Current user ID: guest")
}
