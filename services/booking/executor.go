package booking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"washbot/models"

	"go.uber.org/zap"
)

// Executor validates tool arguments and runs them against the appointments
// API over HTTP. It may be configured with several candidate base addresses;
// each call attempts them in order and only reports a consolidated error once
// every candidate has failed.
type Executor struct {
	baseURLs []string
	client   *http.Client
	logger   *zap.Logger
}

// localFallbacks are always appended after the configured base address, so a
// misconfigured deployment still reaches a co-located appointments API.
var localFallbacks = []string{"http://127.0.0.1:5200", "http://localhost:5200"}

// NewExecutor builds an executor for the given base URL. The URL is trimmed of
// a trailing slash and of a trailing "/api" path segment.
func NewExecutor(baseURL string, logger *zap.Logger) *Executor {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	base = strings.TrimSuffix(base, "/api")

	urls := []string{}
	if base != "" {
		urls = append(urls, base)
	}
	for _, fb := range localFallbacks {
		if fb != base {
			urls = append(urls, fb)
		}
	}

	return &Executor{
		baseURLs: urls,
		client:   &http.Client{Timeout: 6 * time.Second},
		logger:   logger,
	}
}

// SafeExecute validates and runs a named tool. Every outcome, including an
// unexpected fault, resolves into a ToolResult; nothing propagates as an
// error to the caller.
func (e *Executor) SafeExecute(functionName string, args map[string]any) (result models.ToolResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("tool execution panic", zap.String("function", functionName), zap.Any("panic", r))
			result = models.ToolResult{
				Status:  models.ToolStatusExecutionError,
				Message: fmt.Sprintf("Function execution failed: %v", r),
			}
		}
	}()

	date, _ := args["date"].(string)
	timeLabel, _ := args["time"].(string)
	userID, _ := args["user_id"].(string)

	switch functionName {
	case models.ToolGetAvailableSlots:
		if errs := validateBookingParams(date, ""); len(errs) > 0 {
			return models.ToolResult{
				Status:  models.ToolStatusValidationError,
				Message: "Validation failed: " + strings.Join(errs, "; "),
			}
		}
		return e.getAvailableSlots(date)

	case models.ToolBookAppointmentSlot:
		if errs := validateBookingParams(date, timeLabel); len(errs) > 0 {
			return models.ToolResult{
				Status:  models.ToolStatusValidationError,
				Message: "Validation failed: " + strings.Join(errs, "; "),
			}
		}
		if len(userID) < 3 {
			return models.ToolResult{
				Status:  models.ToolStatusValidationError,
				Message: "User ID must be at least 3 characters long",
			}
		}
		return e.bookAppointmentSlot(date, timeLabel, userID)

	default:
		return models.ToolResult{
			Status:  models.ToolStatusExecutionError,
			Message: "Unknown function: " + functionName,
		}
	}
}

// getAvailableSlots queries GET /api/appointments/slots across the candidate
// base addresses.
func (e *Executor) getAvailableSlots(date string) models.ToolResult {
	var lastErr string
	for _, base := range e.baseURLs {
		endpoint := fmt.Sprintf("%s/api/appointments/slots?date=%s", base, url.QueryEscape(date))
		resp, err := e.client.Get(endpoint)
		if err != nil {
			lastErr = err.Error()
			continue
		}

		var records []struct {
			Time   string `json:"time"`
			Status string `json:"status"`
		}
		decodeErr := json.NewDecoder(resp.Body).Decode(&records)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Sprintf("unexpected status %d", resp.StatusCode)
			continue
		}
		if decodeErr != nil {
			lastErr = decodeErr.Error()
			continue
		}

		var available []string
		noSchedule := false
		for _, rec := range records {
			if rec.Status == models.SlotStatusAvailable {
				available = append(available, rec.Time)
			} else if strings.HasPrefix(rec.Status, "No schedule") {
				noSchedule = true
			}
		}

		if noSchedule {
			return models.ToolResult{
				Status:  models.ToolStatusNoSchedule,
				Message: "No schedule found for " + date,
			}
		}
		if len(available) == 0 {
			return models.ToolResult{
				Status:         models.ToolStatusNoSlots,
				AvailableSlots: []string{},
				Message:        "No available slots found for " + date,
			}
		}
		return models.ToolResult{
			Status:         models.ToolStatusSuccess,
			AvailableSlots: available,
			Message:        fmt.Sprintf("Available slots on %s: %s", date, strings.Join(available, ", ")),
		}
	}

	if lastErr == "" {
		lastErr = "Unknown error"
	}
	return models.ToolResult{
		Status:         models.ToolStatusError,
		AvailableSlots: []string{},
		Message:        "Failed to get slots: " + lastErr,
	}
}

// bookAppointmentSlot posts to /api/appointments/slots across the candidate
// base addresses. A 409 is a definitive conflict and stops the fallback walk.
func (e *Executor) bookAppointmentSlot(date, timeLabel, userID string) models.ToolResult {
	payload, _ := json.Marshal(models.BookingRequest{Date: date, Time: timeLabel, UserID: userID})

	var lastErr string
	for _, base := range e.baseURLs {
		resp, err := e.client.Post(base+"/api/appointments/slots", "application/json", bytes.NewReader(payload))
		if err != nil {
			lastErr = err.Error()
			continue
		}

		var body map[string]any
		if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr != nil {
			body = map[string]any{}
		}
		resp.Body.Close()

		status, _ := body["status"].(string)
		switch {
		case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated ||
			isBookedStatus(status):
			message, _ := body["message"].(string)
			if message == "" {
				message = fmt.Sprintf("Appointment confirmed for %s on %s", timeLabel, date)
			}
			return models.ToolResult{
				Status:         models.ToolStatusSuccess,
				Message:        message,
				BookingDetails: body,
			}
		case resp.StatusCode == http.StatusConflict:
			message, _ := body["message"].(string)
			if message == "" {
				message = fmt.Sprintf("Sorry, the %s slot on %s is already booked", timeLabel, date)
			}
			return models.ToolResult{
				Status:  models.ToolStatusAlreadyBooked,
				Message: message,
			}
		default:
			if message, ok := body["message"].(string); ok && message != "" {
				lastErr = message
			} else if errText, ok := body["error"].(string); ok && errText != "" {
				lastErr = errText
			} else {
				lastErr = fmt.Sprintf("unexpected status %d", resp.StatusCode)
			}
			continue
		}
	}

	if lastErr == "" {
		lastErr = "Unknown error"
	}
	return models.ToolResult{
		Status:  models.ToolStatusError,
		Message: "Booking failed: " + lastErr,
	}
}

func isBookedStatus(status string) bool {
	switch strings.ToLower(status) {
	case "success", "ok", "booked":
		return true
	}
	return false
}
