package rag

import (
	"context"
	"fmt"
	"strings"

	"washbot/models"
	"washbot/services/booking"
	"washbot/services/nlp"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

const apologyText = "I'm sorry, I ran into a problem while handling your booking request. Please try again."

// GenerateWithTools runs the tool-calling protocol for one turn. Every fault
// resolves into an apology ChatResult; callers never see an error value.
func (e *Engine) GenerateWithTools(ctx context.Context, userMessage, systemPrompt string, history []models.Turn, userID string) *models.ChatResult {
	// Fully-specified booking requests skip the model round trip entirely.
	if result, ok := e.directBooking(userMessage, userID); ok {
		return result
	}

	model := e.client.GenerativeModel(chatModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(bookingSystemPrompt(systemPrompt, userID))},
	}
	model.Tools = booking.BookingTools()

	cs := model.StartChat()
	cs.History = toContents(history)

	resp, err := cs.SendMessage(ctx, genai.Text(userMessage))
	if err != nil {
		e.logger.Error("tool-calling generation failed", zap.Error(err))
		return &models.ChatResult{Response: apologyText, Mode: models.ModeError}
	}

	out := parseResponse(resp)
	if out.FunctionCall == nil {
		return &models.ChatResult{Response: textOrFallback(out), Mode: models.ModeRegular}
	}

	fc := out.FunctionCall
	args := e.normalizeArgs(fc.Name, fc.Args, userID)
	result := e.executor.SafeExecute(fc.Name, args)

	if fc.Name == models.ToolGetAvailableSlots && result.Status == models.ToolStatusSuccess {
		if date, _ := args["date"].(string); date != "" {
			e.rememberSlotsDate(date)
		}
	}
	annotateBooking(fc.Name, &result, args)

	// Second phase closes the protocol, but the executor's own message is what
	// the user sees: the confirmation must match what was actually booked, and
	// failure explanations come from the same source.
	narration := e.summarizeToolRun(ctx, systemPrompt, userMessage, fc.Name, args, result)
	response := result.Message
	if strings.TrimSpace(response) == "" {
		response = narration
	}
	if uid, _ := args["user_id"].(string); uid != "" {
		response = collapseDoubledID(response, uid)
	}

	return &models.ChatResult{
		Response:   response,
		ToolUsed:   fc.Name,
		ToolResult: &result,
		Mode:       models.ModeToolCalling,
	}
}

// directBooking short-circuits when the message alone names a date, a time and
// a user id alongside booking intent. Only a confirmed booking skips the model
// round trip; any other outcome falls through to the full protocol.
func (e *Engine) directBooking(userMessage, userID string) (*models.ChatResult, bool) {
	if !nlp.HasBookingKeyword(userMessage) {
		return nil, false
	}
	date := nlp.ExtractDate(userMessage)
	timeLabel := nlp.ExtractTime(userMessage)
	uid := nlp.ExtractUserID(userMessage)
	if uid == "" {
		uid = userID
	}
	if date == "" || timeLabel == "" || uid == "" {
		return nil, false
	}

	e.logger.Info("direct booking short circuit",
		zap.String("date", date), zap.String("time", timeLabel))

	args := map[string]any{"date": date, "time": timeLabel, "user_id": uid}
	result := e.executor.SafeExecute(models.ToolBookAppointmentSlot, args)
	if result.Status != models.ToolStatusSuccess {
		return nil, false
	}
	annotateBooking(models.ToolBookAppointmentSlot, &result, args)
	return &models.ChatResult{
		Response:   collapseDoubledID(result.Message, uid),
		ToolUsed:   models.ToolBookAppointmentSlot,
		ToolResult: &result,
		Mode:       models.ModeToolCalling,
	}, true
}

// normalizeArgs canonicalizes model-produced arguments before execution. Dates
// and times go through the same normalization the chat surface applies; user
// ids pass through verbatim. A booking with no date inherits the date of the
// most recent slot lookup.
func (e *Engine) normalizeArgs(functionName string, raw map[string]any, userID string) map[string]any {
	args := map[string]any{}
	for k, v := range raw {
		args[k] = v
	}

	date, _ := args["date"].(string)
	if date == "" && functionName == models.ToolBookAppointmentSlot {
		date = e.recallSlotsDate()
	}
	if date != "" {
		args["date"] = nlp.NormalizeDate(date)
	}

	if functionName == models.ToolBookAppointmentSlot {
		if t, _ := args["time"].(string); t != "" {
			args["time"] = nlp.NormalizeTime(t)
		}
		if uid, _ := args["user_id"].(string); uid == "" && userID != "" {
			args["user_id"] = userID
		}
	}
	return args
}

// summarizeToolRun makes the second-phase call: the function-call and its
// result are replayed to a session without tool schemas to produce narration
// of the outcome. Used only when the result itself carries no message.
func (e *Engine) summarizeToolRun(ctx context.Context, systemPrompt, userMessage, functionName string, args map[string]any, result models.ToolResult) string {
	model := e.client.GenerativeModel(chatModel)
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	}

	cs := model.StartChat()
	cs.History = []*genai.Content{
		{Role: "user", Parts: []genai.Part{genai.Text(userMessage)}},
		{Role: "model", Parts: []genai.Part{genai.FunctionCall{Name: functionName, Args: args}}},
	}

	resp, err := cs.SendMessage(ctx, genai.FunctionResponse{
		Name:     functionName,
		Response: result.AsMap(),
	})
	if err != nil {
		e.logger.Warn("tool summary generation failed, surfacing raw result", zap.Error(err))
		return result.Message
	}

	out := parseResponse(resp)
	if strings.TrimSpace(out.Text) == "" {
		return result.Message
	}
	return out.Text
}

// annotateBooking copies the executed booking arguments into the result's
// details, so downstream consumers can see which slot was taken without
// re-parsing the message.
func annotateBooking(functionName string, result *models.ToolResult, args map[string]any) {
	if functionName != models.ToolBookAppointmentSlot || result.Status != models.ToolStatusSuccess {
		return
	}
	if result.BookingDetails == nil {
		result.BookingDetails = map[string]any{}
	}
	for _, k := range []string{"date", "time", "user_id"} {
		if _, present := result.BookingDetails[k]; !present {
			result.BookingDetails[k] = args[k]
		}
	}
}

// collapseDoubledID folds an immediately repeated user id in confirmation text
// down to a single mention.
func collapseDoubledID(text, userID string) string {
	if userID == "" {
		return text
	}
	doubled := fmt.Sprintf("%s %s", userID, userID)
	return strings.ReplaceAll(text, doubled, userID)
}
