package ws

import (
	"context"
	"net/http"

	"washbot/config"
	"washbot/models"
	"washbot/services/nlp"
	"washbot/services/rag"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ReminderScheduler is the slice of the task scheduler the channel needs.
type ReminderScheduler interface {
	ScheduleAppointmentReminder(payload models.ReminderPayload) error
}

// Server is the streaming chat endpoint.
type Server struct {
	hub       *Hub
	service   rag.Service
	scheduler ReminderScheduler
	logger    *zap.Logger
	upgrader  websocket.Upgrader
}

func NewServer(hub *Hub, service rag.Service, scheduler ReminderScheduler, logger *zap.Logger) *Server {
	allowed := map[string]bool{}
	for _, origin := range config.AllowedOriginList() {
		allowed[origin] = true
	}

	return &Server{
		hub:       hub,
		service:   service,
		scheduler: scheduler,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Non-browser clients send no Origin header.
				if origin == "" || !config.IsProduction() {
					return true
				}
				return allowed[origin]
			},
		},
	}
}

// Run blocks serving the streaming channel on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleConn)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	s.logger.Info("streaming channel listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleConn(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	session := &Session{ID: uuid.NewString(), conn: conn}
	s.hub.add(session)
	defer func() {
		s.hub.remove(session.ID)
		conn.Close()
	}()

	s.logger.Info("session connected", zap.String("sessionId", session.ID))

	for {
		var frame models.ClientFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("session read failed", zap.String("sessionId", session.ID), zap.Error(err))
			}
			return
		}

		switch frame.Type {
		case models.FrameSessionStart:
			session.systemPrompt = frame.SystemPrompt
			session.userID = frame.UserID
			if frame.History != nil {
				session.history = frame.History
			}
			_ = session.send(models.ServerFrame{
				Type:    models.FrameSessionAck,
				Message: session.ID,
			})

		case models.FrameUserMessage:
			// Turns run inline so a session never interleaves its own replies.
			s.handleUserMessage(r.Context(), session, frame)

		default:
			session.sendError(frame.MessageID, "Unknown frame type: "+frame.Type)
		}
	}
}

func (s *Server) handleUserMessage(ctx context.Context, session *Session, frame models.ClientFrame) {
	if frame.Text == "" {
		session.sendError(frame.MessageID, "Empty 'text' in user_message frame.")
		return
	}
	if frame.UserID != "" {
		session.userID = frame.UserID
	}
	if frame.History != nil {
		session.history = frame.History
	}

	message := nlp.NormalizeRelativeDates(frame.Text)

	if nlp.ShouldEnableTools(message, session.history) {
		// Tool turns are not streamed; partial output could reveal a booking
		// that the executor then refuses.
		result := s.service.GenerateWithTools(ctx, message, session.systemPrompt, session.history, session.userID)
		_ = session.send(models.ServerFrame{
			Type:       models.FrameModelDone,
			MessageID:  frame.MessageID,
			Response:   result.Response,
			ToolUsed:   result.ToolUsed,
			ToolResult: result.ToolResult,
			Mode:       result.Mode,
		})
		session.remember(frame.Text, result.Response)
		s.maybeScheduleReminder(session, result)
		return
	}

	result, err := s.service.GenerateStream(ctx, message, session.systemPrompt, session.history, func(delta string) {
		_ = session.send(models.ServerFrame{
			Type:      models.FrameModelChunk,
			MessageID: frame.MessageID,
			Delta:     delta,
		})
	})
	if err != nil {
		s.logger.Error("stream generation failed", zap.String("sessionId", session.ID), zap.Error(err))
		session.sendError(frame.MessageID, "Failed to generate a response.")
		return
	}

	_ = session.send(models.ServerFrame{
		Type:      models.FrameModelDone,
		MessageID: frame.MessageID,
		Response:  result.Response,
		Mode:      result.Mode,
	})
	session.remember(frame.Text, result.Response)
}

// maybeScheduleReminder enqueues an appointment reminder after a confirmed
// booking on this session.
func (s *Server) maybeScheduleReminder(session *Session, result *models.ChatResult) {
	if s.scheduler == nil || result.ToolUsed != models.ToolBookAppointmentSlot {
		return
	}
	tr := result.ToolResult
	if tr == nil || tr.Status != models.ToolStatusSuccess || tr.BookingDetails == nil {
		return
	}

	date, _ := tr.BookingDetails["date"].(string)
	timeLabel, _ := tr.BookingDetails["time"].(string)
	userID, _ := tr.BookingDetails["user_id"].(string)
	if date == "" || timeLabel == "" {
		return
	}

	payload := models.ReminderPayload{
		SessionID: session.ID,
		UserID:    userID,
		Date:      date,
		Time:      timeLabel,
	}
	if err := s.scheduler.ScheduleAppointmentReminder(payload); err != nil {
		s.logger.Warn("failed to schedule reminder", zap.Error(err))
	}
}
