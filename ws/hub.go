// Package ws serves the streaming chat channel: one WebSocket connection per
// session, JSON frames both ways, strictly sequential turn handling.
package ws

import (
	"fmt"
	"sync"

	"washbot/models"
)

// Hub tracks live sessions so background work can reach them.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewHub() *Hub {
	return &Hub{sessions: map[string]*Session{}}
}

func (h *Hub) add(s *Session) {
	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()
}

func (h *Hub) get(id string) *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sessions[id]
}

// NotifyReminder pushes an appointment reminder frame to the session that
// booked it, when that session is still connected.
func (h *Hub) NotifyReminder(payload models.ReminderPayload) bool {
	s := h.get(payload.SessionID)
	if s == nil {
		return false
	}
	err := s.send(models.ServerFrame{
		Type: models.FrameReminder,
		Message: fmt.Sprintf("Reminder: your appointment on %s at %s is coming up.",
			payload.Date, payload.Time),
	})
	return err == nil
}
