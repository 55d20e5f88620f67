package ws

import (
	"sync"

	"washbot/models"

	"github.com/gorilla/websocket"
)

// Session is one connected streaming client and its rolling conversation
// state. Frames on a session are handled strictly in arrival order; the write
// lock only guards against background pushes interleaving with turn output.
type Session struct {
	ID           string
	conn         *websocket.Conn
	systemPrompt string
	userID       string
	history      []models.Turn

	writeMu sync.Mutex
}

func (s *Session) send(frame models.ServerFrame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(frame)
}

func (s *Session) sendError(messageID, message string) {
	_ = s.send(models.ServerFrame{
		Type:      models.FrameError,
		MessageID: messageID,
		Message:   message,
	})
}

// remember appends a completed exchange to the session history.
func (s *Session) remember(userText, modelText string) {
	s.history = append(s.history,
		models.Turn{Role: "user", Text: userText},
		models.Turn{Role: "model", Text: modelText},
	)
}
