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

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRAGService records which generation path a request took.
type fakeRAGService struct {
	loaded      bool
	generateErr error

	lastPlainMessage string
	lastToolsMessage string
	lastUserID       string
}

func (f *fakeRAGService) Generate(ctx context.Context, userMessage, systemPrompt string, history []models.Turn) (*models.ChatResult, error) {
	f.lastPlainMessage = userMessage
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	mode := models.ModeBaseLLM
	if f.loaded {
		mode = models.ModeRAG
	}
	return &models.ChatResult{Response: "plain answer", Mode: mode}, nil
}

func (f *fakeRAGService) GenerateStream(ctx context.Context, userMessage, systemPrompt string, history []models.Turn, onDelta func(string)) (*models.ChatResult, error) {
	result, err := f.Generate(ctx, userMessage, systemPrompt, history)
	if err != nil {
		return nil, err
	}
	onDelta(result.Response)
	return result, nil
}

func (f *fakeRAGService) GenerateWithTools(ctx context.Context, userMessage, systemPrompt string, history []models.Turn, userID string) *models.ChatResult {
	f.lastToolsMessage = userMessage
	f.lastUserID = userID
	return &models.ChatResult{Response: "tools answer", Mode: models.ModeToolCalling}
}

func (f *fakeRAGService) KnowledgeLoaded() bool { return f.loaded }

func chatRouter(svc *fakeRAGService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/chat", NewChatHandler(svc).Chat)
	return r
}

func postChat(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestChatHandler(t *testing.T) {
	t.Run("missing userMessage", func(t *testing.T) {
		w := postChat(t, chatRouter(&fakeRAGService{}), `{"history":[]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("general question takes the plain path", func(t *testing.T) {
		svc := &fakeRAGService{}
		w := postChat(t, chatRouter(svc), `{"userMessage":"what services do you offer?"}`)
		assert.Equal(t, http.StatusOK, w.Code)

		var result models.ChatResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, "plain answer", result.Response)
		assert.Equal(t, models.ModeBaseLLM, result.Mode)
		assert.Empty(t, svc.lastToolsMessage)
	})

	t.Run("mode reflects a loaded knowledge base", func(t *testing.T) {
		svc := &fakeRAGService{loaded: true}
		w := postChat(t, chatRouter(svc), `{"userMessage":"what services do you offer?"}`)
		assert.Equal(t, http.StatusOK, w.Code)

		var result models.ChatResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, models.ModeRAG, result.Mode)
	})

	t.Run("booking intent with a date takes the tools path", func(t *testing.T) {
		svc := &fakeRAGService{}
		w := postChat(t, chatRouter(svc),
			`{"userMessage":"book me a wash on 2026-03-11","user_id":"Taha-9999"}`)
		assert.Equal(t, http.StatusOK, w.Code)

		var result models.ChatResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, "tools answer", result.Response)
		assert.Equal(t, models.ModeToolCalling, result.Mode)
		assert.Equal(t, "Taha-9999", svc.lastUserID)
		assert.Empty(t, svc.lastPlainMessage)
	})

	t.Run("relative dates are normalized before routing", func(t *testing.T) {
		svc := &fakeRAGService{}
		w := postChat(t, chatRouter(svc), `{"userMessage":"book me a wash tomorrow"}`)
		assert.Equal(t, http.StatusOK, w.Code)

		// "tomorrow" both triggered the tools path and arrived as an ISO date.
		require.NotEmpty(t, svc.lastToolsMessage)
		assert.NotContains(t, svc.lastToolsMessage, "tomorrow")
		assert.Regexp(t, `\d{4}-\d{2}-\d{2}`, svc.lastToolsMessage)
	})

	t.Run("generation failure maps to 500", func(t *testing.T) {
		svc := &fakeRAGService{generateErr: fmt.Errorf("upstream unavailable")}
		w := postChat(t, chatRouter(svc), `{"userMessage":"hello"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
