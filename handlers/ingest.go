package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"washbot/services/knowledge"
	"washbot/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IngestHandler serves the knowledge-base management surface.
type IngestHandler struct {
	Store    knowledge.Store
	Ingestor *knowledge.Ingestor
}

func NewIngestHandler(store knowledge.Store, ingestor *knowledge.Ingestor) *IngestHandler {
	return &IngestHandler{Store: store, Ingestor: ingestor}
}

type ingestBody struct {
	TextEntries []knowledge.TextEntry `json:"text_entries"`
	LinkEntries []knowledge.LinkEntry `json:"link_entries"`
}

// IngestAll handles POST /ingest/all. It accepts either a JSON body or a
// multipart form carrying files plus JSON-encoded entry lists. Each call
// replaces the knowledge base wholesale rather than appending to it.
func (h *IngestHandler) IngestAll(c *gin.Context) {
	var body ingestBody
	var docs []knowledge.Document

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid multipart form.", err.Error())
			return
		}
		if raw := c.PostForm("text_entries"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &body.TextEntries); err != nil {
				utils.JSONError(c, http.StatusBadRequest, "Invalid 'text_entries' JSON.", err.Error())
				return
			}
		}
		if raw := c.PostForm("link_entries"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &body.LinkEntries); err != nil {
				utils.JSONError(c, http.StatusBadRequest, "Invalid 'link_entries' JSON.", err.Error())
				return
			}
		}
		fileDocs, err := h.Ingestor.ProcessFiles(form.File["files"])
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Failed to read uploaded files.", err.Error())
			return
		}
		docs = append(docs, fileDocs...)
	} else if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body.", err.Error())
		return
	}

	textDocs, err := h.Ingestor.ProcessTextEntries(body.TextEntries)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid text entries.", err.Error())
		return
	}
	docs = append(docs, textDocs...)

	linkDocs, err := h.Ingestor.ProcessLinkEntries(body.LinkEntries)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid link entries.", err.Error())
		return
	}
	docs = append(docs, linkDocs...)

	if len(docs) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No new data found to process."})
		return
	}

	ctx := c.Request.Context()
	if err := h.Store.Reset(ctx); err != nil {
		utils.GetLogger().Error("knowledge reset failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to clear existing knowledge base.", err.Error())
		return
	}

	chunks, err := h.Store.Add(ctx, docs)
	if err != nil {
		utils.GetLogger().Error("knowledge ingestion failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to ingest documents.", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Successfully processed %d document(s) into %d chunk(s).", len(docs), chunks),
		"chunks":  chunks,
	})
}

// Reset handles POST /ingest/reset. Resetting an empty knowledge base is a
// no-op and still reports success.
func (h *IngestHandler) Reset(c *gin.Context) {
	if err := h.Store.Reset(c.Request.Context()); err != nil {
		utils.GetLogger().Error("knowledge reset failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to reset knowledge base.", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Knowledge base cleared."})
}
