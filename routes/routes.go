package routes

import (
	"net/http"
	"time"

	"washbot/config"
	"washbot/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle collects the handlers the router wires up.
type HandlerBundle struct {
	Appointments *handlers.AppointmentHandler
	Chat         *handlers.ChatHandler
	Ingest       *handlers.IngestHandler
}

// RegisterAppointmentRoutes registers the slot-store endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.GET("/slots", hb.Appointments.GetSlotsHandler)
		api.POST("/slots", hb.Appointments.BookSlotHandler)
	}
}

// RegisterChatRoutes registers the request/response chat endpoint.
func RegisterChatRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.POST("/chat", hb.Chat.Chat)
}

// RegisterIngestRoutes registers knowledge-base management endpoints.
func RegisterIngestRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/ingest")
	{
		api.POST("/all", hb.Ingest.IngestAll)
		api.POST("/reset", hb.Ingest.Reset)
	}
}

// RegisterVoiceRoutes registers the speech endpoints.
func RegisterVoiceRoutes(r *gin.Engine) {
	api := r.Group("/voice")
	{
		api.POST("/stt", handlers.TranscribeHandler)
		api.POST("/tts", handlers.SynthesizeHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Washbot"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AllowedOriginList(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAppointmentRoutes(r, hb)
	RegisterChatRoutes(r, hb)
	RegisterIngestRoutes(r, hb)
	RegisterVoiceRoutes(r)
}
