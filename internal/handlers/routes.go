package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/codebuildervaibhav/podcast-transcript/internal/session"
	"github.com/codebuildervaibhav/podcast-transcript/internal/web"
)

// Version is reported by /health
const Version = "1.0.0"

// Deps are the components the routes need
type Deps struct {
	Store         *session.Store
	Logs          func() []string
	MaxFileSizeMB int
	Model         string
	Logger        *zap.Logger
}

// Mount registers every route on app
func Mount(app *fiber.App, d Deps) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	uploadHandler := NewUploadHandler(d.MaxFileSizeMB, logger.Named("upload"))
	streamHandler := NewStreamHandler(logger.Named("stream"))

	// Session-less routes first; the session middleware below never runs for them
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"version":  Version,
			"sessions": d.Store.Len(),
		})
	})
	app.Get("/logs", func(c *fiber.Ctx) error {
		var logs []string
		if d.Logs != nil {
			logs = d.Logs()
		}
		return c.JSON(fiber.Map{
			"logs": logs,
		})
	})

	app.Use(SessionMiddleware(d.Store))

	app.Get("/", web.Index(d.Model))

	api := app.Group("/api")
	api.Get("/state", State)
	api.Post("/file", uploadHandler.Handle)
	api.Delete("/file", uploadHandler.Clear)
	api.Post("/transcribe", Transcribe)
	api.Post("/transcript/copy", Copy)
	api.Get("/transcript/download", Download)

	app.Use("/ws", streamHandler.Upgrade)
	app.Get("/ws/state", websocket.New(streamHandler.Handle))
}
