package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/codebuildervaibhav/podcast-transcript/internal/session"
)

// Inbound control messages on the state socket
const (
	msgDragEnter = "dragenter"
	msgDragLeave = "dragleave"
)

// StreamHandler pushes view model snapshots over a WebSocket
type StreamHandler struct {
	logger *zap.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(logger *zap.Logger) *StreamHandler {
	return &StreamHandler{
		logger: logger,
	}
}

// Upgrade rejects plain HTTP requests on WebSocket routes
func (h *StreamHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handle streams every transition of the caller's shell until the socket
// closes or the shell is evicted. Closing the socket on eviction makes the
// page reconnect and pick up its new session.
func (h *StreamHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	shell, ok := c.Locals(localsShell).(*session.Shell)
	if !ok {
		return
	}
	log := h.logger.With(zap.String("session_id", shell.ID()))
	log.Debug("websocket connection established")

	// holds only the newest snapshot; older ones are superseded
	updates := make(chan session.Snapshot, 1)
	cancel := shell.Subscribe(func(snap session.Snapshot) {
		select {
		case updates <- snap:
		default:
			select {
			case <-updates:
			default:
			}
			updates <- snap
		}
	})
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			messageType, message, err := c.ReadMessage()
			if err != nil {
				return
			}
			if messageType != websocket.TextMessage {
				continue
			}
			switch string(message) {
			case msgDragEnter:
				shell.DragEnter()
			case msgDragLeave:
				shell.DragLeave()
			}
		}
	}()

	for {
		select {
		case snap := <-updates:
			if err := c.WriteJSON(snap); err != nil {
				log.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-done:
			log.Debug("websocket connection closed")
			return
		case <-shell.Done():
			log.Debug("session closed, dropping websocket")
			return
		}
	}
}
