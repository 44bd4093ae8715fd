package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/taskdeck/taskdeck/internal/auth/token"
	"github.com/taskdeck/taskdeck/internal/common/errors"
	"github.com/taskdeck/taskdeck/internal/common/httpmw"
	"github.com/taskdeck/taskdeck/internal/common/logger"
)

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler handles WebSocket connections
type Handler struct {
	hub    *Hub
	tokens *token.Manager
	logger *logger.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, tokens *token.Manager, log *logger.Logger) *Handler {
	return &Handler{
		hub:    hub,
		tokens: tokens,
		logger: log.WithFields(zap.String("component", "ws_handler")),
	}
}

// HandleConnection authenticates the caller, upgrades the connection, and
// starts the read and write pumps. The token is taken from the `token` query
// parameter since browsers cannot set headers on WebSocket upgrades.
func (h *Handler) HandleConnection(c *gin.Context) {
	userID := httpmw.UserID(c)
	if userID == "" {
		tok := c.Query("token")
		if tok == "" {
			httpmw.RespondError(c, h.logger, errors.Unauthorized("missing token"))
			return
		}
		verified, err := h.tokens.Verify(tok)
		if err != nil {
			httpmw.RespondError(c, h.logger, errors.Unauthorized("invalid or expired token"))
			return
		}
		userID = verified
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", zap.Error(err))
		return
	}

	clientID := uuid.New().String()
	h.logger.Debug("WebSocket connection established",
		zap.String("client_id", clientID),
		zap.String("user_id", userID),
		zap.String("remote_addr", c.Request.RemoteAddr),
	)

	client := NewClient(clientID, userID, conn, h.hub, h.logger)
	h.hub.Register(client)

	go client.WritePump()
	client.ReadPump()
}
