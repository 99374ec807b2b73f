package realtime

import (
	"net/http"

	"github.com/MichelleArumemi/EmployeeMS/internal/identity"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/apperror"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHandler accepts browser origins listed in allowedOrigins; an empty list accepts any origin.
func NewHandler(hub *Hub, allowedOrigins []string, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("realtime.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("realtime.handler")
	}

	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &Handler{
		hub:    hub,
		logger: l,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if len(allowed) == 0 || origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Serve upgrades an authenticated request and joins the caller's channels.
// It blocks until the connection closes.
func (h *Handler) Serve(c *gin.Context) {
	principal, ok := identity.FromGin(c)
	if !ok || !principal.Authenticated() {
		response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, apperror.ErrUnauthorized.Message, nil)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	activeConnections.Inc()
	defer activeConnections.Dec()

	client := newClient(h.hub, conn, principal, h.logger)
	channels := client.channels()
	for _, ch := range channels {
		h.hub.Subscribe(ch, client)
	}
	client.logger.Debug("realtime client connected", zap.Strings("channels", channels))

	client.deliverEvent(NewEvent(EventConnected, gin.H{
		"connection_id": client.ID(),
		"channels":      channels,
	}))

	go client.writePump()
	client.readPump()
}
