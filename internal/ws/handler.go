package ws

import (
	"net/http"
	"time"

	"github.com/filescope/filescope/internal/infrastructure/monitoring"
	"github.com/filescope/filescope/internal/logging"
	"github.com/filescope/filescope/internal/shared/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

const writeTimeout = 10 * time.Second

// Handler manages WebSocket connections
type Handler struct {
	hub     *Hub
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handler{hub: hub, log: log}
}

// WithMetrics attaches connection tracking
func (h *Handler) WithMetrics(m *monitoring.Metrics) *Handler {
	h.metrics = m
	return h
}

// HandleConnection upgrades the request and forwards hub events until
// the client goes away.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	events, cancel := h.hub.Subscribe()
	defer cancel()

	h.send(conn, map[string]interface{}{
		"type":      "system",
		"message":   "connected",
		"client_id": uuid.NewString(),
	})

	// Reader drains client messages; anything but ping is ignored. The
	// read loop also notices the close handshake. Pings are forwarded to
	// the write loop so the connection only ever has one writer.
	done := make(chan struct{})
	pings := make(chan struct{}, 1)
	go func() {
		defer close(done)
		for {
			var msg types.WSMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if msg.Type == "ping" {
				select {
				case pings <- struct{}{}:
				default:
				}
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := h.send(conn, ev); err != nil {
				return
			}
		case <-pings:
			if err := h.send(conn, map[string]interface{}{"type": "pong"}); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, data interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(data)
}
