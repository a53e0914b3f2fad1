// Package broadcast implements the BroadcastSink contract detections reach
// after the core's OcrCallback has published them to NATS and the detection
// consumer has read them back: a WebSocket fan-out, adapted from the
// teacher's internal/api/ws/hub.go (camera_id takes the place of stream_id;
// no face/match fields).
package broadcast

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/your-org/platerecon/internal/models"
	"github.com/your-org/platerecon/internal/observability"
	"github.com/your-org/platerecon/pkg/dto"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// client is one connected WebSocket consumer, optionally filtered to a
// single camera.
type client struct {
	conn     *websocket.Conn
	send     chan []byte
	cameraID string
}

// Hub maintains active WebSocket clients and fans detection/status events
// out to them. It satisfies the core's BroadcastSink role: pipelines never
// talk to Hub directly; the detection consumer in cmd/platerecon does.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
}

// NewHub returns a Hub; call Run in a goroutine before serving HandleWS.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run is the hub's single event loop. It never returns; typically launched
// once in its own goroutine at process startup.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			observability.WSConnections.Inc()

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			observability.WSConnections.Dec()

		case message := <-h.broadcast:
			h.dispatch(message)
		}
	}
}

func (h *Hub) dispatch(message []byte) {
	var evt dto.WSEvent
	hasCameraID := json.Unmarshal(message, &evt) == nil

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.cameraID != "" && hasCameraID && evt.CameraID != c.cameraID {
			continue
		}
		select {
		case c.send <- message:
		default:
			slog.Warn("ws client send buffer full, dropping client")
			go func(c *client) { h.unregister <- c }(c)
		}
	}
}

// PublishDetection marshals det as a WSEvent and fans it out. Its signature
// matches OcrCallback; cmd/platerecon calls it from the detection consumer.
func (h *Hub) PublishDetection(det models.Detection) error {
	evt := dto.WSEvent{
		Type:     "plate_detected",
		CameraID: det.CameraID,
		Data: dto.DetectionResponse{
			CameraID:   det.CameraID,
			Plate:      det.Plate,
			Confidence: det.Confidence,
			Engine:     string(det.Engine),
			Timestamp:  det.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
		},
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	h.broadcast <- data
	return nil
}

// HandleWS upgrades the connection and registers a client, optionally
// filtered by the ?camera_id= query parameter.
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("ws upgrade failed", "error", err)
		return
	}

	cl := &client{
		conn:     conn,
		send:     make(chan []byte, 64),
		cameraID: c.Query("camera_id"),
	}

	h.register <- cl

	go cl.writePump()
	go cl.readPump(h)
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
