package websocket

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/sysneld1/dialogue-generator/internal/gpu"
	"github.com/sysneld1/dialogue-generator/internal/logger"
	"github.com/sysneld1/dialogue-generator/internal/wire"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Single-operator demo, allow all origins
	},
}

// StatusServer is a plain WebSocket feed (not Socket.IO) that streams
// gpu_status payloads to clients that only want the monitor, such as CLI
// dashboards.
type StatusServer struct {
	sampler gpu.Sampler

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewStatusServer creates an empty status feed.
func NewStatusServer(sampler gpu.Sampler) *StatusServer {
	return &StatusServer{
		sampler: sampler,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Handle upgrades the connection, sends one immediate status snapshot and
// keeps the client registered for broadcasts until it disconnects.
func (s *StatusServer) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnf("status feed upgrade error: %v", err)
		return
	}

	status := gpu.Snapshot(context.Background(), s.sampler)
	if err := conn.WriteJSON(statusPayload(status)); err != nil {
		conn.Close()
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	logger.Debugf("status feed client connected (%s)", conn.RemoteAddr())

	// The feed is write-only; the read loop only detects disconnects.
	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends the status to every connected feed client, dropping
// clients whose writes fail.
func (s *StatusServer) Broadcast(status gpu.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		if err := conn.WriteJSON(statusPayload(status)); err != nil {
			logger.Debugf("status feed write failed (%s): %v", conn.RemoteAddr(), err)
			delete(s.clients, conn)
			conn.Close()
		}
	}
}

func (s *StatusServer) drop(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		conn.Close()
		logger.Debugf("status feed client disconnected (%s)", conn.RemoteAddr())
	}
}

func statusPayload(status gpu.Status) wire.GpuStatusPayload {
	return wire.GpuStatusPayload{
		Status:  string(status),
		Message: status.Message(),
	}
}
