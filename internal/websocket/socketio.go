// Package websocket exposes the dialog server's realtime surface: the
// Socket.IO endpoint driving dialog runs and a plain WebSocket status feed.
package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	socket "github.com/zishang520/socket.io/servers/socket/v3"
	sockettypes "github.com/zishang520/socket.io/v3/pkg/types"

	"github.com/sysneld1/dialogue-generator/internal/dialog"
	"github.com/sysneld1/dialogue-generator/internal/gpu"
	"github.com/sysneld1/dialogue-generator/internal/logger"
)

// SocketIOServer wraps the Socket.IO server for the dialogue generator.
type SocketIOServer struct {
	server  *socket.Server
	sockets sync.Map // Maps socket id to *socket.Socket

	store   *dialog.Store
	engine  *dialog.Engine
	sampler gpu.Sampler
}

// NewSocketIOServer creates the Socket.IO server and the dialog engine bound
// to it.
func NewSocketIOServer(store *dialog.Store, gen dialog.Generator, archiver dialog.Archiver, sampler gpu.Sampler) *SocketIOServer {
	opts := socket.DefaultServerOptions()

	opts.SetCors(&sockettypes.Cors{
		Origin:      "*",
		Credentials: false,
	})

	// SocketIOPingInterval defines how frequently the server pings clients
	// to detect stale/disconnected sockets.
	const SocketIOPingInterval = 5 * time.Second

	// SocketIOPingTimeout defines how long the server waits before
	// considering a socket dead (no pong received).
	const SocketIOPingTimeout = 15 * time.Second

	opts.SetPingTimeout(SocketIOPingTimeout)
	opts.SetPingInterval(SocketIOPingInterval)
	opts.SetPath("/socket.io")

	server := socket.NewServer(nil, opts)

	s := &SocketIOServer{
		server:  server,
		store:   store,
		sampler: sampler,
	}
	s.engine = dialog.NewEngine(store, gen, s, archiver)

	s.server.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		s.handleConnection(client)
	})

	return s
}

// Engine returns the dialog engine bound to this server.
func (s *SocketIOServer) Engine() *dialog.Engine {
	return s.engine
}

func decodeAny(input any, out any) error {
	raw, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// EmitToClient sends one event to a single connected socket. Events for
// sockets that have since disconnected are dropped.
func (s *SocketIOServer) EmitToClient(socketID, event string, payload any) {
	value, ok := s.sockets.Load(socketID)
	if !ok {
		logger.Tracef("dropping %s event for disconnected socket %s", event, socketID)
		return
	}
	client, ok := value.(*socket.Socket)
	if !ok {
		return
	}
	client.Emit(event, payload)
}

// Broadcast sends one event to every connected socket.
func (s *SocketIOServer) Broadcast(event string, payload any) {
	s.sockets.Range(func(_, value any) bool {
		if client, ok := value.(*socket.Socket); ok {
			client.Emit(event, payload)
		}
		return true
	})
}

// HandleSocketIO creates a Gin handler for the Socket.IO endpoint.
func (s *SocketIOServer) HandleSocketIO() gin.HandlerFunc {
	httpHandler := s.server.ServeHandler(nil)

	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusOK)
			return
		}

		logger.Tracef("Socket.IO request: %s %s", c.Request.Method, c.Request.URL.Path)

		httpHandler.ServeHTTP(c.Writer, c.Request)
	}
}

// Close shuts down the Socket.IO server.
func (s *SocketIOServer) Close() error {
	s.server.Close(nil)
	return nil
}
