package websocket

import (
	"context"

	socket "github.com/zishang520/socket.io/servers/socket/v3"

	"github.com/sysneld1/dialogue-generator/internal/gpu"
	"github.com/sysneld1/dialogue-generator/internal/logger"
	"github.com/sysneld1/dialogue-generator/internal/wire"
)

func (s *SocketIOServer) handleConnection(client *socket.Socket) {
	socketID := string(client.Id())

	logger.Infof("client connected (socket %s)", socketID)
	s.sockets.Store(socketID, client)

	// Each new connection gets the current GPU status once, directly;
	// subsequent updates arrive via the monitor broadcast.
	status := gpu.Snapshot(context.Background(), s.sampler)
	client.Emit("gpu_status", wire.GpuStatusPayload{
		Status:  string(status),
		Message: status.Message(),
	})

	s.registerClientHandlers(client, socketID)
}
