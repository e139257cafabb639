package websocket

import (
	"context"

	socket "github.com/zishang520/socket.io/servers/socket/v3"

	"github.com/sysneld1/dialogue-generator/internal/dialog"
	"github.com/sysneld1/dialogue-generator/internal/logger"
	"github.com/sysneld1/dialogue-generator/internal/wire"
)

func (s *SocketIOServer) registerClientHandlers(client *socket.Socket, socketID string) {
	// Dialog start - runs the engine on its own goroutine so this socket's
	// event loop stays responsive to stop_dialog.
	client.On("start_dialog", func(data ...any) {
		var payload wire.StartDialogPayload
		if len(data) > 0 {
			if err := decodeAny(data[0], &payload); err != nil {
				// Defaulted rather than rejected; the engine fills in demo
				// parameters for anything missing.
				logger.Warnf("start_dialog decode error (socket %s): %v", socketID, err)
			}
		}

		params := paramsFromPayload(payload)
		logger.Infof("start_dialog (socket %s): topic=%q roles=%s/%s turns=%d",
			socketID, params.Topic, params.Persona1.Name, params.Persona2.Name, params.Turns)

		go s.engine.Run(context.Background(), socketID, params)
	})

	// Dialog stop - sets the cooperative cancellation flag and acknowledges
	// immediately. The terminal dialog_stopped notification follows once the
	// loop actually exits through a checkpoint.
	client.On("stop_dialog", func(data ...any) {
		found := s.store.RequestStop(socketID)
		logger.Infof("stop_dialog (socket %s, active dialog: %t)", socketID, found)
		client.Emit("dialog_stopped")
	})

	// Disconnection handler
	client.On("disconnect", func(data ...any) {
		reason := ""
		if len(data) > 0 {
			if r, ok := data[0].(string); ok {
				reason = r
			}
		}
		logger.Infof("client disconnected (socket %s, reason: %s)", socketID, reason)
		s.sockets.Delete(socketID)
	})
}

// paramsFromPayload converts the wire payload to engine parameters. Defaults
// are applied by the engine at run start.
func paramsFromPayload(payload wire.StartDialogPayload) dialog.Parameters {
	return dialog.Parameters{
		Topic: payload.Topic,
		Persona1: dialog.Persona{
			Name:        payload.Persona1.Name,
			Description: payload.Persona1.Description,
		},
		Persona2: dialog.Persona{
			Name:        payload.Persona2.Name,
			Description: payload.Persona2.Description,
		},
		Turns: payload.TurnCount,
	}
}
