package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/sysneld1/dialogue-generator/internal/dialog"
	"github.com/sysneld1/dialogue-generator/internal/gpu"
	"github.com/sysneld1/dialogue-generator/internal/wire"
)

func TestParamsFromPayload(t *testing.T) {
	params := paramsFromPayload(wire.StartDialogPayload{
		Topic:     "X",
		Persona1:  wire.PersonaPayload{Name: "A", Description: "first"},
		Persona2:  wire.PersonaPayload{Name: "B", Description: "second"},
		TurnCount: 3,
	})

	require.Equal(t, dialog.Parameters{
		Topic:    "X",
		Persona1: dialog.Persona{Name: "A", Description: "first"},
		Persona2: dialog.Persona{Name: "B", Description: "second"},
		Turns:    3,
	}, params)
}

func TestDecodeAny(t *testing.T) {
	// Socket.IO hands event data over as generic maps.
	raw := map[string]any{
		"topic":     "X",
		"persona1":  map[string]any{"name": "A", "description": "first"},
		"turnCount": float64(5),
	}

	var payload wire.StartDialogPayload
	require.NoError(t, decodeAny(raw, &payload))
	require.Equal(t, "X", payload.Topic)
	require.Equal(t, "A", payload.Persona1.Name)
	require.Equal(t, 5, payload.TurnCount)
	// Missing fields stay zero and are defaulted later by the engine.
	require.Empty(t, payload.Persona2.Name)
}

type stubSampler struct {
	devices []gpu.Device
}

func (s *stubSampler) Sample(context.Context) ([]gpu.Device, error) {
	return s.devices, nil
}

func TestStatusServer_SnapshotAndBroadcast(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewStatusServer(&stubSampler{devices: []gpu.Device{{Utilization: 0.95}}})

	router := gin.New()
	router.GET("/ws/status", s.Handle)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/status"
	conn, resp, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// The connect-time snapshot arrives first.
	var payload wire.GpuStatusPayload
	require.NoError(t, conn.ReadJSON(&payload))
	require.Equal(t, "busy", payload.Status)
	require.Equal(t, "GPU is busy", payload.Message)

	// Wait for registration before broadcasting.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		n := len(s.clients)
		s.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.Broadcast(gpu.StatusFree)
	require.NoError(t, conn.ReadJSON(&payload))
	require.Equal(t, "free", payload.Status)
}
