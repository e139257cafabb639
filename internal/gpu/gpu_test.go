package gpu

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	require.Equal(t, StatusBusy, Classify([]Device{{Utilization: 0.95}}, nil))
	require.Equal(t, StatusFree, Classify([]Device{{Utilization: 0.10}}, nil))
	require.Equal(t, StatusFree, Classify([]Device{{Utilization: 0.80}}, nil))
	require.Equal(t, StatusUnavailable, Classify(nil, nil))
	require.Equal(t, StatusError, Classify(nil, fmt.Errorf("query failed")))

	// Only the primary device is evaluated.
	require.Equal(t, StatusFree, Classify([]Device{{Utilization: 0.10}, {Utilization: 0.99}}, nil))
}

func TestStatusMessage(t *testing.T) {
	require.Equal(t, "GPU is free", StatusFree.Message())
	require.Equal(t, "GPU is busy", StatusBusy.Message())
	require.Equal(t, "No GPU available", StatusUnavailable.Message())
	require.Equal(t, "GPU status check failed", StatusError.Message())
}

func TestParseSMIOutput(t *testing.T) {
	devices, err := parseSMIOutput("95\n10\n")
	require.NoError(t, err)
	require.Len(t, devices, 2)
	require.Equal(t, Device{Index: 0, Utilization: 0.95}, devices[0])
	require.Equal(t, Device{Index: 1, Utilization: 0.10}, devices[1])

	devices, err = parseSMIOutput("\n")
	require.NoError(t, err)
	require.Empty(t, devices)

	_, err = parseSMIOutput("not a number\n")
	require.Error(t, err)
}

type fakeSampler struct {
	devices []Device
	err     error
}

func (f *fakeSampler) Sample(context.Context) ([]Device, error) {
	return f.devices, f.err
}

func TestSnapshot(t *testing.T) {
	require.Equal(t, StatusBusy, Snapshot(context.Background(), &fakeSampler{devices: []Device{{Utilization: 0.9}}}))
	require.Equal(t, StatusError, Snapshot(context.Background(), &fakeSampler{err: fmt.Errorf("boom")}))
}

func TestMonitor_BroadcastsEveryTick(t *testing.T) {
	statuses := make(chan Status, 16)
	m := NewMonitor(&fakeSampler{devices: []Device{{Utilization: 0.5}}}, func(s Status) {
		statuses <- s
	})
	m.interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	for i := 0; i < 3; i++ {
		select {
		case s := <-statuses:
			require.Equal(t, StatusFree, s)
		case <-time.After(2 * time.Second):
			t.Fatal("no broadcast before deadline")
		}
	}
}

func TestMonitor_SurvivesSamplerFailure(t *testing.T) {
	statuses := make(chan Status, 16)
	m := NewMonitor(&fakeSampler{err: fmt.Errorf("driver gone")}, func(s Status) {
		statuses <- s
	})
	m.interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)

	for i := 0; i < 2; i++ {
		select {
		case s := <-statuses:
			require.Equal(t, StatusError, s)
		case <-time.After(2 * time.Second):
			t.Fatal("no broadcast before deadline")
		}
	}
}
