package gpu

import (
	"context"
	"time"

	"github.com/sysneld1/dialogue-generator/internal/logger"
)

// pollInterval is the fixed time between monitor ticks.
const pollInterval = 5 * time.Second

// Monitor polls the sampler on a fixed interval for the life of the process
// and hands each result to the broadcast callback. Ticks are unconditional;
// there is no coalescing when no client is listening.
type Monitor struct {
	sampler   Sampler
	broadcast func(Status)
	interval  time.Duration
}

// NewMonitor creates a monitor that reports each tick through broadcast.
func NewMonitor(sampler Sampler, broadcast func(Status)) *Monitor {
	return &Monitor{
		sampler:   sampler,
		broadcast: broadcast,
		interval:  pollInterval,
	}
}

// Run polls until ctx is cancelled. It runs independently of any dialog
// session and must survive any sampling failure.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			devices, err := m.sampler.Sample(ctx)
			if err != nil {
				logger.Warnf("gpu sample failed: %v", err)
			}
			status := Classify(devices, err)
			logger.Tracef("gpu status: %s", status)
			m.broadcast(status)
		}
	}
}
