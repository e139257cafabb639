// Package gpu samples accelerator utilization and classifies it into a small
// status enum broadcast to connected clients.
package gpu

import "context"

// Status classifies the primary accelerator's current load.
type Status string

const (
	// StatusFree means the primary GPU is below the busy threshold.
	StatusFree Status = "free"
	// StatusBusy means the primary GPU is above the busy threshold.
	StatusBusy Status = "busy"
	// StatusUnavailable means no GPU is present.
	StatusUnavailable Status = "unavailable"
	// StatusError means the utilization query itself failed.
	StatusError Status = "error"
)

// busyThreshold is the utilization fraction above which the GPU counts as
// busy.
const busyThreshold = 0.80

// Message returns the operator-facing description for a status.
func (s Status) Message() string {
	switch s {
	case StatusFree:
		return "GPU is free"
	case StatusBusy:
		return "GPU is busy"
	case StatusUnavailable:
		return "No GPU available"
	default:
		return "GPU status check failed"
	}
}

// Device is one sampled accelerator.
type Device struct {
	// Index is the device ordinal as reported by the driver.
	Index int
	// Utilization is the load fraction in [0, 1].
	Utilization float64
}

// Sampler reports the current accelerator inventory.
type Sampler interface {
	Sample(ctx context.Context) ([]Device, error)
}

// Classify derives a status from one sample result. Only the primary device
// is evaluated.
func Classify(devices []Device, err error) Status {
	if err != nil {
		return StatusError
	}
	if len(devices) == 0 {
		return StatusUnavailable
	}
	if devices[0].Utilization > busyThreshold {
		return StatusBusy
	}
	return StatusFree
}

// Snapshot computes the current status once. It is used for the per-tick
// broadcast and for the one-off status sent to each new connection.
func Snapshot(ctx context.Context, sampler Sampler) Status {
	devices, err := sampler.Sample(ctx)
	return Classify(devices, err)
}
