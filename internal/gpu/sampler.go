package gpu

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// SMISampler queries utilization through the nvidia-smi binary, one line of
// output per device.
type SMISampler struct {
	binary string
}

// NewSMISampler creates a sampler using nvidia-smi from PATH.
func NewSMISampler() *SMISampler {
	return &SMISampler{binary: "nvidia-smi"}
}

// Sample runs nvidia-smi and parses per-device utilization. A missing binary
// means no GPU is present, not a query error.
func (s *SMISampler) Sample(ctx context.Context) ([]Device, error) {
	out, err := exec.CommandContext(ctx, s.binary,
		"--query-gpu=utilization.gpu", "--format=csv,noheader,nounits").Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("nvidia-smi: %w", err)
	}
	return parseSMIOutput(string(out))
}

func parseSMIOutput(out string) ([]Device, error) {
	var devices []Device
	for i, line := range strings.Split(strings.TrimSpace(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pct, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("parse nvidia-smi output %q: %w", line, err)
		}
		devices = append(devices, Device{Index: i, Utilization: pct / 100})
	}
	return devices, nil
}
