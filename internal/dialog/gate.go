package dialog

import "sync"

// Gate is the process-wide single-flight admission control for dialog
// execution. The local inference server cannot serve two generation streams
// at once, so a second start_dialog is rejected immediately rather than
// queued.
type Gate struct {
	mu sync.Mutex
}

// NewGate creates a released gate.
func NewGate() *Gate {
	return &Gate{}
}

// TryAcquire attempts to take the gate without blocking. It returns false
// when another dialog run currently holds it.
func (g *Gate) TryAcquire() bool {
	return g.mu.TryLock()
}

// Release frees the gate. It must be called exactly once per successful
// TryAcquire, on every exit path of the owning run.
func (g *Gate) Release() {
	g.mu.Unlock()
}
