package dialog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sysneld1/dialogue-generator/internal/logger"
	"github.com/sysneld1/dialogue-generator/internal/wire"
)

// OpeningLine is the fixed scripted first turn spoken by persona 1. It
// bypasses inference entirely so the dialog always opens with a
// deterministic, non-empty line regardless of model variability.
const OpeningLine = "Hi, shall we have a debate?"

// defaultPacing is the short delay before each generation, purely for
// perceived responsiveness in the client.
const defaultPacing = 300 * time.Millisecond

// Engine drives the turn-taking dialog loop for a single client. At most one
// loop executes at a time across the whole process, enforced by the gate.
type Engine struct {
	gate     *Gate
	store    *Store
	gen      Generator
	emitter  Emitter
	archiver Archiver
	pacing   time.Duration
}

// NewEngine creates a dialog engine with a fresh gate.
func NewEngine(store *Store, gen Generator, emitter Emitter, archiver Archiver) *Engine {
	return &Engine{
		gate:     NewGate(),
		store:    store,
		gen:      gen,
		emitter:  emitter,
		archiver: archiver,
		pacing:   defaultPacing,
	}
}

// SetPacing overrides the inter-turn pacing delay.
func (e *Engine) SetPacing(d time.Duration) {
	e.pacing = d
}

// Run executes one dialog from start to terminal state. It is expected to be
// called on its own goroutine, one invocation per start_dialog event.
//
// Terminal states: Rejected (gate denied), ModelUnavailable (no inference
// capability at start), Completed, Cancelled. The first two never create a
// session record; the last two archive the transcript, emit their terminal
// event, destroy the session record and release the gate.
func (e *Engine) Run(ctx context.Context, sid string, params Parameters) {
	params.ApplyDefaults()

	if !e.gate.TryAcquire() {
		logger.Warnf("dialog rejected for socket %s: another dialog is running", sid)
		e.emitter.EmitToClient(sid, "dialog_error", wire.DialogErrorPayload{
			Message: "Error: a dialog is already running for another user. Please wait.",
		})
		return
	}
	// First defer so it runs last: the gate must be released on every exit
	// path or no dialog can ever start again.
	defer e.gate.Release()
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("dialog run for socket %s panicked: %v", sid, r)
			e.store.Remove(sid)
			e.emitter.EmitToClient(sid, "dialog_error", wire.DialogErrorPayload{
				Message: "Error: the dialog failed unexpectedly.",
			})
		}
	}()

	if e.gen == nil || !e.gen.Ready() {
		logger.Errorf("dialog rejected for socket %s: model is not loaded", sid)
		e.emitter.EmitToClient(sid, "dialog_error", wire.DialogErrorPayload{
			Message: "Error: the model is not loaded.",
		})
		return
	}

	runID := uuid.NewString()
	sess := e.store.Begin(sid)
	logger.Infof("dialog %s started: socket=%s topic=%q roles=%s/%s turns=%d",
		runID, sid, params.Topic, params.Persona1.Name, params.Persona2.Name, params.Turns)

	cancelled := false
	for turn := 1; turn <= params.Turns; turn++ {
		// Checkpoint A: before the speaker decision.
		if sess.StopRequested() {
			cancelled = true
			break
		}

		// Odd turns belong to persona 1, even turns to persona 2.
		persona := params.Persona1
		if turn%2 == 0 {
			persona = params.Persona2
		}

		e.emitter.EmitToClient(sid, "waiting", wire.WaitingPayload{
			TurnIndex: turn,
			Speaker:   persona.Name,
		})
		time.Sleep(e.pacing)

		// Checkpoint B: after the pacing delay, before generation.
		if sess.StopRequested() {
			cancelled = true
			break
		}

		var utterance string
		if turn == 1 {
			utterance = OpeningLine
		} else {
			utterance = e.gen.Utterance(ctx, params.Topic, persona.Description, sess.TranscriptText())
		}

		// Checkpoint C: generation can take seconds; a stop requested while
		// it was in flight must take effect before the turn is published.
		if sess.StopRequested() {
			cancelled = true
			break
		}

		sess.Append(persona.Name, utterance)
		e.emitter.EmitToClient(sid, "new_line", wire.NewLinePayload{
			TurnIndex: turn,
			Line:      persona.Name + ": " + utterance,
		})
	}

	turns := sess.Len()

	// Archiving is best-effort: a write failure is logged and must never
	// suppress the terminal notification.
	if err := e.archiver.Save(Record{
		RunID:      runID,
		SessionID:  sid,
		Topic:      params.Topic,
		Persona1:   params.Persona1,
		Persona2:   params.Persona2,
		Transcript: sess.TranscriptText(),
	}); err != nil {
		logger.Errorf("failed to archive dialog %s for socket %s: %v", runID, sid, err)
	}

	if cancelled {
		logger.Infof("dialog %s stopped: socket=%s turns=%d", runID, sid, turns)
		e.emitter.EmitToClient(sid, "dialog_stopped", wire.DialogStoppedPayload{TurnsProduced: turns})
	} else {
		logger.Infof("dialog %s completed: socket=%s turns=%d", runID, sid, turns)
		e.emitter.EmitToClient(sid, "dialog_completed", wire.DialogCompletedPayload{TurnsProduced: turns})
	}

	e.store.Remove(sid)
}
