// Package wire defines the Socket.IO event payloads exchanged with dialog
// clients.
package wire

// PersonaPayload describes one of the two scripted speakers.
type PersonaPayload struct {
	// Name is the display name prefixed to every produced line.
	Name string `json:"name"`
	// Description is the instruction text steering generated utterances.
	Description string `json:"description"`
}

// StartDialogPayload is the inbound `start_dialog` event body.
//
// Every field is optional; the server substitutes demo defaults for anything
// missing so the page works without configuration.
type StartDialogPayload struct {
	// Topic is the subject the personas argue about.
	Topic string `json:"topic"`
	// Persona1 speaks the odd-numbered turns.
	Persona1 PersonaPayload `json:"persona1"`
	// Persona2 speaks the even-numbered turns.
	Persona2 PersonaPayload `json:"persona2"`
	// TurnCount is the requested number of turns.
	TurnCount int `json:"turnCount"`
}

// GpuStatusPayload is the outbound `gpu_status` event body, sent on connect
// and on every monitor tick.
type GpuStatusPayload struct {
	// Status is one of "free", "busy", "unavailable" or "error".
	Status string `json:"status"`
	// Message is an operator-facing description of the status.
	Message string `json:"message"`
}

// WaitingPayload is the outbound `waiting` event body, sent before each
// turn's generation starts.
type WaitingPayload struct {
	// TurnIndex is the 1-based turn number about to be generated.
	TurnIndex int `json:"turnIndex"`
	// Speaker is the display name of the persona about to speak.
	Speaker string `json:"speaker"`
}

// NewLinePayload is the outbound `new_line` event body, sent after a turn is
// produced.
type NewLinePayload struct {
	// TurnIndex is the 1-based turn number just produced.
	TurnIndex int `json:"turnIndex"`
	// Line is the formatted "{speaker}: {utterance}" transcript line.
	Line string `json:"line"`
}

// DialogCompletedPayload is the terminal `dialog_completed` event body.
type DialogCompletedPayload struct {
	// TurnsProduced is the number of turns emitted before completion.
	TurnsProduced int `json:"turnsProduced"`
}

// DialogStoppedPayload is the terminal `dialog_stopped` event body, emitted
// when the loop exits through a cancellation checkpoint.
//
// The immediate `dialog_stopped` acknowledgment sent in response to
// `stop_dialog` carries no body; only the terminal notification does.
type DialogStoppedPayload struct {
	// TurnsProduced is the number of turns emitted before the stop took
	// effect.
	TurnsProduced int `json:"turnsProduced"`
}

// DialogErrorPayload is the terminal `dialog_error` event body for admission
// failures (gate denied, model unavailable).
type DialogErrorPayload struct {
	// Message describes the failure.
	Message string `json:"message"`
}
