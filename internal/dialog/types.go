package dialog

import "context"

// Persona is a named role with an instruction text steering generated
// utterances.
type Persona struct {
	Name        string
	Description string
}

// Parameters are the caller-supplied inputs for one dialog run.
type Parameters struct {
	Topic    string
	Persona1 Persona
	Persona2 Persona
	Turns    int
}

// Demo defaults applied when the client sends an empty or partial
// start_dialog request.
const (
	DefaultTopic = "A debate about the shape of the Earth"
	DefaultTurns = 7

	defaultPersona1Name = "Ivan"
	defaultPersona2Name = "Peter"

	defaultPersona1Description = "You are a research physicist. Explain the problem at hand in a way " +
		"a tenth-grade student can follow. Build on the previous explanations, give examples and " +
		"analogies. Do not greet. Do not mention the participants' names or roles."
	defaultPersona2Description = "You are a cheerful physics teacher. Explain the problem at hand " +
		"simply enough for a child. Build on the previous explanations, give examples and analogies. " +
		"Do not greet. Do not mention the participants' names or roles."
)

// ApplyDefaults fills in demo defaults for every missing field. Malformed or
// absent input is defaulted rather than rejected so the demonstration works
// without a configuration step.
func (p *Parameters) ApplyDefaults() {
	if p.Topic == "" {
		p.Topic = DefaultTopic
	}
	if p.Persona1.Name == "" {
		p.Persona1.Name = defaultPersona1Name
	}
	if p.Persona1.Description == "" {
		p.Persona1.Description = defaultPersona1Description
	}
	if p.Persona2.Name == "" {
		p.Persona2.Name = defaultPersona2Name
	}
	if p.Persona2.Description == "" {
		p.Persona2.Description = defaultPersona2Description
	}
	if p.Turns <= 0 {
		p.Turns = DefaultTurns
	}
}

// Record is the archival view of one finished or cancelled dialog.
type Record struct {
	RunID      string
	SessionID  string
	Topic      string
	Persona1   Persona
	Persona2   Persona
	Transcript string
}

// Emitter delivers realtime events to a single connected client.
type Emitter interface {
	EmitToClient(socketID, event string, payload any)
}

// Generator produces one utterance per turn.
type Generator interface {
	// Ready reports whether the inference capability was present at startup.
	Ready() bool
	// Utterance returns one short line for the current speaker. Generation
	// failures degrade to a diagnostic line instead of an error.
	Utterance(ctx context.Context, topic, personaDescription, history string) string
}

// Archiver durably stores finished transcripts.
type Archiver interface {
	Save(rec Record) error
}
