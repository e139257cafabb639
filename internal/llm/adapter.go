package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sysneld1/dialogue-generator/internal/logger"
)

// DiagnosticUtterance fills a turn slot when generation fails outright. The
// dialog engine treats it as a normal line, not a control-flow error.
const DiagnosticUtterance = "Error: failed to generate a reply."

const (
	// minUtteranceLen is the threshold below which a completion counts as
	// degenerate and triggers the single fallback retry.
	minUtteranceLen = 5

	defaultMaxTokens = 300
	retryMaxTokens   = 100
)

// stopSequences end generation at the chat-template turn boundary or the
// first blank line, keeping replies to a single utterance.
var stopSequences = []string{"<end_of_turn>", "\n\n", "\n"}

// Completer is the single inference call the adapter depends on.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, stop []string) (string, error)
}

// Adapter turns dialog context into single short utterances.
type Adapter struct {
	completer Completer
	ready     bool
}

// NewAdapter wraps a completer. ready records whether the startup probe of
// the inference server succeeded; a dead model at startup surfaces as the
// ModelUnavailable terminal state rather than per-turn diagnostics.
func NewAdapter(completer Completer, ready bool) *Adapter {
	return &Adapter{completer: completer, ready: ready}
}

// Ready reports whether the inference capability was present at startup.
func (a *Adapter) Ready() bool {
	return a != nil && a.completer != nil && a.ready
}

// Utterance generates one line for the current speaker. An empty or
// too-short completion triggers exactly one retry with a simplified prompt
// and a smaller token cap; the retry's result is returned even if still
// short. Transport failures degrade to the fixed diagnostic line.
func (a *Adapter) Utterance(ctx context.Context, topic, personaDescription, history string) string {
	text, err := a.completer.Complete(ctx, turnPrompt(topic, personaDescription, history), defaultMaxTokens, stopSequences)
	if err != nil {
		logger.Errorf("generation failed: %v", err)
		return DiagnosticUtterance
	}
	if len(text) >= minUtteranceLen {
		return text
	}

	logger.Warnf("degenerate completion (%d chars); retrying with fallback prompt", len(text))
	text, err = a.completer.Complete(ctx, fallbackPrompt(topic, personaDescription), retryMaxTokens, stopSequences)
	if err != nil {
		logger.Errorf("fallback generation failed: %v", err)
		return DiagnosticUtterance
	}
	return text
}

// turnPrompt builds the role-conditioned prompt in gemma chat format.
func turnPrompt(topic, personaDescription, history string) string {
	var b strings.Builder
	b.WriteString("<start_of_turn>user\n")
	fmt.Fprintf(&b, "Dialog topic: %s\n\n", topic)
	fmt.Fprintf(&b, "Your role: %s\n\n", personaDescription)
	fmt.Fprintf(&b, "Dialog history (previous lines):\n%s\n", history)
	b.WriteString("Now it is your turn. Produce one line in character, brief and on topic. Do not exceed one sentence.\n")
	b.WriteString("<end_of_turn>\n<start_of_turn>model\n")
	return b.String()
}

// fallbackPrompt is the simplified prompt used for the single retry.
func fallbackPrompt(topic, personaDescription string) string {
	return fmt.Sprintf("<start_of_turn>user\n%s. Respond to the topic %q with a single line.\n<end_of_turn>\n<start_of_turn>model\n",
		personaDescription, topic)
}
