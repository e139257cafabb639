package llm

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type completerCall struct {
	prompt    string
	maxTokens int
}

type fakeCompleter struct {
	replies []string
	errs    []error
	calls   []completerCall
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string, maxTokens int, _ []string) (string, error) {
	i := len(f.calls)
	f.calls = append(f.calls, completerCall{prompt: prompt, maxTokens: maxTokens})
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	reply := ""
	if i < len(f.replies) {
		reply = f.replies[i]
	}
	return reply, err
}

func TestAdapter_Utterance(t *testing.T) {
	c := &fakeCompleter{replies: []string{"a perfectly fine reply"}}
	a := NewAdapter(c, true)

	got := a.Utterance(context.Background(), "topic", "role", "history")

	require.Equal(t, "a perfectly fine reply", got)
	require.Len(t, c.calls, 1)
	require.Equal(t, defaultMaxTokens, c.calls[0].maxTokens)
	require.Contains(t, c.calls[0].prompt, "topic")
	require.Contains(t, c.calls[0].prompt, "role")
	require.Contains(t, c.calls[0].prompt, "history")
}

func TestAdapter_EmptyCompletionRetriesOnce(t *testing.T) {
	c := &fakeCompleter{replies: []string{"", "ok, retried"}}
	a := NewAdapter(c, true)

	got := a.Utterance(context.Background(), "topic", "role", "")

	require.Equal(t, "ok, retried", got)
	require.Len(t, c.calls, 2)
	// The retry uses the simplified prompt with a smaller token cap.
	require.Equal(t, retryMaxTokens, c.calls[1].maxTokens)
	require.NotContains(t, c.calls[1].prompt, "Dialog history")
}

func TestAdapter_ShortCompletionRetriesOnce(t *testing.T) {
	c := &fakeCompleter{replies: []string{"hi", "ok"}}
	a := NewAdapter(c, true)

	// The retry result is returned even when still short; never more than
	// one retry.
	got := a.Utterance(context.Background(), "topic", "role", "")

	require.Equal(t, "ok", got)
	require.Len(t, c.calls, 2)
}

func TestAdapter_TransportFailureDegrades(t *testing.T) {
	c := &fakeCompleter{errs: []error{fmt.Errorf("connection refused")}}
	a := NewAdapter(c, true)

	got := a.Utterance(context.Background(), "topic", "role", "")

	require.Equal(t, DiagnosticUtterance, got)
	require.Len(t, c.calls, 1)
}

func TestAdapter_RetryFailureDegrades(t *testing.T) {
	c := &fakeCompleter{replies: []string{"", ""}, errs: []error{nil, fmt.Errorf("timeout")}}
	a := NewAdapter(c, true)

	got := a.Utterance(context.Background(), "topic", "role", "")

	require.Equal(t, DiagnosticUtterance, got)
	require.Len(t, c.calls, 2)
}

func TestAdapter_Ready(t *testing.T) {
	require.False(t, NewAdapter(nil, true).Ready())
	require.False(t, NewAdapter(&fakeCompleter{}, false).Ready())
	require.True(t, NewAdapter(&fakeCompleter{}, true).Ready())

	var a *Adapter
	require.False(t, a.Ready())
}

func TestTurnPrompt_GemmaFraming(t *testing.T) {
	prompt := turnPrompt("X", "a role", "A: hello\n")
	require.True(t, strings.HasPrefix(prompt, "<start_of_turn>user\n"))
	require.True(t, strings.HasSuffix(prompt, "<start_of_turn>model\n"))
	require.Contains(t, prompt, "A: hello")
}
