package dialog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStore_BeginCreatesFreshGeneration(t *testing.T) {
	st := NewStore()

	first := st.Begin("s1")
	first.Append("A", "hello")
	first.RequestStop()

	// A new start under the same sid replaces the record: flag cleared,
	// transcript empty.
	second := st.Begin("s1")
	require.False(t, second.StopRequested())
	require.Equal(t, 0, second.Len())
	require.Same(t, second, st.Get("s1"))

	// The superseded generation keeps its own flag.
	require.True(t, first.StopRequested())
}

func TestStore_RequestStopIsVisible(t *testing.T) {
	st := NewStore()
	sess := st.Begin("s1")

	require.False(t, sess.StopRequested())
	require.True(t, st.RequestStop("s1"))
	require.True(t, sess.StopRequested())
}

func TestStore_RequestStopWithoutSessionIsNoop(t *testing.T) {
	st := NewStore()
	require.False(t, st.RequestStop("missing"))
}

func TestStore_RemoveMissingIsNoop(t *testing.T) {
	st := NewStore()
	st.Remove("missing")

	st.Begin("s1")
	st.Remove("s1")
	require.Nil(t, st.Get("s1"))
}

func TestSession_TranscriptText(t *testing.T) {
	st := NewStore()
	sess := st.Begin("s1")
	sess.Append("A", "first line")
	sess.Append("B", "second line")

	require.Equal(t, "A: first line\nB: second line\n", sess.TranscriptText())
	require.Equal(t, 2, sess.Len())
}
