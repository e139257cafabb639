package dialog

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Turn is one produced (speaker, utterance) pair.
type Turn struct {
	Speaker   string
	Utterance string
}

// Session is one client connection's active dialog run: its append-only
// transcript plus the cooperative cancellation flag.
type Session struct {
	id string

	// stop is written by the stop_dialog handler and read at every loop
	// checkpoint; the atomic guarantees the handler's write is visible to
	// the very next checkpoint read.
	stop atomic.Bool

	mu    sync.Mutex
	turns []Turn
}

// ID returns the owning socket id.
func (s *Session) ID() string {
	return s.id
}

// RequestStop sets the cancellation flag. The effect is observed at the next
// loop checkpoint; a generation already in flight is never interrupted.
func (s *Session) RequestStop() {
	s.stop.Store(true)
}

// StopRequested reports whether cancellation has been requested.
func (s *Session) StopRequested() bool {
	return s.stop.Load()
}

// Append adds one produced turn to the transcript.
func (s *Session) Append(speaker, utterance string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, Turn{Speaker: speaker, Utterance: utterance})
}

// Len returns the number of turns produced so far.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

// TranscriptText renders the transcript as plain alternating
// "{speaker}: {utterance}" lines, one per turn, each newline-terminated.
func (s *Session) TranscriptText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b strings.Builder
	for _, t := range s.turns {
		b.WriteString(t.Speaker)
		b.WriteString(": ")
		b.WriteString(t.Utterance)
		b.WriteString("\n")
	}
	return b.String()
}

// Store maps socket ids to their active dialog session.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Begin creates a fresh session generation for the socket id, replacing any
// previous record. The cancellation flag starts cleared and the transcript
// empty.
func (st *Store) Begin(sid string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess := &Session{id: sid}
	st.sessions[sid] = sess
	return sess
}

// Get returns the session for the socket id, or nil when none exists.
func (st *Store) Get(sid string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sessions[sid]
}

// RequestStop sets the cancellation flag for the socket id's session. It
// reports whether a session existed; stopping a socket with no active dialog
// is a no-op.
func (st *Store) RequestStop(sid string) bool {
	sess := st.Get(sid)
	if sess == nil {
		return false
	}
	sess.RequestStop()
	return true
}

// Remove destroys the session record. Removing a missing record is a no-op.
func (st *Store) Remove(sid string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, sid)
}
