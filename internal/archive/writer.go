// Package archive persists finished dialog transcripts as flat text records.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sysneld1/dialogue-generator/internal/dialog"
)

// Writer writes one flat text record per finished or cancelled dialog under
// a logs directory.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates a writer rooted at dir. The directory is created on the
// first save.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// Save writes the record: a metadata header block followed by the verbatim
// transcript. The filename incorporates the session id and the write time so
// records never collide.
func (w *Writer) Save(rec dialog.Record) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create logs dir: %w", err)
	}

	now := w.now()
	name := fmt.Sprintf("dialog_%s_%d.txt", rec.SessionID, now.Unix())

	var b strings.Builder
	b.WriteString("=== Dialog metadata ===\n")
	fmt.Fprintf(&b, "Run ID: %s\n", rec.RunID)
	fmt.Fprintf(&b, "SID: %s\n", rec.SessionID)
	fmt.Fprintf(&b, "Topic: %s\n", rec.Topic)
	fmt.Fprintf(&b, "Role 1: %s\n", rec.Persona1.Name)
	fmt.Fprintf(&b, "Role 1 description: %s\n", rec.Persona1.Description)
	fmt.Fprintf(&b, "Role 2: %s\n", rec.Persona2.Name)
	fmt.Fprintf(&b, "Role 2 description: %s\n", rec.Persona2.Description)
	fmt.Fprintf(&b, "Turns: %d (approximate)\n", ApproxTurns(rec.Transcript))
	fmt.Fprintf(&b, "Created at: %s\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString("=== Dialog transcript ===\n\n")
	b.WriteString(rec.Transcript)

	if err := os.WriteFile(filepath.Join(w.dir, name), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// ApproxTurns estimates the turn count by counting speaker-delimited lines
// and halving, matching the historical record format.
func ApproxTurns(transcript string) int {
	n := 0
	for _, line := range strings.Split(transcript, "\n") {
		if strings.TrimSpace(line) != "" && strings.Contains(line, ":") {
			n++
		}
	}
	return n / 2
}
