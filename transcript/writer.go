package transcript

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// entry is one JSONL line in the transcript stream.
type entry struct {
	RunID   string `json:"run_id"`
	LogType string `json:"log_type"`
	Payload any    `json:"payload"`
}

// Writer streams round and state records as JSONL and keeps them in memory
// for CSV export at the end of a run.
type Writer struct {
	runID string

	mu     sync.Mutex
	out    io.Writer
	closer io.Closer
	rounds []RoundRecord
	states []StateRecord
}

// NewWriter creates a transcript directory under baseDir named by the run
// ID and opens transcript.jsonl inside it.
func NewWriter(baseDir string) (*Writer, error) {
	runID := uuid.NewString()
	dir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create transcript directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "transcript.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript file: %w", err)
	}
	return &Writer{runID: runID, out: f, closer: f}, nil
}

// NewStreamWriter writes JSONL to an arbitrary writer (used in tests).
func NewStreamWriter(w io.Writer) *Writer {
	return &Writer{runID: uuid.NewString(), out: w}
}

func (w *Writer) RunID() string { return w.runID }

func (w *Writer) write(logType string, payload any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	line, err := json.Marshal(entry{RunID: w.runID, LogType: logType, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal %s entry: %w", logType, err)
	}
	if _, err := w.out.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write %s entry: %w", logType, err)
	}
	return nil
}

// WriteRound appends a round summary record.
func (w *Writer) WriteRound(rec RoundRecord) error {
	if err := w.write("round_summary", rec); err != nil {
		return err
	}
	w.mu.Lock()
	w.rounds = append(w.rounds, rec)
	w.mu.Unlock()
	return nil
}

// WriteState appends a game state snapshot record.
func (w *Writer) WriteState(rec StateRecord) error {
	if err := w.write("game_state", rec); err != nil {
		return err
	}
	w.mu.Lock()
	w.states = append(w.states, rec)
	w.mu.Unlock()
	return nil
}

// ExportCSV writes the collected state snapshots as a per-round,
// per-participant metrics table.
func (w *Writer) ExportCSV(path string) error {
	w.mu.Lock()
	states := w.states
	w.mu.Unlock()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"round", "date", "participant", "budget", "tech_capability", "capital", "num_humans"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write metrics header: %w", err)
	}

	for _, st := range states {
		names := make([]string, 0, len(st.Participants))
		for name := range st.Participants {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			snap := st.Participants[name]
			row := []string{
				strconv.Itoa(st.Round),
				st.Date,
				name,
				strconv.FormatFloat(snap.Budget, 'f', 0, 64),
				strconv.FormatFloat(snap.Technical, 'f', 2, 64),
				strconv.FormatFloat(snap.Capital, 'f', 0, 64),
				strconv.FormatFloat(snap.Human, 'f', 2, 64),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write metrics row: %w", err)
			}
		}
	}
	return nil
}

// Rounds returns all round records written so far.
func (w *Writer) Rounds() []RoundRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rounds
}

func (w *Writer) Close() error {
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
