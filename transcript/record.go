// Package transcript produces the structured per-round records consumed
// externally for display and logging. The engine guarantees exactly one
// round record per round.
package transcript

// RoundRecord summarizes one resolved round.
type RoundRecord struct {
	Round   int                 `json:"round"`
	Date    string              `json:"date"`
	Results map[string][]string `json:"results"`
	Events  []string            `json:"events,omitempty"`
}

// Snapshot is one participant's headline numbers at the end of a round.
type Snapshot struct {
	Budget    float64 `json:"budget"`
	Technical float64 `json:"tech_capability"`
	Capital   float64 `json:"capital"`
	Human     float64 `json:"num_humans"`
}

// StateRecord captures every participant's snapshot after a round.
type StateRecord struct {
	Round        int                 `json:"round"`
	Date         string              `json:"date"`
	Participants map[string]Snapshot `json:"participants"`
}
