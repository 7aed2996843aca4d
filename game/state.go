package game

import (
	"time"

	"stratsim/meta"
	"stratsim/utils"
)

// RoundState is the global state owned by the arbiter: simulated date,
// round counter, and the append-only public event log and round summary
// history. It advances monotonically and is never rolled back.
type RoundState struct {
	CurrentDate  time.Time
	Round        int
	PublicEvents []string
	History      []string
}

func NewRoundState(start time.Time) *RoundState {
	return &RoundState{CurrentDate: start}
}

// AdvanceRound increments the round counter and moves the simulated date
// forward by one round's worth of days.
func (s *RoundState) AdvanceRound() {
	s.Round++
	s.CurrentDate = s.CurrentDate.AddDate(0, 0, meta.ROUND_DAYS)
}

// PeriodKey returns the budget period key for the current date.
func (s *RoundState) PeriodKey() string {
	return PeriodKey(s.CurrentDate)
}

// AddEvent appends to the public event log.
func (s *RoundState) AddEvent(event string) {
	s.PublicEvents = append(s.PublicEvents, event)
}

// RecentEvents returns the trailing k public events.
func (s *RoundState) RecentEvents(k int) []string {
	return utils.LastN(s.PublicEvents, k)
}

// LatestSummary returns the most recent round summary, or a placeholder
// before the first round resolves.
func (s *RoundState) LatestSummary() string {
	if len(s.History) == 0 {
		return "Simulation starting..."
	}
	return s.History[len(s.History)-1]
}
