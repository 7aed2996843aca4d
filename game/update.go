package game

// ResultUpdate is what a batch resolver produces for one participant:
// result strings tagged Success:/Fail:, plus any messages delivered to the
// participant this round.
type ResultUpdate struct {
	Results  []string
	Messages []Message
}

// Merge folds another update into this one.
func (u *ResultUpdate) Merge(other *ResultUpdate) {
	if other == nil {
		return
	}
	u.Results = append(u.Results, other.Results...)
	u.Messages = append(u.Messages, other.Messages...)
}

// MergeUpdates folds src into dst in place, creating entries on demand.
func MergeUpdates(dst, src map[string]*ResultUpdate) {
	for name, upd := range src {
		if existing, ok := dst[name]; ok {
			existing.Merge(upd)
		} else {
			dst[name] = upd
		}
	}
}

// Broadcast is the per-participant update sent after a round resolves.
// True-state mutations already happened during batch resolution; the
// broadcast distributes already-applied changes as structured information.
type Broadcast struct {
	Round             int                   `json:"round"`
	ActionResults     []string              `json:"action_results,omitempty"`
	PrivateNotices    []string              `json:"private_notices,omitempty"`
	NewMessages       []Message             `json:"new_messages,omitempty"`
	OtherPublicViews  map[string]PublicView `json:"other_public_views"`
	PublicEvents      []string              `json:"public_events,omitempty"`
	CompletedProjects []string              `json:"completed_projects,omitempty"`
	ProjectProgress   map[string]float64    `json:"project_progress,omitempty"`
	GlobalSummary     string                `json:"global_summary,omitempty"`
}
