package game

import (
	"time"

	"stratsim/utils"
)

// ProjectStatus is the lifecycle state of a research project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

// ResearchProject is a research or capital investment project. Committed
// assets and budget are frozen at creation; only Status and Progress change
// over the project's life.
type ResearchProject struct {
	Name            string        `json:"project_name"`
	Description     string        `json:"description"`
	TargetDate      time.Time     `json:"target_completion_date"`
	CommittedBudget float64       `json:"committed_budget"` // per year
	CommittedAssets AssetBalance  `json:"committed_assets"`
	Status          ProjectStatus `json:"status"`
	Progress        float64       `json:"progress"` // 0.0 to 1.0
	Notice          string        `json:"notice,omitempty"` // set when the arbiter adjusts an unrealistic timeline
	// CreatedRound guards the recurring charge: creation already paid for
	// the round the project started in.
	CreatedRound int `json:"created_round"`
}

// ProgressRate computes the per-round progress delta for a project as a
// function of its committed human capital: min(base + human/scaling, max).
func ProgressRate(human, base, scaling, max float64) float64 {
	rate := base + human/scaling
	if rate > max {
		return max
	}
	return rate
}

// Tick advances an active project by one round and reports whether it
// completed on this tick. Completed or cancelled projects never progress.
func (p *ResearchProject) Tick(base, scaling, max float64) bool {
	if p.Status != ProjectActive {
		return false
	}
	p.Progress = utils.Clamp01(p.Progress + ProgressRate(p.CommittedAssets.Human, base, scaling, max))
	if p.Progress >= 1.0 {
		p.Status = ProjectCompleted
		return true
	}
	return false
}

// Cancel flips an active project to cancelled and returns the refunded
// assets at the given rate. Returns a zero balance if not active.
func (p *ResearchProject) Cancel(refundRate float64) AssetBalance {
	if p.Status != ProjectActive {
		return AssetBalance{}
	}
	p.Status = ProjectCancelled
	return p.CommittedAssets.Scale(refundRate)
}
