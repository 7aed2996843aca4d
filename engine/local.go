package engine

import (
	"context"

	"github.com/rs/zerolog/log"

	"stratsim/game"
	"stratsim/gamemaster"
	"stratsim/meta"
)

// EndCondition stops a run early. Checked after each resolved round.
type EndCondition func(st *game.RoundState, roster game.Roster) bool

// Engine runs a round-sequential simulation on a single game master.
type Engine struct {
	GM     *gamemaster.GameMaster
	Rounds int
	End    EndCondition
}

func New(gm *gamemaster.GameMaster, rounds int) *Engine {
	if rounds <= 0 {
		rounds = meta.DEFAULT_ROUNDS
	}
	if rounds > MaxRounds {
		rounds = MaxRounds
	}
	return &Engine{GM: gm, Rounds: rounds}
}

// Run sends the round-zero briefing, then plays rounds to completion.
// Summaries accumulate on the game state; the returned slice is the full
// run history.
func (e *Engine) Run(ctx context.Context) ([]string, error) {
	e.GM.InitialBroadcasts()

	for i := 0; i < e.Rounds; i++ {
		if err := ctx.Err(); err != nil {
			return e.GM.State.History, err
		}
		if _, err := e.GM.RunRound(ctx); err != nil {
			return e.GM.State.History, err
		}
		if e.End != nil && e.End(e.GM.State, e.GM.Roster) {
			log.Info().Int("round", e.GM.State.Round).Msg("end condition met")
			break
		}
	}
	return e.GM.State.History, nil
}
