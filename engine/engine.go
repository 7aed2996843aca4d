// Package engine drives a full simulation run: initial broadcasts, then
// rounds until the configured count or an end condition.
package engine

import "context"

// MaxRounds is a safety cap on any single run.
const MaxRounds = 1000

type Runner interface {
	// Run plays the simulation and returns the round summaries in order.
	Run(ctx context.Context) ([]string, error)
}
