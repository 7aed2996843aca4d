// meta/meta.go
package meta

// MAX_ATTEMPTS defines the retry bound for the proposal correction loop.
const MAX_ATTEMPTS = 3

// RESULT_HISTORY defines how many recent action results a participant keeps.
const RESULT_HISTORY = 20

// EVENT_WINDOW defines how many public events go into each broadcast.
const EVENT_WINDOW = 5

// ROUND_DAYS defines the simulated days that pass per round.
const ROUND_DAYS = 90

// DEFAULT_ROUNDS defines the number of rounds when a scenario does not say.
const DEFAULT_ROUNDS = 3
