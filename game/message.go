package game

import "time"

// Message is a private bilateral message between participants, delivered
// into the recipient's inbox and dated to the round it was sent.
type Message struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Round     int       `json:"round"`
}

// EspionageRecord is one espionage attempt kept in the initiator's private
// log. Failures are recorded too; they are never exposed to the target.
type EspionageRecord struct {
	Target  string  `json:"target"`
	Focus   string  `json:"focus"`
	Budget  float64 `json:"budget"`
	Success bool    `json:"success"`
	Round   int     `json:"round"`
}
