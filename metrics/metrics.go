// Package metrics records harness run bookkeeping: one record per game and
// one per executed turn, written as CSV for offline analysis.
package metrics

import "time"

// GameRecord summarizes one completed (or aborted) game.
type GameRecord struct {
	ID        int
	Seed      int64
	Scenario  string
	Winner    string
	Turns     int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// TurnRecord summarizes one executed turn.
type TurnRecord struct {
	Game        int // GameRecord.ID
	Step        int
	Participant string
	Action      string
	Elapsed     time.Duration
	OK          bool
}
