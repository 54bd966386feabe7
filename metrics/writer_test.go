package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	start := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	games := []GameRecord{
		{ID: 1, Seed: 12345, Scenario: "Standard", Winner: "Persia", Turns: 42,
			StartTime: start, EndTime: start.Add(time.Minute), Duration: time.Minute},
	}
	turns := []TurnRecord{
		{Game: 1, Step: 1, Participant: "Greece", Action: "draw", Elapsed: 3 * time.Millisecond, OK: true},
		{Game: 1, Step: 2, Participant: "Persia", Action: "city", Elapsed: 2 * time.Millisecond, OK: true},
	}

	require.NoError(t, w.WriteGameRecords(games))
	require.NoError(t, w.WriteTurnRecords(turns))

	f, err := os.Open(filepath.Join(w.Dir(), "game_records.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one game row")
	require.Equal(t, []string{"id", "seed", "scenario", "winner", "turns", "start_time", "end_time", "duration"}, rows[0])
	require.Equal(t, "Persia", rows[1][3])

	f2, err := os.Open(filepath.Join(w.Dir(), "turn_records.csv"))
	require.NoError(t, err)
	defer f2.Close()
	rows, err = csv.NewReader(f2).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two turn rows")
	require.Equal(t, "draw", rows[1][3])
}
