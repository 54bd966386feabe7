// Package capture snapshots the full game state and trailing action history
// whenever applying an action fails, so the failure can be reproduced exactly,
// classified and explained offline. Artifacts are flat JSON files; an external
// log-analysis tool consumes them.
package capture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"earthwater/game"
	"earthwater/history"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MaxTrailingRecords bounds how much action history goes into one artifact.
const MaxTrailingRecords = 10

// Artifact is the file-resident snapshot created once per failure. It is
// written once and never mutated afterwards.
type Artifact struct {
	CapturedAt time.Time        `json:"captured_at"`
	Session    string           `json:"session"`
	Seed       int64            `json:"seed"`
	Scenario   string           `json:"scenario"`
	Category   Category         `json:"category"`
	Error      string           `json:"error"`
	State      *game.State      `json:"state"`
	History    []history.Record `json:"history"`
	Findings   Findings         `json:"findings"`
	Script     string           `json:"replay_script"`
}

// CaptureError reports a failure of the capture pipeline itself. It is logged
// as a warning by the caller and never propagated in place of the error that
// triggered the capture.
type CaptureError struct {
	Path string
	Err  error
}

func (e *CaptureError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("diagnostic capture failed: %v", e.Err)
	}
	return fmt.Sprintf("diagnostic capture failed for %s: %v", e.Path, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// Capturer writes diagnostic artifacts for one agent session. Its lifecycle
// is tied to that session: the directory, seed and session identifier are
// fixed at construction, nothing is shared between sessions.
type Capturer struct {
	dir      string
	maxFiles int
	seed     int64
	scenario string
	session  string
	now      func() time.Time
	logger   zerolog.Logger
}

// Option adjusts a Capturer at construction.
type Option func(*Capturer)

// WithClock substitutes the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Capturer) { c.now = now }
}

// WithSession fixes the session identifier instead of generating one.
func WithSession(session string) Option {
	return func(c *Capturer) { c.session = session }
}

// NewCapturer returns a Capturer writing to dir and retaining at most maxFiles
// artifacts. The seed and scenario go into every reproduction script.
func NewCapturer(dir string, maxFiles int, seed int64, scenario string, options ...Option) (*Capturer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create capture directory: %w", err)
	}

	c := &Capturer{
		dir:      dir,
		maxFiles: maxFiles,
		seed:     seed,
		scenario: scenario,
		session:  uuid.NewString()[:8],
		now:      time.Now,
	}
	for _, option := range options {
		option(c)
	}
	c.logger = log.With().Str("session", c.session).Logger()
	return c, nil
}

// Session returns the session identifier baked into artifact filenames.
func (c *Capturer) Session() string { return c.session }

// Capture snapshots the state, classifies the cause, runs the consistency
// analysis and writes one artifact. The state is deep-copied first, so later
// engine moves cannot alter the capture. The returned path names the artifact
// on success.
func (c *Capturer) Capture(state *game.State, records []history.Record, cause error) (string, error) {
	capturedAt := c.now().UTC()

	if len(records) > MaxTrailingRecords {
		records = records[len(records)-MaxTrailingRecords:]
	}

	label := ""
	if state != nil {
		label = state.Label
	}

	script, err := renderScript(c.seed, c.scenario, records)
	if err != nil {
		return "", &CaptureError{Err: fmt.Errorf("failed to render replay script: %w", err)}
	}

	artifact := Artifact{
		CapturedAt: capturedAt,
		Session:    c.session,
		Seed:       c.seed,
		Scenario:   c.scenario,
		Category:   Classify(cause, label),
		Error:      cause.Error(),
		State:      state.Clone(),
		History:    records,
		Findings:   Analyze(state),
		Script:     script,
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", &CaptureError{Err: fmt.Errorf("failed to encode artifact: %w", err)}
	}

	// Timestamp plus session id keeps filenames collision-resistant across
	// parallel game instances failing at once.
	name := fmt.Sprintf("capture_%s_%s.json", capturedAt.Format("20060102T150405.000000000"), c.session)
	path := filepath.Join(c.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &CaptureError{Path: path, Err: err}
	}

	c.logger.Info().
		Str("path", path).
		Str("category", string(artifact.Category)).
		Int("history", len(records)).
		Msg("wrote diagnostic capture")

	if err := c.enforceRetention(); err != nil {
		// The artifact itself is on disk; stale-file cleanup failing must
		// not mask that.
		c.logger.Warn().Err(err).Msg("capture retention sweep failed")
	}
	return path, nil
}

// enforceRetention deletes the oldest artifacts, by modification time, beyond
// the configured maximum.
func (c *Capturer) enforceRetention() error {
	if c.maxFiles <= 0 {
		return nil
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to list capture directory: %w", err)
	}

	type artifactFile struct {
		path    string
		modTime time.Time
	}
	var files []artifactFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "capture_") || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		files = append(files, artifactFile{path: filepath.Join(c.dir, entry.Name()), modTime: info.ModTime()})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].modTime.Equal(files[j].modTime) {
			return files[i].path < files[j].path
		}
		return files[i].modTime.Before(files[j].modTime)
	})

	for len(files) > c.maxFiles {
		oldest := files[0]
		if err := os.Remove(oldest.path); err != nil {
			return fmt.Errorf("failed to delete %s: %w", oldest.path, err)
		}
		c.logger.Debug().Str("path", oldest.path).Msg("evicted old capture")
		files = files[1:]
	}
	return nil
}
