package rules

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"earthwater/game"
)

// Bridge talks to the rules engine over its line-oriented JSON protocol: one
// request object per line in, one response object per line out. The engine
// process holds the authoritative game state; the state arguments of the
// Engine methods mirror what the process last returned.
type Bridge struct {
	mu  sync.Mutex
	enc *json.Encoder
	in  *bufio.Scanner
	cmd *exec.Cmd
}

type request struct {
	Cmd  string `json:"cmd"`
	Args any    `json:"args,omitempty"`
}

type response struct {
	Success   bool        `json:"success"`
	Error     string      `json:"error,omitempty"`
	GameState *game.State `json:"gameState,omitempty"`
	View      *game.View  `json:"view,omitempty"`
}

type setupArgs struct {
	Seed     int64          `json:"seed"`
	Scenario string         `json:"scenario"`
	Options  map[string]any `json:"options"`
}

type viewArgs struct {
	Player string `json:"player"`
}

type actionArgs struct {
	Player string `json:"player"`
	Action string `json:"action"`
	Arg    any    `json:"arg,omitempty"`
}

// StartBridge launches the engine process and wires its stdio to a Bridge.
// The caller owns the returned Bridge and must Close it.
func StartBridge(command string, args ...string) (*Bridge, error) {
	cmd := exec.Command(command, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open bridge stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open bridge stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start bridge process: %w", err)
	}

	b := NewBridge(stdout, stdin)
	b.cmd = cmd
	return b, nil
}

// NewBridge wires a Bridge over an existing transport. Production code uses
// StartBridge; tests drive the protocol over in-memory pipes.
func NewBridge(r io.Reader, w io.Writer) *Bridge {
	scanner := bufio.NewScanner(r)
	// Full game states serialize well past the default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	return &Bridge{
		enc: json.NewEncoder(w),
		in:  scanner,
	}
}

// Setup implements Engine.
func (b *Bridge) Setup(seed int64, scenario string, options map[string]any) (*game.State, error) {
	if options == nil {
		options = map[string]any{}
	}
	resp, err := b.call(request{Cmd: "setup", Args: setupArgs{Seed: seed, Scenario: scenario, Options: options}})
	if err != nil {
		return nil, err
	}
	if resp.GameState == nil {
		return nil, fmt.Errorf("setup succeeded but returned no game state")
	}
	return resp.GameState, nil
}

// View implements Engine.
func (b *Bridge) View(_ *game.State, participant string) (*game.View, error) {
	resp, err := b.call(request{Cmd: "view", Args: viewArgs{Player: participant}})
	if err != nil {
		return nil, err
	}
	if resp.View == nil {
		return nil, fmt.Errorf("view succeeded but returned no view")
	}
	return resp.View, nil
}

// Apply implements Engine.
func (b *Bridge) Apply(_ *game.State, participant string, action string, arg any) (*game.State, error) {
	resp, err := b.call(request{Cmd: "action", Args: actionArgs{Player: participant, Action: action, Arg: arg}})
	if err != nil {
		return nil, err
	}
	if resp.GameState == nil {
		return nil, fmt.Errorf("action succeeded but returned no game state")
	}
	return resp.GameState, nil
}

// Close asks the engine process to quit and waits for it to exit.
func (b *Bridge) Close() error {
	b.mu.Lock()
	err := b.enc.Encode(request{Cmd: "quit"})
	b.mu.Unlock()
	if b.cmd != nil {
		if werr := b.cmd.Wait(); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

func (b *Bridge) call(req request) (*response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.enc.Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send %s request: %w", req.Cmd, err)
	}

	if !b.in.Scan() {
		if err := b.in.Err(); err != nil {
			return nil, fmt.Errorf("failed to read %s response: %w", req.Cmd, err)
		}
		return nil, fmt.Errorf("no response to %s request: bridge closed", req.Cmd)
	}

	var resp response
	if err := json.Unmarshal(b.in.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", req.Cmd, err)
	}
	if !resp.Success {
		return nil, &Rejection{Message: resp.Error}
	}
	return &resp, nil
}
