package main

import (
	"encoding/json"
	"fmt"
	"os"

	"earthwater/capture"
	"earthwater/config"
	"earthwater/rules"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <artifact.json>",
	Short: "Re-drive a capture artifact's recorded actions through the engine",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read artifact: %w", err)
	}
	var artifact capture.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return fmt.Errorf("failed to parse artifact: %w", err)
	}

	log.Info().
		Int64("seed", artifact.Seed).
		Str("category", string(artifact.Category)).
		Int("actions", len(artifact.History)).
		Msg("replaying capture")

	bridge, err := rules.StartBridge(cfg.BridgeCommand[0], cfg.BridgeCommand[1:]...)
	if err != nil {
		return err
	}
	defer bridge.Close()

	state, err := bridge.Setup(artifact.Seed, artifact.Scenario, nil)
	if err != nil {
		return fmt.Errorf("failed to set up replay game: %w", err)
	}

	for _, rec := range artifact.History {
		fmt.Fprintf(cmd.OutOrStdout(), "step %d: %s -> %s", rec.Step, rec.Participant, rec.Action)
		if rec.Arg != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "(%v)", rec.Arg)
		}
		fmt.Fprintln(cmd.OutOrStdout())

		state, err = bridge.Apply(state, rec.Participant, rec.Action, rec.Arg)
		if err != nil {
			// Reaching the recorded failure is the point of the replay.
			fmt.Fprintf(cmd.OutOrStdout(), "engine failed: %v\n", err)
			fmt.Fprintf(cmd.OutOrStdout(), "original capture: %s\n", artifact.Error)
			return nil
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "replay completed without reproducing the failure (state %s)\n", state.Label)
	return nil
}
