package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"earthwater/capture"
	"earthwater/config"
	"earthwater/engine"
	"earthwater/game"
	"earthwater/metrics"
	"earthwater/rules"
	"earthwater/strategy"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	playSeed        int64
	playInteractive bool
	playSide        string
	playTurns       int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game (random vs random, or seat a human side)",
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().Int64Var(&playSeed, "seed", 0, "game seed (0 picks one)")
	playCmd.Flags().BoolVarP(&playInteractive, "interactive", "i", false, "seat a human on one side")
	playCmd.Flags().StringVar(&playSide, "side", "Greece", "side for the human player (Greece or Persia)")
	playCmd.Flags().IntVar(&playTurns, "turns", 0, "turn bound (0 uses the configured maximum)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if playSeed != 0 {
		cfg.Seed = playSeed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()%(1<<31-2) + 1
	}
	if playTurns > 0 {
		cfg.MaxTurns = playTurns
	}

	humanSide := game.Side(playSide)
	if playInteractive && humanSide != game.Greece && humanSide != game.Persia {
		return fmt.Errorf("unknown side %q: choose Greece or Persia", playSide)
	}

	bridge, err := rules.StartBridge(cfg.BridgeCommand[0], cfg.BridgeCommand[1:]...)
	if err != nil {
		return err
	}
	defer bridge.Close()

	state, err := bridge.Setup(cfg.Seed, cfg.Scenario, nil)
	if err != nil {
		return fmt.Errorf("failed to set up game: %w", err)
	}
	log.Info().Int64("seed", cfg.Seed).Str("scenario", cfg.Scenario).Msg("game initialized")

	executors := make(map[string]*engine.Executor, 2)
	for i, side := range []game.Side{game.Greece, game.Persia} {
		seed := cfg.Seed + int64(i)

		var strat strategy.Strategy = strategy.NewRandom(seed)
		if playInteractive && side == humanSide {
			strat = strategy.NewHuman(os.Stdin, os.Stdout)
		}

		options := []engine.ExecutorOption{
			engine.WithBlacklist(cfg.BlacklistedActions...),
			engine.WithHistorySize(cfg.MaxHistorySize),
		}
		if cfg.CaptureEnabled {
			capturer, err := capture.NewCapturer(cfg.CaptureDirectory, cfg.MaxRetainedCaptures, cfg.Seed, cfg.Scenario)
			if err != nil {
				return err
			}
			options = append(options, engine.WithCapturer(capturer))
		}
		executors[string(side)] = engine.NewExecutor(bridge, strat, seed, options...)
	}

	start := time.Now()
	runner := engine.NewRunner(executors, cfg.MaxTurns)
	final, turnRecords, runErr := runner.Run(state)
	end := time.Now()

	renderSummary(cmd.OutOrStdout(), final)

	if err := writeRunRecords(cfg, final, turnRecords, start, end); err != nil {
		log.Warn().Err(err).Msg("failed to write run records")
	}
	return runErr
}

func writeRunRecords(cfg config.Config, final *game.State, turns []metrics.TurnRecord, start, end time.Time) error {
	writer, err := metrics.NewWriter(cfg.MetricsDirectory)
	if err != nil {
		return err
	}

	gameRecord := metrics.GameRecord{
		ID:        1,
		Seed:      cfg.Seed,
		Scenario:  cfg.Scenario,
		Winner:    final.Winner,
		Turns:     len(turns),
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
	}
	if err := writer.WriteGameRecords([]metrics.GameRecord{gameRecord}); err != nil {
		return err
	}
	for i := range turns {
		turns[i].Game = gameRecord.ID
	}
	return writer.WriteTurnRecords(turns)
}

// renderSummary prints the closing board overview: winner, counters, totals
// and the occupied places.
func renderSummary(w io.Writer, s *game.State) {
	fmt.Fprintln(w)
	if s.GameOver {
		fmt.Fprintf(w, "GAME OVER — winner: %s\n", s.Winner)
	} else {
		fmt.Fprintln(w, "Game stopped without a winner")
	}
	fmt.Fprintf(w, "Campaign %d | VP %d\n", s.Campaign, s.VP)

	totals := s.Totals()
	fmt.Fprintf(w, "Greece: %d armies, %d fleets\n", totals[game.Greece].Armies, totals[game.Greece].Fleets)
	fmt.Fprintf(w, "Persia: %d armies, %d fleets\n", totals[game.Persia].Armies, totals[game.Persia].Fleets)

	places := make([]string, 0, len(s.Units))
	for place, slots := range s.Units {
		if place == game.Reserve {
			continue
		}
		occupied := false
		for _, n := range slots {
			if n > 0 {
				occupied = true
				break
			}
		}
		if occupied {
			places = append(places, place)
		}
	}
	sort.Strings(places)

	if len(places) > 0 {
		fmt.Fprintln(w, "Occupied places:")
		for _, place := range places {
			fmt.Fprintf(w, "  %-12s G:%dA/%dF P:%dA/%dF\n", place,
				s.ArmiesAt(game.Greece, place), s.FleetsAt(game.Greece, place),
				s.ArmiesAt(game.Persia, place), s.FleetsAt(game.Persia, place))
		}
	}
}
