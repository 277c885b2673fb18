package experiments

import (
	"context"
	"fmt"
	"othello/agent"
	"othello/engine"
	"othello/experiments/metrics"
	"othello/game"
	"othello/searcher"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// Runner plays a match between two agents. Games alternate colors, so with an
// even number of games each agent plays black equally often.
type Runner struct {
	Games         int
	Workers       int           // Games played concurrently, at least 1
	RandomOpening int           // Random plies played before the agents take over
	Seed          uint64        // Seeds the random openings and random policies
	TurnTime      time.Duration // 0 means no deadline per move
}

type Report struct {
	Configs []metrics.AgentConfig
	Games   []metrics.GameRecord
	Moves   []metrics.MoveRecord
}

type gameReport struct {
	game  metrics.GameRecord
	moves []metrics.MoveRecord
}

// Run plays r.Games games between a and b.
func (r Runner) Run(ctx context.Context, a, b metrics.AgentConfig) (Report, error) {
	if r.Games <= 0 {
		return Report{}, game.NewInvalidConfigurationError("games", r.Games)
	}
	if a.ID == b.ID {
		return Report{}, game.NewInvalidConfigurationError("agent id", b.ID)
	}

	reports := make([]gameReport, r.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Workers, 1))
	for i := range r.Games {
		black, white := a, b
		if i%2 == 1 {
			black, white = b, a
		}
		g.Go(func() error {
			report, err := r.playGame(ctx, i+1, black, white)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			reports[i] = report
			log.Info().Msgf("completed game %d of %d with winner: %s", i+1, r.Games, report.game.Winner)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := Report{Configs: []metrics.AgentConfig{a, b}}
	for _, gr := range reports {
		report.Games = append(report.Games, gr.game)
		report.Moves = append(report.Moves, gr.moves...)
	}
	return report, nil
}

func (r Runner) playGame(ctx context.Context, id int, black, white metrics.AgentConfig) (gameReport, error) {
	// Policies keep per-search state, so every game gets its own
	blackPlayer, err := NewPlayer(black, r.Seed+uint64(id))
	if err != nil {
		return gameReport{}, err
	}
	whitePlayer, err := NewPlayer(white, r.Seed+uint64(id))
	if err != nil {
		return gameReport{}, err
	}

	start, err := RandomOpening(r.RandomOpening, r.Seed+uint64(id))
	if err != nil {
		return gameReport{}, err
	}
	options := []engine.Option{engine.WithStartingState(start)}
	if r.TurnTime > 0 {
		options = append(options, engine.WithTurnTime(r.TurnTime))
	}

	result, err := engine.NewLocalEngine(blackPlayer, whitePlayer, options...).Run(ctx)
	if err != nil {
		return gameReport{}, err
	}

	report := gameReport{
		game: metrics.GameRecord{
			ID:         id,
			BlackAgent: black.ID,
			WhiteAgent: white.ID,
			GameMetric: result.Game,
		},
	}
	if winner, ok := result.Final.Winner(); ok {
		report.game.WinnerAgent = black.ID
		if winner == game.White {
			report.game.WinnerAgent = white.ID
		}
	}
	for _, mm := range result.MoveMetrics {
		agentID := black.ID
		if mm.Player == game.White {
			agentID = white.ID
		}
		report.moves = append(report.moves, metrics.MoveRecord{Game: id, Agent: agentID, MoveMetric: mm})
	}
	return report, nil
}

// NewPlayer builds a fresh driver for config.
func NewPlayer(config metrics.AgentConfig, seed uint64) (*agent.Driver, error) {
	if config.Seed != 0 {
		seed = config.Seed
	}
	policy, err := searcher.New(config.Policy, searcher.Settings{
		Depth:     config.Depth,
		Pruning:   config.Pruning,
		Episodes:  config.Episodes,
		Seed:      seed,
		Collector: metrics.NewCollector(),
	})
	if err != nil {
		return nil, err
	}
	return agent.NewDriver(policy), nil
}

// RandomOpening plays plies uniformly random moves from the standard opening,
// passing when needed. It stops early if the game ends.
func RandomOpening(plies int, seed uint64) (game.GameState, error) {
	state := game.NewGameState()
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < plies && !state.IsOver(); i++ {
		move := game.Pass
		if legal := state.LegalMoves(); len(legal) > 0 {
			move = legal[rng.Intn(len(legal))]
		}
		var err error
		state, err = state.Play(move)
		if err != nil {
			return state, err
		}
	}
	return state, nil
}

// RunExperiment plays the match and stores the configs and records as CSV
// under dir/name. It returns the directory written to.
func RunExperiment(ctx context.Context, r Runner, dir, name string, a, b metrics.AgentConfig) (string, Report, error) {
	log.Info().Msgf("starting %s experiment between agent %d (%s) and agent %d (%s)...", name, a.ID, a.Policy, b.ID, b.Policy)

	report, err := r.Run(ctx, a, b)
	if err != nil {
		return "", report, err
	}
	log.Info().Msgf("completed %s experiment", name)

	writer, err := metrics.NewWriter(dir, name)
	if err != nil {
		return "", report, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(report.Configs); err != nil {
		return "", report, fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(report.Games); err != nil {
		return "", report, fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(report.Moves); err != nil {
		return "", report, fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	return writer.Dir(), report, nil
}
