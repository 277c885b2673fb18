package searcher

import (
	"context"
	"othello/experiments/metrics"
	"othello/game"
	"runtime"
)

const (
	GreedyName  = "greedy"
	MinimaxName = "minimax"
	RandomName  = "random"
	MCTSName    = "mcts"
)

// Policy picks one move out of a non-empty list of legal moves. It never
// passes: an empty list is reported as game.ErrNoLegalMove.
type Policy interface {
	Name() string
	Choose(b game.Board, c game.Color, legal []game.Move) (game.Move, error)
}

// DeadlinePolicy can return early with the best move found so far when ctx is
// done.
type DeadlinePolicy interface {
	Policy
	ChooseWithin(ctx context.Context, b game.Board, c game.Color, legal []game.Move) (game.Move, error)
}

// Metered policies report statistics about their last decision.
type Metered interface {
	Metric() metrics.SearchMetric
}

// Settings configures New. Fields a policy does not use are ignored.
type Settings struct {
	Depth     int    // Minimax plies
	Pruning   bool   // Minimax alpha-beta
	Episodes  int    // MCTS episodes, 0 for the default
	Seed      uint64 // Random choices and MCTS rollouts
	Collector metrics.Collector
}

// New builds the policy registered under name.
func New(name string, s Settings) (Policy, error) {
	switch name {
	case GreedyName:
		return NewGreedy(), nil
	case MinimaxName:
		options := []Option{WithMetrics(s.Collector)}
		if s.Pruning {
			options = append(options, WithPruning())
		}
		m, err := NewMinimax(s.Depth, options...)
		if err != nil {
			return nil, err
		}
		return m, nil
	case RandomName:
		return NewRandom(s.Seed), nil
	case MCTSName:
		m, err := NewMCTS(runtime.NumCPU(), WithEpisodes(s.Episodes), WithRolloutSeed(s.Seed), WithCollector(s.Collector))
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, game.NewInvalidConfigurationError("policy", name)
}
