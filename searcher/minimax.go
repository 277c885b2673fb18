package searcher

import (
	"context"
	"fmt"
	"math"
	"othello/experiments/metrics"
	"othello/game"

	"github.com/rs/zerolog/log"
)

type Option func(m *Minimax)

// Minimax searches a fixed number of plies, counting the mover's own move as
// the first ply, and plays the move with the best backed-up score.
type Minimax struct {
	depth    int
	pruning  bool
	evaluate game.Evaluate
	metrics  metrics.Collector
	last     metrics.SearchMetric
}

// WithPruning enables alpha-beta cutoffs. The chosen move is the same as with
// the exhaustive search.
func WithPruning() Option {
	return func(m *Minimax) {
		m.pruning = true
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(m *Minimax) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(m *Minimax) {
		if collector != nil {
			m.metrics = collector
		}
	}
}

func NewMinimax(depth int, options ...Option) (*Minimax, error) {
	if depth <= 0 {
		return nil, game.NewInvalidConfigurationError("depth", depth)
	}
	m := &Minimax{ // Default values
		depth:    depth,
		evaluate: game.Score,
		metrics:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m, nil
}

func (m *Minimax) Name() string {
	return MinimaxName
}

func (m *Minimax) Depth() int {
	return m.depth
}

func (m *Minimax) Metric() metrics.SearchMetric {
	return m.last
}

func (m *Minimax) Choose(b game.Board, c game.Color, legal []game.Move) (game.Move, error) {
	if len(legal) == 0 {
		return game.Pass, game.ErrNoLegalMove
	}

	m.metrics.Start(m.Name(), m.depth)
	move, value, err := m.search(context.Background(), b, c, legal, m.depth)
	if err == nil {
		m.metrics.SetCompletedDepth(m.depth)
	}
	m.last = m.metrics.Complete()
	if err != nil {
		return game.Pass, err
	}

	log.Debug().Msgf("minimax chose %s with value %d at depth %d", move, value, m.depth)
	return move, nil
}

// ChooseWithin deepens the search one ply at a time up to the configured depth
// and returns the move of the deepest search that finished before ctx was
// done. Depth 1 always completes.
func (m *Minimax) ChooseWithin(ctx context.Context, b game.Board, c game.Color, legal []game.Move) (game.Move, error) {
	if len(legal) == 0 {
		return game.Pass, game.ErrNoLegalMove
	}

	m.metrics.Start(m.Name(), m.depth)
	defer func() { m.last = m.metrics.Complete() }()

	best, _, err := m.search(context.Background(), b, c, legal, 1)
	if err != nil {
		return game.Pass, err
	}
	m.metrics.SetCompletedDepth(1)

	for depth := 2; depth <= m.depth; depth++ {
		move, value, err := m.search(ctx, b, c, legal, depth)
		if err != nil {
			if ctx.Err() != nil {
				log.Debug().Msgf("search cut off at depth %d, playing %s", depth, best)
				break
			}
			return game.Pass, err
		}
		best = move
		m.metrics.SetCompletedDepth(depth)
		log.Debug().Msgf("depth %d complete: %s with value %d", depth, move, value)
	}
	return best, nil
}

// Value is the backed-up score of b for perspective with toMove to play and
// depth plies left.
func (m *Minimax) Value(b game.Board, toMove game.Color, depth int, perspective game.Color) int {
	v, _ := m.value(context.Background(), b, toMove, depth, perspective, math.MinInt, math.MaxInt)
	return v
}

// search scores every root move in order; the first move reaching the maximum
// wins ties.
func (m *Minimax) search(ctx context.Context, b game.Board, c game.Color, legal []game.Move, depth int) (game.Move, int, error) {
	best := game.Pass
	bestValue := math.MinInt
	alpha, beta := math.MinInt, math.MaxInt
	for _, move := range legal {
		next, err := b.Apply(move, c)
		if err != nil {
			return game.Pass, 0, err
		}
		v, err := m.value(ctx, next, c.Opponent(), depth-1, c, alpha, beta)
		if err != nil {
			return game.Pass, 0, err
		}
		if v > bestValue {
			best, bestValue = move, v
		}
		if m.pruning {
			alpha = max(alpha, bestValue)
		}
	}
	return best, bestValue, nil
}

// value returns a score in (alpha, beta) exactly; outside the window it only
// returns a bound on the correct side. Without pruning the window never
// narrows and every score is exact.
func (m *Minimax) value(ctx context.Context, b game.Board, toMove game.Color, depth int, perspective game.Color, alpha, beta int) (int, error) {
	m.metrics.AddNode()
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	// A finished game and an exhausted depth both evaluate statically
	if depth == 0 {
		return m.evaluate(b, perspective), nil
	}
	moves := game.LegalMoves(b, toMove)
	opponent := toMove.Opponent()
	if len(moves) == 0 {
		if !game.HasAnyMove(b, opponent) {
			return m.evaluate(b, perspective), nil
		}
		// Pass still costs a ply
		return m.value(ctx, b, opponent, depth-1, perspective, alpha, beta)
	}

	maximizing := toMove == perspective
	best := math.MaxInt
	if maximizing {
		best = math.MinInt
	}
	for _, move := range moves {
		next, err := b.Apply(move, toMove)
		if err != nil {
			panic(fmt.Sprintf("generated move does not apply: %v", err))
		}
		v, err := m.value(ctx, next, opponent, depth-1, perspective, alpha, beta)
		if err != nil {
			return 0, err
		}
		if maximizing {
			best = max(best, v)
			if m.pruning {
				alpha = max(alpha, best)
			}
		} else {
			best = min(best, v)
			if m.pruning {
				beta = min(beta, best)
			}
		}
		if m.pruning && alpha >= beta {
			break
		}
	}
	return best, nil
}
