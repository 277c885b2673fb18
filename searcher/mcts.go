package searcher

import (
	"context"
	"othello/experiments/metrics"
	"othello/game"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type MCTSOption func(m *MCTS)

// MCTS is a tree-parallel Monte Carlo tree search: goroutines share one tree
// and use virtual losses to spread over it.
type MCTS struct {
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int // Playout plies before evaluating, 0 plays out to the end
	evaluate   game.Evaluate
	seed       uint64
	metrics    metrics.Collector
	last       metrics.SearchMetric
}

func WithDuration(duration time.Duration) MCTSOption {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) MCTSOption {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithCutoff(plies int) MCTSOption {
	return func(m *MCTS) {
		if plies > 0 {
			m.cutoff = plies
		}
	}
}

func WithRolloutEvaluation(evaluate game.Evaluate) MCTSOption {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithRolloutSeed(seed uint64) MCTSOption {
	return func(m *MCTS) {
		m.seed = seed
	}
}

func WithCollector(collector metrics.Collector) MCTSOption {
	return func(m *MCTS) {
		if collector != nil {
			m.metrics = collector
		}
	}
}

func NewMCTS(goroutines int, options ...MCTSOption) (*MCTS, error) {
	if goroutines <= 0 {
		return nil, game.NewInvalidConfigurationError("goroutines", goroutines)
	}
	m := &MCTS{ // Default values
		goroutines: goroutines,
		evaluate:   game.Score,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.episodes == 0 && m.duration == 0 {
		m.episodes = DEFAULT_EPISODES
	}
	return m, nil
}

func (m *MCTS) Name() string {
	return MCTSName
}

func (m *MCTS) Metric() metrics.SearchMetric {
	return m.last
}

// Choose searches for the configured episodes or duration, whichever ends
// first.
func (m *MCTS) Choose(b game.Board, c game.Color, legal []game.Move) (game.Move, error) {
	ctx := context.Background()
	if m.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.duration)
		defer cancel()
	}
	return m.ChooseWithin(ctx, b, c, legal)
}

// ChooseWithin also stops when ctx is done. Every legal move gets at least one
// episode regardless of ctx.
func (m *MCTS) ChooseWithin(ctx context.Context, b game.Board, c game.Color, legal []game.Move) (game.Move, error) {
	if len(legal) == 0 {
		return game.Pass, game.ErrNoLegalMove
	}
	for _, move := range legal {
		if _, err := b.Apply(move, c); err != nil {
			return game.Pass, err
		}
	}

	m.metrics.Start(MCTSName, 0)
	state := game.GameState{Board: b, ToMove: c}
	root := newDecision(nil, c.Opponent(), append([]game.Move(nil), legal...))

	rng := rand.New(rand.NewSource(m.seed))
	for range legal {
		m.simulate(root, state, rng)
	}
	m.search(ctx, root, state, len(legal))

	m.metrics.SetCompletedDepth(1)
	m.last = m.metrics.Complete()
	move := root.bestMove()
	log.Debug().Msgf("mcts ran %d episodes in %s, chose %s", m.last.Nodes, m.last.Duration, move)
	return move, nil
}

func (m *MCTS) search(ctx context.Context, root *decision, state game.GameState, done int) {
	var remaining atomic.Int64
	remaining.Store(int64(m.episodes - done))

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			rng := rand.New(rand.NewSource(m.seed + uint64(i) + 1))
			for ctx.Err() == nil {
				if m.episodes > 0 && remaining.Add(-1) < 0 {
					return
				}
				m.simulate(root, state, rng)
			}
		}()
	}
	wg.Wait()
}

func (m *MCTS) simulate(root *decision, state game.GameState, rng *rand.Rand) {
	leaf, state := selectThenExpand(root, state)
	reward := m.rollout(state, rng)
	backup(leaf, reward)
	m.metrics.AddNode()
}

func selectThenExpand(root *decision, state game.GameState) (*decision, game.GameState) {
	node, state, selected := root.selectOrExpand(state)
	for selected {
		node, state, selected = node.selectOrExpand(state)
	}
	return node, state
}

func (m *MCTS) rollout(state game.GameState, rng *rand.Rand) rewarder {
	// Rollout till game over or for cutoff number of moves
	for depth := 0; !state.IsOver() && (m.cutoff == 0 || depth < m.cutoff); depth++ {
		move := game.Pass
		if moves := state.LegalMoves(); len(moves) > 0 {
			move = moves[rng.Intn(len(moves))] // Random rollout policy
		}
		state = mustPlay(state, move)
	}

	if state.IsOver() {
		return outcome(state)
	}
	return estimate(state.Board, m.evaluate)
}

func backup(leaf *decision, reward rewarder) {
	node := leaf
	for node != nil {
		node = node.backup(reward)
	}
}
