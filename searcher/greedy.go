package searcher

import (
	"othello/game"

	"golang.org/x/exp/rand"
)

type GreedyOption func(g *Greedy)

// Greedy plays the move that flips the most opponent discs this turn.
type Greedy struct {
	rng *rand.Rand
}

// WithRandomTieBreak picks uniformly among equally good moves instead of the
// earliest one.
func WithRandomTieBreak(seed uint64) GreedyOption {
	return func(g *Greedy) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

func NewGreedy(options ...GreedyOption) *Greedy {
	g := &Greedy{}
	for _, option := range options {
		option(g)
	}
	return g
}

func (g *Greedy) Name() string {
	return GreedyName
}

func (g *Greedy) Choose(b game.Board, c game.Color, legal []game.Move) (game.Move, error) {
	if len(legal) == 0 {
		return game.Pass, game.ErrNoLegalMove
	}

	before := b.CountPieces(c)
	best := []game.Move{}
	maxFlips := -1
	for _, move := range legal {
		next, err := b.Apply(move, c)
		if err != nil {
			return game.Pass, err
		}
		// Captures only, the placed disc does not count
		flips := next.CountPieces(c) - before - 1
		switch {
		case flips > maxFlips:
			maxFlips = flips
			best = append(best[:0], move)
		case flips == maxFlips:
			best = append(best, move)
		}
	}

	if g.rng != nil && len(best) > 1 {
		return best[g.rng.Intn(len(best))], nil
	}
	return best[0], nil
}
