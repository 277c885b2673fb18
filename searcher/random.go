package searcher

import (
	"othello/game"

	"golang.org/x/exp/rand"
)

// Random plays a uniformly random legal move. It is the baseline opponent for
// experiments.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Name() string {
	return RandomName
}

func (r *Random) Choose(b game.Board, c game.Color, legal []game.Move) (game.Move, error) {
	if len(legal) == 0 {
		return game.Pass, game.ErrNoLegalMove
	}
	move := legal[r.rng.Intn(len(legal))]
	if b.Flips(move, c) == 0 {
		return game.Pass, &game.IllegalMoveError{Move: move, Color: c, Reason: "captures nothing or cell is occupied"}
	}
	return move, nil
}
