package searcher

import (
	"fmt"
	"math"
	"othello/game"
)

func ucb1(rewards float64, visits float64, normalizer float64) float64 {
	if visits == 0 { // Prevent division by zero
		panic("cannot compute UCB1: 0 visits")
	}

	return rewards/visits + math.Sqrt(normalizer/visits)
}

// treeMoves lists the edges out of a tree node: the legal moves, a lone pass
// when the mover is blocked, nothing once the game is over.
func treeMoves(state game.GameState) []game.Move {
	if state.IsOver() {
		return nil
	}
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return []game.Move{game.Pass}
	}
	return moves
}

func mustPlay(state game.GameState, move game.Move) game.GameState {
	next, err := state.Play(move)
	if err != nil {
		panic(fmt.Sprintf("generated move %s is illegal: %v", move, err))
	}
	return next
}

// rewarder scores a finished episode for one color.
type rewarder func(c game.Color) float64

func outcome(state game.GameState) rewarder {
	winner, ok := state.Winner()
	return func(c game.Color) float64 {
		switch {
		case !ok:
			return DRAW
		case c == winner:
			return WIN
		}
		return LOSS
	}
}

// estimate maps an evaluation of a cut off playout onto the reward range.
func estimate(b game.Board, evaluate game.Evaluate) rewarder {
	return func(c game.Color) float64 {
		x := float64(evaluate(b, c)) / float64(game.MaxDifferential)
		x = math.Max(-1, math.Min(1, x))
		return DRAW + x*(WIN-DRAW)
	}
}
