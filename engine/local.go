package engine

import (
	"context"
	"fmt"
	"othello/experiments/metrics"
	"othello/game"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type Option func(e *LocalEngine)

// WithStartingState starts the game from gs instead of the standard opening.
func WithStartingState(gs game.GameState) Option {
	return func(e *LocalEngine) {
		e.start = gs
	}
}

// WithTurnTime gives each decision a deadline of d.
func WithTurnTime(d time.Duration) Option {
	return func(e *LocalEngine) {
		if d > 0 {
			e.turnTime = d
		}
	}
}

// LocalEngine plays two players against each other in process.
type LocalEngine struct {
	players  [2]Player // Indexed by color, black first
	start    game.GameState
	turnTime time.Duration
}

func NewLocalEngine(black, white Player, options ...Option) *LocalEngine {
	e := &LocalEngine{
		players: [2]Player{black, white},
		start:   game.NewGameState(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

func (e *LocalEngine) player(c game.Color) Player {
	if c == game.Black {
		return e.players[0]
	}
	return e.players[1]
}

// Run executes the game loop. Every move a player returns is checked against
// the legal moves of the position, and a player with no move must pass.
func (e *LocalEngine) Run(ctx context.Context) (Result, error) {
	state := e.start
	result := Result{
		Game: metrics.GameMetric{
			StartingPlayer: state.ToMove,
			StartTime:      time.Now(),
		},
	}

	log.Debug().Msgf("%s is starting", state.ToMove)

	for step := 1; !state.IsOver(); step++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		legal := state.LegalMoves()
		move, searchMetric, err := e.decide(ctx, state, legal)
		if err != nil {
			return result, fmt.Errorf("%s failed to decide at step %d: %w", state.ToMove, step, err)
		}
		if move.IsPass() != (len(legal) == 0) || (!move.IsPass() && !lo.Contains(legal, move)) {
			return result, &game.IllegalMoveError{Move: move, Color: state.ToMove, Reason: "not among the legal moves"}
		}

		result.MoveMetrics = append(result.MoveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       state.ToMove,
			Move:         move,
			SearchMetric: searchMetric,
		})
		result.Moves = append(result.Moves, move)
		if move.IsPass() {
			result.Game.Passes++
		}

		state, err = state.Play(move)
		if err != nil {
			return result, err
		}
	}

	result.Final = state
	result.Game.EndTime = time.Now()
	result.Game.Duration = result.Game.EndTime.Sub(result.Game.StartTime)
	result.Game.TotalMoves = len(result.Moves)
	result.Game.Black, result.Game.White = state.Counts()
	result.Game.Winner = winnerName(state)

	log.Debug().Msgf("game over after %d moves, black %d white %d, winner: %s",
		result.Game.TotalMoves, result.Game.Black, result.Game.White, result.Game.Winner)
	return result, nil
}

func (e *LocalEngine) decide(ctx context.Context, state game.GameState, legal []game.Move) (game.Move, metrics.SearchMetric, error) {
	if e.turnTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.turnTime)
		defer cancel()
	}
	return e.player(state.ToMove).Decide(ctx, state.Board, state.ToMove, legal)
}
