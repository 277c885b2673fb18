package engine

import (
	"context"
	"othello/experiments/metrics"
	"othello/game"
)

// Player decides moves for one side. *agent.Driver and *RemotePlayer
// implement it.
type Player interface {
	Decide(ctx context.Context, b game.Board, c game.Color, legal []game.Move) (game.Move, metrics.SearchMetric, error)
}

type Result struct {
	Final       game.GameState
	Moves       []game.Move
	Game        metrics.GameMetric
	MoveMetrics []metrics.MoveMetric
}

type Engine interface {
	// Run plays a game from the engine's starting position until neither
	// color can move.
	Run(ctx context.Context) (Result, error)
}

func winnerName(gs game.GameState) string {
	if winner, ok := gs.Winner(); ok {
		return winner.String()
	}
	return "draw"
}
