package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"othello/agent"
	"othello/experiments/metrics"
	"othello/game"
	"othello/searcher"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fixedPlayer struct {
	move game.Move
}

func (p fixedPlayer) Decide(ctx context.Context, b game.Board, c game.Color, legal []game.Move) (game.Move, metrics.SearchMetric, error) {
	return p.move, metrics.SearchMetric{}, nil
}

func newMinimaxDriver(t *testing.T, depth int) *agent.Driver {
	t.Helper()
	m, err := searcher.NewMinimax(depth, searcher.WithPruning(), searcher.WithMetrics(metrics.NewCollector()))
	require.NoError(t, err)
	return agent.NewDriver(m)
}

// requireLegalReplay replays result.Moves from start and checks it reaches
// result.Final.
func requireLegalReplay(t *testing.T, start game.GameState, result Result) {
	t.Helper()
	state := start
	for i, m := range result.Moves {
		var err error
		state, err = state.Play(m)
		require.NoError(t, err, "Move %d (%s) should be legal", i+1, m)
	}
	require.Equal(t, result.Final, state)
	require.True(t, state.IsOver())
}

func TestLocalEngine(t *testing.T) {
	t.Run("plays a complete legal game", func(t *testing.T) {
		e := NewLocalEngine(agent.NewDriver(searcher.NewGreedy()), newMinimaxDriver(t, 2))

		result, err := e.Run(context.Background())

		require.NoError(t, err)
		requireLegalReplay(t, game.NewGameState(), result)
		require.Len(t, result.MoveMetrics, len(result.Moves))
		require.Equal(t, game.Black, result.Game.StartingPlayer)
		require.Equal(t, len(result.Moves), result.Game.TotalMoves)

		black, white := result.Final.Counts()
		require.Equal(t, black, result.Game.Black)
		require.Equal(t, white, result.Game.White)
		switch {
		case black > white:
			require.Equal(t, "black", result.Game.Winner)
		case white > black:
			require.Equal(t, "white", result.Game.Winner)
		default:
			require.Equal(t, "draw", result.Game.Winner)
		}
	})

	t.Run("records search metrics per move", func(t *testing.T) {
		e := NewLocalEngine(newMinimaxDriver(t, 1), agent.NewDriver(searcher.NewGreedy()))

		result, err := e.Run(context.Background())

		require.NoError(t, err)
		for _, mm := range result.MoveMetrics {
			if mm.Player == game.Black && !mm.Move.IsPass() {
				require.Equal(t, searcher.MinimaxName, mm.Policy)
				require.Positive(t, mm.Nodes)
			}
		}
	})

	t.Run("routes passes", func(t *testing.T) {
		// White has no move, black only (0,2)
		start := game.GameState{Board: mustParse(t, `
			BW......
			........
			........
			........
			........
			........
			........
			........`), ToMove: game.White}
		e := NewLocalEngine(agent.NewDriver(searcher.NewGreedy()), agent.NewDriver(searcher.NewGreedy()), WithStartingState(start))

		result, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, []game.Move{game.Pass, {Row: 0, Col: 2}}, result.Moves)
		require.Equal(t, 1, result.Game.Passes)
		require.Equal(t, "black", result.Game.Winner)
		requireLegalReplay(t, start, result)
	})

	t.Run("rejects moves outside the legal moves", func(t *testing.T) {
		e := NewLocalEngine(fixedPlayer{move: game.Move{Row: 0, Col: 0}}, agent.NewDriver(searcher.NewGreedy()))

		_, err := e.Run(context.Background())

		require.ErrorIs(t, err, game.ErrIllegalMove)
	})

	t.Run("rejects passing with a legal move", func(t *testing.T) {
		e := NewLocalEngine(fixedPlayer{move: game.Pass}, agent.NewDriver(searcher.NewGreedy()))

		_, err := e.Run(context.Background())

		require.ErrorIs(t, err, game.ErrIllegalMove)
	})

	t.Run("stops when ctx is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := NewLocalEngine(agent.NewDriver(searcher.NewGreedy()), agent.NewDriver(searcher.NewGreedy()))

		_, err := e.Run(ctx)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("bounds decisions by the turn time", func(t *testing.T) {
		e := NewLocalEngine(newMinimaxDriver(t, 8), newMinimaxDriver(t, 8), WithTurnTime(20*time.Millisecond))

		result, err := e.Run(context.Background())

		require.NoError(t, err)
		requireLegalReplay(t, game.NewGameState(), result)
	})
}

func TestRemotePlayer(t *testing.T) {
	t.Run("plays through an agent server", func(t *testing.T) {
		srv := httptest.NewServer(agent.NewServer(agent.NewDriver(searcher.NewGreedy()), 0.5).Handler())
		defer srv.Close()
		e := NewLocalEngine(NewRemotePlayer(srv.URL, srv.Client()), newMinimaxDriver(t, 2))

		result, err := e.Run(context.Background())

		require.NoError(t, err)
		requireLegalReplay(t, game.NewGameState(), result)
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls atomic.Int32
		handler := agent.NewServer(agent.NewDriver(searcher.NewGreedy()), 0).Handler()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				http.Error(w, "try again", http.StatusServiceUnavailable)
				return
			}
			handler.ServeHTTP(w, r)
		}))
		defer srv.Close()
		b := game.NewBoard()

		got, _, err := NewRemotePlayer(srv.URL, srv.Client()).Decide(context.Background(), b, game.Black, game.LegalMoves(b, game.Black))

		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 2, Col: 3}, got)
		require.Equal(t, int32(2), calls.Load())
	})

	t.Run("does not retry rejected requests", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "bad board", http.StatusBadRequest)
		}))
		defer srv.Close()
		b := game.NewBoard()

		_, _, err := NewRemotePlayer(srv.URL, srv.Client()).Decide(context.Background(), b, game.Black, game.LegalMoves(b, game.Black))

		require.Error(t, err)
		require.Equal(t, int32(1), calls.Load())
	})
}

func mustParse(t *testing.T, s string) game.Board {
	t.Helper()
	b, err := game.ParseBoard(s)
	require.NoError(t, err)
	return b
}
