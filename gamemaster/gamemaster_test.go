package gamemaster

import (
	"context"
	"net"
	"othello/agent"
	"othello/communication/client"
	"othello/game"
	"othello/searcher"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGameMasterRunGame(t *testing.T) {
	t.Run("hosts a full game between two TCP agents", func(t *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		gm := NewGameMaster(listener, WithTurnTime(2*time.Second))
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		minimax, err := searcher.NewMinimax(3, searcher.WithPruning())
		require.NoError(t, err)
		addr := listener.Addr().String()
		errs := make(chan error, 2)
		for _, policy := range []searcher.Policy{searcher.NewGreedy(), minimax} {
			c := client.NewClient(addr, agent.NewDriver(policy), client.WithDeadlineFraction(0.5))
			go func() { errs <- c.Run(ctx) }()
		}

		result, err := gm.RunGame(ctx)

		require.NoError(t, err)
		require.True(t, result.Final.IsOver())
		state := game.NewGameState()
		for _, m := range result.Moves {
			state, err = state.Play(m)
			require.NoError(t, err)
		}
		require.Equal(t, result.Final, state)
		require.Equal(t, 64, result.Game.Black+result.Game.White+countEmpty(result.Final.Board))

		for range 2 {
			require.NoError(t, <-errs, "Clients should stop cleanly when the game ends")
		}
	})

	t.Run("stops waiting for agents when ctx is cancelled", func(t *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		gm := NewGameMaster(listener)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err = gm.RunGame(ctx)

		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func countEmpty(b game.Board) int {
	n := 0
	for _, cell := range b {
		if cell == game.Empty {
			n++
		}
	}
	return n
}
