package searcher

import (
	"othello/game"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGreedyChoose(t *testing.T) {
	t.Run("picks the move with the most flips", func(t *testing.T) {
		b := mustParse(t, `
			.WB.....
			........
			.WWWB...
			........
			........
			........
			........
			........`)
		legal := game.LegalMoves(b, game.Black)

		got, err := NewGreedy().Choose(b, game.Black, legal)

		require.NoError(t, err)
		require.Equal(t, game.Move{Row: 2, Col: 0}, got)
	})

	t.Run("breaks ties by enumeration order", func(t *testing.T) {
		b := game.NewBoard()
		legal := game.LegalMoves(b, game.Black)

		got, err := NewGreedy().Choose(b, game.Black, legal)

		require.NoError(t, err)
		require.Equal(t, legal[0], got, "All openings flip one disc, first should win")
	})

	t.Run("is deterministic", func(t *testing.T) {
		g := NewGreedy()
		for _, state := range positions(t, 40) {
			legal := state.LegalMoves()
			first, err := g.Choose(state.Board, state.ToMove, legal)
			require.NoError(t, err)
			for i := 0; i < 3; i++ {
				again, err := g.Choose(state.Board, state.ToMove, legal)
				require.NoError(t, err)
				require.Equal(t, first, again)
			}
		}
	})

	t.Run("never picks a move with fewer flips than another", func(t *testing.T) {
		g := NewGreedy()
		for _, state := range positions(t, 60) {
			legal := state.LegalMoves()
			got, err := g.Choose(state.Board, state.ToMove, legal)
			require.NoError(t, err)

			chosen := state.Board.Flips(got, state.ToMove)
			for _, m := range legal {
				require.GreaterOrEqual(t, chosen, state.Board.Flips(m, state.ToMove),
					"Move %s flips more than chosen %s", m, got)
			}
		}
	})

	t.Run("random tie break stays among the best moves", func(t *testing.T) {
		b := game.NewBoard()
		legal := game.LegalMoves(b, game.Black)
		g := NewGreedy(WithRandomTieBreak(3))

		seen := map[game.Move]bool{}
		for i := 0; i < 50; i++ {
			got, err := g.Choose(b, game.Black, legal)
			require.NoError(t, err)
			require.Contains(t, legal, got)
			seen[got] = true
		}
		require.Greater(t, len(seen), 1, "Should vary between tied moves")
	})

	t.Run("fails without legal moves", func(t *testing.T) {
		_, err := NewGreedy().Choose(game.NewBoard(), game.Black, []game.Move{})

		require.ErrorIs(t, err, game.ErrNoLegalMove)
	})

	t.Run("reports an illegal candidate", func(t *testing.T) {
		_, err := NewGreedy().Choose(game.NewBoard(), game.Black, []game.Move{{Row: 0, Col: 0}})

		require.ErrorIs(t, err, game.ErrIllegalMove)
	})
}
