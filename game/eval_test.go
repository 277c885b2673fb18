package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	t.Run("open position scores the piece differential", func(t *testing.T) {
		b, err := NewBoard().Apply(Move{Row: 2, Col: 3}, Black)
		require.NoError(t, err)

		require.Equal(t, 3, Score(b, Black))
		require.Equal(t, -3, Score(b, White))
		require.Equal(t, 0, Score(NewBoard(), Black))
	})

	t.Run("terminal win and loss saturate", func(t *testing.T) {
		b := Board{}.Set(0, 0, BlackDisc)

		require.Equal(t, WinScore, Score(b, Black))
		require.Equal(t, LossScore, Score(b, White))
	})

	t.Run("terminal tie uses a dedicated sentinel", func(t *testing.T) {
		var b Board
		for i := range b {
			if i%2 == 0 {
				b[i] = BlackDisc
			} else {
				b[i] = WhiteDisc
			}
		}

		require.Equal(t, TieScore, Score(b, Black))
		require.Equal(t, TieScore, Score(b, White))
		require.NotEqual(t, 0, TieScore, "Tie should differ from an even open position")
	})

	t.Run("ordering of terminal and open scores", func(t *testing.T) {
		require.Greater(t, WinScore, MaxDifferential)
		require.Less(t, LossScore, -MaxDifferential)
		require.Greater(t, WinScore, TieScore)
		require.Less(t, LossScore, TieScore)
		for diff := -MaxDifferential; diff <= MaxDifferential; diff++ {
			require.NotEqual(t, TieScore, diff)
		}
	})
}

func TestDifferential(t *testing.T) {
	b := mustParse(t, `
		BBB.....
		W.......
		........
		........
		........
		........
		........
		........`)

	require.Equal(t, 2, Differential(b, Black))
	require.Equal(t, -2, Differential(b, White))
}
