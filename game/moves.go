package game

// LegalMoves enumerates the legal moves of color c in row-major order. An
// empty result means c has to pass.
func LegalMoves(b Board, c Color) []Move {
	moves := []Move{}
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			m := Move{Row: row, Col: col}
			if b.Flips(m, c) > 0 {
				moves = append(moves, m)
			}
		}
	}
	return moves
}

func HasAnyMove(b Board, c Color) bool {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b.Flips(Move{Row: row, Col: col}, c) > 0 {
				return true
			}
		}
	}
	return false
}

// IsTerminal reports whether neither color can move.
func IsTerminal(b Board) bool {
	return !HasAnyMove(b, Black) && !HasAnyMove(b, White)
}
