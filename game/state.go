package game

// GameState is a board together with the color to move.
type GameState struct {
	Board  Board
	ToMove Color
}

// NewGameState returns the standard opening with black to move.
func NewGameState() GameState {
	return GameState{Board: NewBoard(), ToMove: Black}
}

func (gs GameState) LegalMoves() []Move {
	return LegalMoves(gs.Board, gs.ToMove)
}

// Play applies a move, or a pass when the color to move has none, and hands
// the turn to the opponent.
func (gs GameState) Play(m Move) (GameState, error) {
	if m.IsPass() {
		if HasAnyMove(gs.Board, gs.ToMove) {
			return gs, &IllegalMoveError{Move: m, Color: gs.ToMove, Reason: "cannot pass with a legal move available"}
		}
		return GameState{Board: gs.Board, ToMove: gs.ToMove.Opponent()}, nil
	}
	next, err := gs.Board.Apply(m, gs.ToMove)
	if err != nil {
		return gs, err
	}
	return GameState{Board: next, ToMove: gs.ToMove.Opponent()}, nil
}

func (gs GameState) IsOver() bool {
	return IsTerminal(gs.Board)
}

// Counts returns the number of black and white discs.
func (gs GameState) Counts() (black, white int) {
	return gs.Board.CountPieces(Black), gs.Board.CountPieces(White)
}

// Winner returns the color with more discs once the game is over. ok is false
// while the game is open or when it ended in a draw.
func (gs GameState) Winner() (winner Color, ok bool) {
	if !gs.IsOver() {
		return 0, false
	}
	black, white := gs.Counts()
	switch {
	case black > white:
		return Black, true
	case white > black:
		return White, true
	}
	return 0, false
}
