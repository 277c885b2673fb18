package game

// MaxDifferential bounds the magnitude of any piece differential.
const MaxDifferential = Cells

// Terminal scores. A finished game always outranks any unfinished position:
// LossScore < every differential < WinScore. A drawn game scores TieScore,
// which sits below every differential so the search keeps playing for a win
// while any open line remains, and above any loss.
const (
	WinScore  = 1000
	LossScore = -WinScore
	TieScore  = -(MaxDifferential + 1)
)

// Score evaluates b for perspective: the piece differential while the game is
// open, a win, loss or tie signal once neither color can move.
func Score(b Board, perspective Color) int {
	diff := Differential(b, perspective)
	if !IsTerminal(b) {
		return diff
	}
	switch {
	case diff > 0:
		return WinScore
	case diff < 0:
		return LossScore
	}
	return TieScore
}

// Differential is the perspective's disc count minus the opponent's.
func Differential(b Board, perspective Color) int {
	own, other := perspective.Disc(), perspective.Opponent().Disc()
	diff := 0
	for _, cell := range b {
		switch cell {
		case own:
			diff++
		case other:
			diff--
		}
	}
	return diff
}
