package game

import "strings"

// Board is the 8x8 grid stored row-major. It is a value type: every operation
// that changes the grid returns a new Board and leaves the receiver untouched.
type Board [Cells]Cell

var directions = [8]struct{ dRow, dCol int }{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// NewBoard returns the standard starting position.
func NewBoard() Board {
	var b Board
	mid := Size / 2
	b[(mid-1)*Size+mid-1], b[mid*Size+mid] = WhiteDisc, WhiteDisc
	b[(mid-1)*Size+mid], b[mid*Size+mid-1] = BlackDisc, BlackDisc
	return b
}

func (b Board) At(row, col int) Cell {
	return b[row*Size+col]
}

// Set returns a copy of the board with one cell replaced.
func (b Board) Set(row, col int, cell Cell) Board {
	b[row*Size+col] = cell
	return b
}

func (b Board) CountPieces(c Color) int {
	disc := c.Disc()
	count := 0
	for _, cell := range b {
		if cell == disc {
			count++
		}
	}
	return count
}

func (b Board) IsFull() bool {
	for _, cell := range b {
		if cell == Empty {
			return false
		}
	}
	return true
}

// captureRun returns the length of the opponent run starting next to (row, col)
// in the given direction, or 0 when the run is not closed by a disc of the
// mover before an empty cell or the edge.
func (b Board) captureRun(row, col, dRow, dCol int, own, other Cell) int {
	run := 0
	r, c := row+dRow, col+dCol
	for r >= 0 && r < Size && c >= 0 && c < Size {
		switch b[r*Size+c] {
		case other:
			run++
		case own:
			return run
		default:
			return 0
		}
		r, c = r+dRow, c+dCol
	}
	return 0
}

// Flips returns the number of opponent discs the move would capture. It is 0
// for moves that are off the board, occupied or capture nothing.
func (b Board) Flips(m Move, c Color) int {
	if !m.InBounds() || b[m.index()] != Empty {
		return 0
	}
	own, other := c.Disc(), c.Opponent().Disc()
	total := 0
	for _, d := range directions {
		total += b.captureRun(m.Row, m.Col, d.dRow, d.dCol, own, other)
	}
	return total
}

// Apply places a disc of color c at m and flips every captured line.
func (b Board) Apply(m Move, c Color) (Board, error) {
	if !m.InBounds() {
		return b, &IllegalMoveError{Move: m, Color: c, Reason: "off the board"}
	}
	if b[m.index()] != Empty {
		return b, &IllegalMoveError{Move: m, Color: c, Reason: "cell is occupied"}
	}

	own, other := c.Disc(), c.Opponent().Disc()
	next := b
	captured := 0
	for _, d := range directions {
		run := b.captureRun(m.Row, m.Col, d.dRow, d.dCol, own, other)
		for i := 1; i <= run; i++ {
			next[(m.Row+i*d.dRow)*Size+m.Col+i*d.dCol] = own
		}
		captured += run
	}
	if captured == 0 {
		return b, &IllegalMoveError{Move: m, Color: c, Reason: "captures nothing"}
	}
	next[m.index()] = own
	return next, nil
}

func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			sb.WriteString(b.At(row, col).String())
		}
		if row < Size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// ParseBoard reads the format written by String: eight lines of '.', 'B' and
// 'W'. Blank lines and surrounding spaces are ignored.
func ParseBoard(s string) (Board, error) {
	var b Board
	row := 0
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if row >= Size || len(line) != Size {
			return b, NewInvalidConfigurationError("board", s)
		}
		for col, ch := range line {
			switch ch {
			case '.':
				b[row*Size+col] = Empty
			case 'B':
				b[row*Size+col] = BlackDisc
			case 'W':
				b[row*Size+col] = WhiteDisc
			default:
				return b, NewInvalidConfigurationError("board", s)
			}
		}
		row++
	}
	if row != Size {
		return b, NewInvalidConfigurationError("board", s)
	}
	return b, nil
}
