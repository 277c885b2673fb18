package game

import "fmt"

// Size is the number of rows and columns on the board.
const Size = 8

// Cells is the total number of squares on the board.
const Cells = Size * Size

type Color uint8

const (
	Black Color = iota + 1
	White
)

func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	panic(fmt.Sprintf("unexpected color %d", c))
}

// Disc returns the cell value occupied by a disc of this color.
func (c Color) Disc() Cell {
	switch c {
	case Black:
		return BlackDisc
	case White:
		return WhiteDisc
	}
	panic(fmt.Sprintf("unexpected color %d", c))
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return fmt.Sprintf("color(%d)", c)
}

type Cell uint8

const (
	Empty Cell = iota
	BlackDisc
	WhiteDisc
)

func (c Cell) String() string {
	switch c {
	case BlackDisc:
		return "B"
	case WhiteDisc:
		return "W"
	}
	return "."
}

// Move is a board position for the color to move. Pass is the only move
// outside the board.
type Move struct {
	Row int
	Col int
}

// Pass is played when the color to move has no legal move.
var Pass = Move{Row: -1, Col: -1}

func (m Move) IsPass() bool {
	return m == Pass
}

func (m Move) InBounds() bool {
	return m.Row >= 0 && m.Row < Size && m.Col >= 0 && m.Col < Size
}

func (m Move) index() int {
	return m.Row*Size + m.Col
}

func (m Move) String() string {
	if m.IsPass() {
		return "pass"
	}
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}

// Evaluates a board to an integer score from the perspective color's point of
// view; larger is better for that color.
type Evaluate func(b Board, perspective Color) int
