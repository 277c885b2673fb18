package game

import "fmt"

// Wire encoding used by the game server: 0 empty, 1 the first player (black),
// 2 the second player (white), indexed [row][col].

func ColorFromPlayer(player int) (Color, error) {
	switch player {
	case 1:
		return Black, nil
	case 2:
		return White, nil
	}
	return 0, fmt.Errorf("unknown player %d", player)
}

func (c Color) Player() int {
	return int(c.Disc())
}

func FromGrid(grid [][]int) (Board, error) {
	var b Board
	if len(grid) != Size {
		return b, fmt.Errorf("board has %d rows, want %d", len(grid), Size)
	}
	for row, cells := range grid {
		if len(cells) != Size {
			return b, fmt.Errorf("row %d has %d columns, want %d", row, len(cells), Size)
		}
		for col, v := range cells {
			switch v {
			case 0:
				b[row*Size+col] = Empty
			case 1:
				b[row*Size+col] = BlackDisc
			case 2:
				b[row*Size+col] = WhiteDisc
			default:
				return b, fmt.Errorf("cell (%d,%d) has unknown value %d", row, col, v)
			}
		}
	}
	return b, nil
}

func (b Board) Grid() [][]int {
	grid := make([][]int, Size)
	for row := range grid {
		grid[row] = make([]int, Size)
		for col := range grid[row] {
			grid[row][col] = int(b.At(row, col))
		}
	}
	return grid
}

// MoveFromPair converts a [row, col] pair; [-1, -1] is a pass.
func MoveFromPair(pair []int) (Move, error) {
	if len(pair) != 2 {
		return Move{}, fmt.Errorf("move %v is not a [row, col] pair", pair)
	}
	m := Move{Row: pair[0], Col: pair[1]}
	if !m.IsPass() && !m.InBounds() {
		return m, fmt.Errorf("move %v is off the board", pair)
	}
	return m, nil
}

func (m Move) Pair() []int {
	return []int{m.Row, m.Col}
}
