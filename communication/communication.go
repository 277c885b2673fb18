package communication

import (
	"bytes"
	"encoding/json"
	"fmt"
	"othello/game"
)

// TurnRequest is the message the game server sends each time the agent is on
// turn. Board uses the game.FromGrid encoding, MaxTurnTime is in milliseconds
// and Player is 1 for black, 2 for white.
type TurnRequest struct {
	Board       [][]int `json:"board"`
	MaxTurnTime int     `json:"maxTurnTime"`
	Player      int     `json:"player"`
}

// EncodeMove formats a reply line, "[row, col]\n". A pass is "[-1, -1]\n".
func EncodeMove(m game.Move) []byte {
	return []byte(fmt.Sprintf("[%d, %d]\n", m.Row, m.Col))
}

// DecodeMove parses one reply line.
func DecodeMove(line []byte) (game.Move, error) {
	var pair []int
	if err := json.Unmarshal(bytes.TrimSpace(line), &pair); err != nil {
		return game.Move{}, fmt.Errorf("failed to decode move %q: %w", line, err)
	}
	return game.MoveFromPair(pair)
}
