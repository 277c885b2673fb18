// meta/meta.go
package meta

import "time"

// DEFAULT_DEPTH is the minimax search depth in plies.
const DEFAULT_DEPTH = 5

// BLACK_PORT is the game server port for player 1; player 2 uses the next one.
const BLACK_PORT = 1337

// TURN_TIME is the default time a game server grants per move.
const TURN_TIME = time.Second

// DEADLINE_FRACTION is the share of the turn time spent searching.
const DEADLINE_FRACTION = 0.8

// RETRY_DELAY is the wait between connection attempts.
const RETRY_DELAY = time.Second
