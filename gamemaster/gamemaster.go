package gamemaster

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"othello/communication"
	"othello/engine"
	"othello/experiments/metrics"
	"othello/game"
	"othello/meta"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultTurnTime = meta.TURN_TIME

type Option func(gm *GameMaster)

// WithTurnTime sets the maxTurnTime sent to agents and the time they get to
// answer.
func WithTurnTime(d time.Duration) Option {
	return func(gm *GameMaster) {
		if d > 0 {
			gm.turnTime = d
		}
	}
}

// GameMaster hosts games for agents speaking the TCP protocol. The first
// agent to connect plays black, the second white.
type GameMaster struct {
	listener net.Listener
	turnTime time.Duration
}

func NewGameMaster(listener net.Listener, options ...Option) *GameMaster {
	gm := &GameMaster{listener: listener, turnTime: DefaultTurnTime}
	for _, option := range options {
		option(gm)
	}
	return gm
}

// RunGame waits for two agents, plays one game between them and closes both
// connections.
func (gm *GameMaster) RunGame(ctx context.Context) (engine.Result, error) {
	stop := context.AfterFunc(ctx, func() { gm.listener.Close() })
	defer stop()

	var conns []net.Conn
	defer func() {
		for _, conn := range conns {
			conn.Close()
		}
	}()
	for _, c := range []game.Color{game.Black, game.White} {
		conn, err := gm.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return engine.Result{}, ctx.Err()
			}
			return engine.Result{}, fmt.Errorf("failed to accept %s: %w", c, err)
		}
		log.Info().Msgf("%s connected from %s", c, conn.RemoteAddr())
		conns = append(conns, conn)
	}

	e := engine.NewLocalEngine(
		newConnPlayer(conns[0], gm.turnTime),
		newConnPlayer(conns[1], gm.turnTime),
		engine.WithTurnTime(gm.turnTime),
	)
	result, err := e.Run(ctx)
	if err != nil {
		return result, err
	}
	log.Info().Msgf("game over, black %d white %d, winner: %s", result.Game.Black, result.Game.White, result.Game.Winner)
	return result, nil
}

// connPlayer relays turns to a remote agent. Passes are handled here: an
// agent without a legal move is not asked.
type connPlayer struct {
	conn     net.Conn
	reader   *bufio.Reader
	turnTime time.Duration
}

func newConnPlayer(conn net.Conn, turnTime time.Duration) *connPlayer {
	return &connPlayer{conn: conn, reader: bufio.NewReader(conn), turnTime: turnTime}
}

func (p *connPlayer) Decide(ctx context.Context, b game.Board, c game.Color, legal []game.Move) (game.Move, metrics.SearchMetric, error) {
	if len(legal) == 0 {
		return game.Pass, metrics.SearchMetric{}, nil
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(p.turnTime)
	}
	if err := p.conn.SetDeadline(deadline); err != nil {
		return game.Pass, metrics.SearchMetric{}, err
	}

	start := time.Now()
	req := communication.TurnRequest{
		Board:       b.Grid(),
		MaxTurnTime: int(p.turnTime.Milliseconds()),
		Player:      c.Player(),
	}
	if err := json.NewEncoder(p.conn).Encode(req); err != nil {
		return game.Pass, metrics.SearchMetric{}, fmt.Errorf("failed to send turn: %w", err)
	}
	line, err := p.reader.ReadBytes('\n')
	if err != nil {
		return game.Pass, metrics.SearchMetric{}, fmt.Errorf("failed to read move: %w", err)
	}
	move, err := communication.DecodeMove(line)
	if err != nil {
		return game.Pass, metrics.SearchMetric{}, err
	}
	return move, metrics.SearchMetric{Policy: "remote", Duration: time.Since(start)}, nil
}
