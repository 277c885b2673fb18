package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"othello/agent"
	"othello/communication"
	"othello/game"
	"othello/meta"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
)

const DefaultRetryDelay = meta.RETRY_DELAY

type Option func(c *Client)

// Client plays games for one driver against a remote game server.
type Client struct {
	addr             string
	driver           *agent.Driver
	deadlineFraction float64
	retryDelay       time.Duration
}

// WithDeadlineFraction bounds each decision by this fraction of the server's
// maxTurnTime. 0 disables the bound.
func WithDeadlineFraction(fraction float64) Option {
	return func(c *Client) {
		if fraction >= 0 {
			c.deadlineFraction = fraction
		}
	}
}

func WithRetryDelay(delay time.Duration) Option {
	return func(c *Client) {
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

func NewClient(addr string, driver *agent.Driver, options ...Option) *Client {
	c := &Client{
		addr:       addr,
		driver:     driver,
		retryDelay: DefaultRetryDelay,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Run connects once and answers turn requests until the server closes the
// connection.
func (c *Client) Run(ctx context.Context) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.addr, err)
	}
	defer conn.Close()
	log.Info().Msgf("connected to game server at %s", c.addr)

	// Unblock the decoder when ctx is cancelled
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	err = c.Play(ctx, conn)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Play answers turn requests read from rw until EOF.
func (c *Client) Play(ctx context.Context, rw io.ReadWriter) error {
	decoder := json.NewDecoder(rw)
	for {
		var req communication.TurnRequest
		if err := decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				log.Info().Msg("connection to server closed")
				return nil
			}
			return fmt.Errorf("failed to decode turn request: %w", err)
		}
		log.Debug().Int("player", req.Player).Int("maxTurnTime", req.MaxTurnTime).Msg("received turn")

		move, err := c.turn(ctx, req)
		if err != nil {
			return err
		}
		if _, err := rw.Write(communication.EncodeMove(move)); err != nil {
			return fmt.Errorf("failed to send move: %w", err)
		}
	}
}

func (c *Client) turn(ctx context.Context, req communication.TurnRequest) (game.Move, error) {
	board, err := game.FromGrid(req.Board)
	if err != nil {
		return game.Pass, retry.Unrecoverable(fmt.Errorf("bad board from server: %w", err))
	}
	color, err := game.ColorFromPlayer(req.Player)
	if err != nil {
		return game.Pass, retry.Unrecoverable(fmt.Errorf("bad player from server: %w", err))
	}

	if req.MaxTurnTime > 0 && c.deadlineFraction > 0 {
		budget := time.Duration(float64(req.MaxTurnTime)*c.deadlineFraction) * time.Millisecond
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	move, _, err := c.driver.Decide(ctx, board, color, game.LegalMoves(board, color))
	if err != nil {
		// A policy failing on our own legal moves is a bug, not a network hiccup
		return game.Pass, retry.Unrecoverable(err)
	}
	return move, nil
}

// RunForever keeps playing: it reconnects after every finished game and after
// connection failures, waiting the retry delay in between, until ctx is done
// or a game fails for a reason reconnecting cannot fix.
func (c *Client) RunForever(ctx context.Context) error {
	for {
		err := retry.Do(
			func() error { return c.Run(ctx) },
			retry.Context(ctx),
			retry.Attempts(0),
			retry.Delay(c.retryDelay),
			retry.DelayType(retry.FixedDelay),
			retry.LastErrorOnly(true),
			retry.OnRetry(func(n uint, err error) {
				log.Warn().Err(err).Uint("attempt", n+1).Msgf("waiting %s and trying to connect again", c.retryDelay)
			}),
		)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.retryDelay):
		}
	}
}
