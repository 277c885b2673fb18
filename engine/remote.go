package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"othello/agent"
	"othello/experiments/metrics"
	"othello/game"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
)

const remoteAttempts = 3

// RemotePlayer asks an agent server for moves over HTTP.
type RemotePlayer struct {
	url    string
	client *http.Client
}

// NewRemotePlayer returns a player backed by the agent server at baseURL, for
// example "http://localhost:8080".
func NewRemotePlayer(baseURL string, client *http.Client) *RemotePlayer {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemotePlayer{url: baseURL + "/findmove", client: client}
}

func (p *RemotePlayer) Decide(ctx context.Context, b game.Board, c game.Color, legal []game.Move) (game.Move, metrics.SearchMetric, error) {
	req := agent.FindMoveRequest{
		Board:      b.Grid(),
		Player:     c.Player(),
		LegalMoves: make([][]int, 0, len(legal)),
	}
	for _, m := range legal {
		req.LegalMoves = append(req.LegalMoves, m.Pair())
	}
	if deadline, ok := ctx.Deadline(); ok {
		req.MaxTurnTime = int(time.Until(deadline).Milliseconds())
	}
	body, err := json.Marshal(req)
	if err != nil {
		return game.Pass, metrics.SearchMetric{}, fmt.Errorf("failed to encode request: %w", err)
	}

	start := time.Now()
	var resp agent.FindMoveResponse
	err = retry.Do(
		func() error { return p.post(ctx, body, &resp) },
		retry.Context(ctx),
		retry.Attempts(remoteAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n+1).Msgf("retrying %s", p.url)
		}),
	)
	if err != nil {
		return game.Pass, metrics.SearchMetric{}, err
	}

	move, err := game.MoveFromPair(resp.Move)
	if err != nil {
		return game.Pass, metrics.SearchMetric{}, err
	}
	return move, metrics.SearchMetric{Policy: "remote", Duration: time.Since(start)}, nil
}

func (p *RemotePlayer) post(ctx context.Context, body []byte, resp *agent.FindMoveResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return retry.Unrecoverable(err)
	}
	req.Header.Set("Content-Type", "application/json")

	r, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer r.Body.Close()

	if r.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(r.Body)
		err := fmt.Errorf("agent returned status %d: %s", r.StatusCode, bytes.TrimSpace(out))
		// Only server side failures are worth another attempt
		if r.StatusCode < http.StatusInternalServerError {
			return retry.Unrecoverable(err)
		}
		return err
	}
	if err := json.NewDecoder(r.Body).Decode(resp); err != nil {
		return fmt.Errorf("failed to decode move: %w", err)
	}
	return nil
}
