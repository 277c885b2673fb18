package agent

import (
	"context"
	"errors"
	"othello/experiments/metrics"
	"othello/game"
	"othello/searcher"

	"github.com/rs/zerolog/log"
)

// Driver turns a turn request into a move. It routes passes itself and leaves
// every real decision to its policy.
type Driver struct {
	policy searcher.Policy
}

func NewDriver(policy searcher.Policy) *Driver {
	return &Driver{policy: policy}
}

func (d *Driver) Policy() searcher.Policy {
	return d.policy
}

// Decide returns game.Pass when legal is empty. Otherwise it asks the policy,
// bounded by ctx's deadline when the policy supports one.
func (d *Driver) Decide(ctx context.Context, b game.Board, c game.Color, legal []game.Move) (game.Move, metrics.SearchMetric, error) {
	if len(legal) == 0 {
		log.Info().Str("color", c.String()).Msg("no legal move, passing")
		return game.Pass, metrics.SearchMetric{}, nil
	}

	var move game.Move
	var err error
	_, hasDeadline := ctx.Deadline()
	if p, ok := d.policy.(searcher.DeadlinePolicy); ok && hasDeadline {
		move, err = p.ChooseWithin(ctx, b, c, legal)
	} else {
		move, err = d.policy.Choose(b, c, legal)
	}
	if err != nil {
		if errors.Is(err, game.ErrIllegalMove) {
			log.Error().Err(err).Str("policy", d.policy.Name()).Msg("policy was handed or produced an illegal move")
		}
		return game.Pass, metrics.SearchMetric{}, err
	}

	var metric metrics.SearchMetric
	if m, ok := d.policy.(searcher.Metered); ok {
		metric = m.Metric()
	} else {
		metric.Policy = d.policy.Name()
	}
	log.Info().
		Str("color", c.String()).
		Str("policy", d.policy.Name()).
		Int("candidates", len(legal)).
		Msgf("chose %s", move)
	return move, metric, nil
}
