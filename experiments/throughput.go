package experiments

import (
	"othello/experiments/metrics"

	"github.com/samber/lo"
)

// Summary aggregates one agent's results over a report.
type Summary struct {
	Agent          int
	Games          int
	Wins           int
	Losses         int
	Draws          int
	Nodes          int
	NodesPerSecond float64
}

func (s Summary) Score() float64 {
	if s.Games == 0 {
		return 0
	}
	return (float64(s.Wins) + 0.5*float64(s.Draws)) / float64(s.Games)
}

// Summarize returns one summary per agent config, in config order.
func Summarize(report Report) []Summary {
	return lo.Map(report.Configs, func(config metrics.AgentConfig, _ int) Summary {
		played := lo.Filter(report.Games, func(g metrics.GameRecord, _ int) bool {
			return g.BlackAgent == config.ID || g.WhiteAgent == config.ID
		})
		moves := lo.Filter(report.Moves, func(m metrics.MoveRecord, _ int) bool {
			return m.Agent == config.ID
		})

		s := Summary{
			Agent: config.ID,
			Games: len(played),
			Wins:  lo.CountBy(played, func(g metrics.GameRecord) bool { return g.WinnerAgent == config.ID }),
			Draws: lo.CountBy(played, func(g metrics.GameRecord) bool { return g.WinnerAgent == 0 }),
			Nodes: lo.SumBy(moves, func(m metrics.MoveRecord) int { return m.Nodes }),
		}
		s.Losses = s.Games - s.Wins - s.Draws

		seconds := lo.SumBy(moves, func(m metrics.MoveRecord) float64 { return m.Duration.Seconds() })
		if seconds > 0 {
			s.NodesPerSecond = float64(s.Nodes) / seconds
		}
		return s
	})
}
