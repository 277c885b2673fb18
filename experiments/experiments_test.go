package experiments

import (
	"context"
	"encoding/csv"
	"os"
	"othello/experiments/metrics"
	"othello/game"
	"othello/searcher"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	greedyConfig  = metrics.AgentConfig{ID: 1, Policy: searcher.GreedyName}
	minimaxConfig = metrics.AgentConfig{ID: 2, Policy: searcher.MinimaxName, Depth: 2, Pruning: true}
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRunner(t *testing.T) {
	t.Run("alternates colors between games", func(t *testing.T) {
		r := Runner{Games: 4, Workers: 2, Seed: 7}

		report, err := r.Run(context.Background(), greedyConfig, minimaxConfig)

		require.NoError(t, err)
		require.Len(t, report.Games, 4)
		for i, g := range report.Games {
			require.Equal(t, i+1, g.ID)
			if i%2 == 0 {
				require.Equal(t, greedyConfig.ID, g.BlackAgent)
				require.Equal(t, minimaxConfig.ID, g.WhiteAgent)
			} else {
				require.Equal(t, minimaxConfig.ID, g.BlackAgent)
				require.Equal(t, greedyConfig.ID, g.WhiteAgent)
			}
		}
	})

	t.Run("attributes moves and wins to agents", func(t *testing.T) {
		r := Runner{Games: 2, Workers: 2, RandomOpening: 4, Seed: 3}

		report, err := r.Run(context.Background(), greedyConfig, minimaxConfig)

		require.NoError(t, err)
		for _, g := range report.Games {
			switch g.Winner {
			case "black":
				require.Equal(t, g.BlackAgent, g.WinnerAgent)
			case "white":
				require.Equal(t, g.WhiteAgent, g.WinnerAgent)
			default:
				require.Zero(t, g.WinnerAgent)
			}
		}
		for _, m := range report.Moves {
			g := report.Games[m.Game-1]
			if m.Player == game.Black {
				require.Equal(t, g.BlackAgent, m.Agent)
			} else {
				require.Equal(t, g.WhiteAgent, m.Agent)
			}
		}
	})

	t.Run("rejects invalid matches", func(t *testing.T) {
		_, err := Runner{Games: 0}.Run(context.Background(), greedyConfig, minimaxConfig)
		require.ErrorIs(t, err, game.ErrInvalidConfiguration)

		_, err = Runner{Games: 1}.Run(context.Background(), greedyConfig, greedyConfig)
		require.ErrorIs(t, err, game.ErrInvalidConfiguration)

		_, err = Runner{Games: 1}.Run(context.Background(), greedyConfig, metrics.AgentConfig{ID: 3, Policy: "alphazero"})
		require.ErrorIs(t, err, game.ErrInvalidConfiguration)
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Runner{Games: 2, Workers: 1}.Run(ctx, greedyConfig, minimaxConfig)

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("honors the turn time", func(t *testing.T) {
		deep := metrics.AgentConfig{ID: 3, Policy: searcher.MinimaxName, Depth: 10, Pruning: true}
		r := Runner{Games: 1, Workers: 1, TurnTime: 10 * time.Millisecond}

		report, err := r.Run(context.Background(), deep, greedyConfig)

		require.NoError(t, err)
		require.Len(t, report.Games, 1)
	})
}

func TestRandomOpening(t *testing.T) {
	t.Run("is reproducible from the seed", func(t *testing.T) {
		a, err := RandomOpening(10, 42)
		require.NoError(t, err)
		b, err := RandomOpening(10, 42)
		require.NoError(t, err)

		require.Equal(t, a, b)
		require.NotEqual(t, game.NewBoard(), a.Board)
	})

	t.Run("zero plies is the standard opening", func(t *testing.T) {
		state, err := RandomOpening(0, 1)

		require.NoError(t, err)
		require.Equal(t, game.NewGameState(), state)
	})
}

func TestSummarize(t *testing.T) {
	report := Report{
		Configs: []metrics.AgentConfig{greedyConfig, minimaxConfig},
		Games: []metrics.GameRecord{
			{ID: 1, BlackAgent: 1, WhiteAgent: 2, WinnerAgent: 2},
			{ID: 2, BlackAgent: 2, WhiteAgent: 1, WinnerAgent: 2},
			{ID: 3, BlackAgent: 1, WhiteAgent: 2, WinnerAgent: 0},
		},
		Moves: []metrics.MoveRecord{
			{Game: 1, Agent: 2, MoveMetric: metrics.MoveMetric{SearchMetric: metrics.SearchMetric{Nodes: 300, Duration: time.Second}}},
			{Game: 1, Agent: 2, MoveMetric: metrics.MoveMetric{SearchMetric: metrics.SearchMetric{Nodes: 100, Duration: time.Second}}},
			{Game: 1, Agent: 1},
		},
	}

	summaries := Summarize(report)

	require.Equal(t, []Summary{
		{Agent: 1, Games: 3, Wins: 0, Losses: 2, Draws: 1},
		{Agent: 2, Games: 3, Wins: 2, Losses: 0, Draws: 1, Nodes: 400, NodesPerSecond: 200},
	}, summaries)
	require.InDelta(t, 5.0/6.0, summaries[1].Score(), 1e-9)
}

func TestRunExperiment(t *testing.T) {
	dir := t.TempDir()
	r := Runner{Games: 2, Workers: 2, Seed: 1}

	out, report, err := RunExperiment(context.Background(), r, dir, "greedy_vs_minimax", greedyConfig, minimaxConfig)

	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "greedy_vs_minimax"), filepath.Dir(out))

	configs := readCSV(t, filepath.Join(out, "agent_configs.csv"))
	require.Equal(t, []string{"id", "policy", "depth", "pruning", "episodes", "seed"}, configs[0])
	require.Equal(t, []string{"2", "minimax", "2", "true", "0", "0"}, configs[2])

	games := readCSV(t, filepath.Join(out, "game_records.csv"))
	require.Len(t, games, 1+len(report.Games))

	moves := readCSV(t, filepath.Join(out, "move_records.csv"))
	require.Len(t, moves, 1+len(report.Moves))
	require.Equal(t, "game", moves[0][0])
}
