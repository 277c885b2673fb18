package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"othello/agent"
	"othello/communication/client"
	"othello/config"
	"othello/experiments"
	"othello/experiments/metrics"
	"othello/gamemaster"
	"othello/searcher"
	"syscall"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}
	cfg.ConfigureLogging(os.Stderr)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log.Info().Msgf("loaded config: %+v", *cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msgf("%s mode failed", cfg.Mode)
	}
	log.Info().Msg("shutting down")
}

func run(ctx context.Context, cfg *config.Config) error {
	switch cfg.Mode {
	case config.ModeAgent:
		driver, err := newDriver(cfg)
		if err != nil {
			return err
		}
		c := client.NewClient(cfg.Addr(), driver,
			client.WithDeadlineFraction(cfg.DeadlineFraction),
			client.WithRetryDelay(cfg.RetryDelay))
		return c.RunForever(ctx)

	case config.ModeServe:
		driver, err := newDriver(cfg)
		if err != nil {
			return err
		}
		return agent.NewServer(driver, cfg.DeadlineFraction).ListenAndServe(ctx, cfg.Listen)

	case config.ModeHost:
		return host(ctx, cfg)

	case config.ModeArena:
		return arena(ctx, cfg)
	}
	return fmt.Errorf("unknown mode %q", cfg.Mode)
}

func newDriver(cfg *config.Config) (*agent.Driver, error) {
	p, err := searcher.New(cfg.Policy, searcher.Settings{
		Depth:     cfg.Depth,
		Pruning:   cfg.Pruning,
		Episodes:  cfg.Episodes,
		Seed:      cfg.Seed,
		Collector: metrics.NewCollector(),
	})
	if err != nil {
		return nil, err
	}
	return agent.NewDriver(p), nil
}

// host runs games back to back until interrupted.
func host(ctx context.Context, cfg *config.Config) error {
	listener, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return err
	}
	defer listener.Close()
	log.Info().Msgf("hosting games on %s", listener.Addr())

	gm := gamemaster.NewGameMaster(listener, gamemaster.WithTurnTime(cfg.TurnTime))
	for ctx.Err() == nil {
		if _, err := gm.RunGame(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			log.Error().Err(err).Msg("game aborted")
		}
	}
	return nil
}

func arena(ctx context.Context, cfg *config.Config) error {
	a := metrics.AgentConfig{ID: 1, Policy: cfg.Policy, Depth: cfg.Depth, Pruning: cfg.Pruning, Episodes: cfg.Episodes}
	b := metrics.AgentConfig{ID: 2, Policy: cfg.Opponent, Depth: cfg.OpponentDepth, Pruning: cfg.Pruning, Episodes: cfg.Episodes}
	r := experiments.Runner{
		Games:         cfg.Games,
		Workers:       cfg.Workers,
		RandomOpening: cfg.RandomOpening,
		Seed:          cfg.Seed,
		TurnTime:      cfg.TurnTime,
	}
	name := fmt.Sprintf("%s_vs_%s", cfg.Policy, cfg.Opponent)

	dir, report, err := experiments.RunExperiment(ctx, r, cfg.Out, name, a, b)
	if err != nil {
		return err
	}
	for _, s := range experiments.Summarize(report) {
		log.Info().
			Int("agent", s.Agent).
			Int("wins", s.Wins).
			Int("losses", s.Losses).
			Int("draws", s.Draws).
			Float64("score", s.Score()).
			Float64("nodesPerSecond", s.NodesPerSecond).
			Msg("match summary")
	}
	log.Info().Msgf("results written to %s", dir)
	return nil
}
