package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"othello/game"
	"othello/meta"
	"othello/searcher"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	ModeAgent = "agent" // Play for a game server over TCP
	ModeServe = "serve" // Answer /findmove over HTTP
	ModeHost  = "host"  // Host games for two TCP agents
	ModeArena = "arena" // Play matches locally and write CSV results
)

type Config struct {
	Mode             string        `yaml:"mode"`
	Policy           string        `yaml:"policy"`
	Depth            int           `yaml:"depth"`
	Pruning          bool          `yaml:"pruning"`
	Episodes         int           `yaml:"episodes"`
	DeadlineFraction float64       `yaml:"deadline-fraction"`
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	RetryDelay       time.Duration `yaml:"retry-delay"`
	Listen           string        `yaml:"listen"`
	TurnTime         time.Duration `yaml:"turn-time"`
	Opponent         string        `yaml:"opponent"`
	OpponentDepth    int           `yaml:"opponent-depth"`
	Games            int           `yaml:"games"`
	Workers          int           `yaml:"workers"`
	RandomOpening    int           `yaml:"random-opening"`
	Out              string        `yaml:"out"`
	Seed             uint64        `yaml:"seed"`
	Debug            bool          `yaml:"debug"`
	Pretty           bool          `yaml:"pretty"`
}

// Load parses args. A YAML file given with -config is applied over the
// defaults, and flags set explicitly on the command line win over the file.
func (c *Config) Load(args []string) error {
	fs := flag.NewFlagSet("othello", flag.ContinueOnError)
	var path string
	fs.StringVar(&path, "config", "", "YAML file with configuration values")
	fs.StringVar(&c.Mode, "mode", ModeAgent, "agent, serve, host or arena")
	fs.StringVar(&c.Policy, "policy", searcher.MinimaxName, "greedy, minimax, mcts or random")
	fs.IntVar(&c.Depth, "depth", meta.DEFAULT_DEPTH, "minimax search depth in plies")
	fs.BoolVar(&c.Pruning, "pruning", true, "use alpha-beta pruning in minimax")
	fs.IntVar(&c.Episodes, "episodes", searcher.DEFAULT_EPISODES, "mcts episodes per move")
	fs.Float64Var(&c.DeadlineFraction, "deadline-fraction", meta.DEADLINE_FRACTION, "share of the server's maxTurnTime spent searching, 0 to ignore it")
	fs.StringVar(&c.Host, "host", "localhost", "game server host")
	fs.IntVar(&c.Port, "port", meta.BLACK_PORT, "game server port")
	fs.DurationVar(&c.RetryDelay, "retry-delay", meta.RETRY_DELAY, "wait between connection attempts")
	fs.StringVar(&c.Listen, "listen", ":8080", "address to serve on in serve and host modes")
	fs.DurationVar(&c.TurnTime, "turn-time", meta.TURN_TIME, "time per move in host and arena modes")
	fs.StringVar(&c.Opponent, "opponent", searcher.GreedyName, "opponent policy in arena mode")
	fs.IntVar(&c.OpponentDepth, "opponent-depth", meta.DEFAULT_DEPTH, "opponent minimax depth in arena mode")
	fs.IntVar(&c.Games, "games", 10, "games per arena match")
	fs.IntVar(&c.Workers, "workers", 4, "arena games played concurrently")
	fs.IntVar(&c.RandomOpening, "random-opening", 0, "random plies before the agents take over in arena mode")
	fs.StringVar(&c.Out, "out", "experiments", "directory for arena results")
	fs.Uint64Var(&c.Seed, "seed", 1, "seed for random policies and openings")
	fs.BoolVar(&c.Debug, "debug", false, "log at debug level")
	fs.BoolVar(&c.Pretty, "pretty", false, "human readable console logs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if path == "" {
		return nil
	}

	explicit := map[string]string{}
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = f.Value.String()
	})

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	for name, value := range explicit {
		if err := fs.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Validate reports the first invalid field as a game.InvalidConfigurationError.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeAgent, ModeServe, ModeHost, ModeArena:
	default:
		return game.NewInvalidConfigurationError("mode", c.Mode)
	}
	if err := validatePolicy("policy", c.Policy, "depth", c.Depth); err != nil {
		return err
	}
	if c.DeadlineFraction < 0 || c.DeadlineFraction > 1 {
		return game.NewInvalidConfigurationError("deadline-fraction", c.DeadlineFraction)
	}
	if c.Port < 1 || c.Port > 65535 {
		return game.NewInvalidConfigurationError("port", c.Port)
	}
	if c.Episodes < 0 {
		return game.NewInvalidConfigurationError("episodes", c.Episodes)
	}
	if c.TurnTime < 0 {
		return game.NewInvalidConfigurationError("turn-time", c.TurnTime)
	}
	if c.Mode != ModeArena {
		return nil
	}
	if err := validatePolicy("opponent", c.Opponent, "opponent-depth", c.OpponentDepth); err != nil {
		return err
	}
	if c.Games <= 0 {
		return game.NewInvalidConfigurationError("games", c.Games)
	}
	if c.Workers <= 0 {
		return game.NewInvalidConfigurationError("workers", c.Workers)
	}
	if c.RandomOpening < 0 {
		return game.NewInvalidConfigurationError("random-opening", c.RandomOpening)
	}
	return nil
}

func validatePolicy(field, policy, depthField string, depth int) error {
	switch policy {
	case searcher.GreedyName, searcher.RandomName, searcher.MCTSName:
		return nil
	case searcher.MinimaxName:
		if depth <= 0 {
			return game.NewInvalidConfigurationError(depthField, depth)
		}
		return nil
	}
	return game.NewInvalidConfigurationError(field, policy)
}

// Addr is the game server address an agent connects to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ConfigureLogging sets the global zerolog level and output.
func (c *Config) ConfigureLogging(w io.Writer) {
	if c.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if c.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
