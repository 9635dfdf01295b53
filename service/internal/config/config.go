// internal/config/config.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	engine "github.com/getzen/rookre/engine"
	"github.com/getzen/rookre/engine/agent"
	"github.com/getzen/rookre/service/internal/game"
)

// Bots configures the bot seats and the strategies behind them.
type Bots struct {
	// Seats names the controller of every seat: "human", "random" or "montecarlo".
	Seats        []string `yaml:"seats"`
	Rollouts     int      `yaml:"rollouts"`
	Seed         uint64   `yaml:"seed"`
	BidThreshold float32  `yaml:"bidThreshold"`
}

// Server configures the websocket feed.
type Server struct {
	Addr         string        `yaml:"addr"`
	TickInterval time.Duration `yaml:"tickInterval"`
}

// Store configures hand recording. Empty URLs disable that backend.
type Store struct {
	DatabaseURL string `yaml:"databaseUrl"`
	RedisURL    string `yaml:"redisUrl"`
	RecentHands int    `yaml:"recentHands"`
}

// Config is the whole service configuration.
type Config struct {
	Seed     uint64            `yaml:"seed"`
	Game     engine.HouseRules `yaml:"game"`
	Bots     Bots              `yaml:"bots"`
	Pacing   game.Pacing       `yaml:"pacing"`
	Server   Server            `yaml:"server"`
	Store    Store             `yaml:"store"`
	LogLevel string            `yaml:"logLevel"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	ac := agent.DefaultConfig()
	return Config{
		Seed: 1,
		Game: engine.DefaultHouseRules(),
		Bots: Bots{
			Seats:        []string{"montecarlo", "random", "montecarlo", "random"},
			Rollouts:     ac.Rollouts,
			Seed:         ac.Seed,
			BidThreshold: ac.BidThreshold,
		},
		Pacing:   game.DefaultPacing(),
		Server:   Server{Addr: ":8080", TickInterval: 50 * time.Millisecond},
		Store:    Store{RecentHands: 100},
		LogLevel: "info",
	}
}

// Load reads .env (when present), then the YAML file at path (or $ROOKRE_CONFIG
// when path is empty), then environment overrides, and validates the result.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()
	if path == "" {
		path = os.Getenv("ROOKRE_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := Decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode strictly decodes YAML over cfg. Unknown keys are errors.
func Decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("decoding yaml: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ROOKRE_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("ROOKRE_SEED: %w", err)
		}
		c.Seed = n
	}
	if v := os.Getenv("ROOKRE_ROLLOUTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ROOKRE_ROLLOUTS: %w", err)
		}
		c.Bots.Rollouts = n
	}
	if v := os.Getenv("ROOKRE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Store.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Store.RedisURL = v
	}
	if v := os.Getenv("ROOKRE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate checks the rules and that the seat list can play a game.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Game.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("game: %w", err))
	}
	if len(c.Bots.Seats) != c.Game.PlayerCount {
		errs = append(errs, fmt.Errorf("bots.seats lists %d seats for playerCount %d", len(c.Bots.Seats), c.Game.PlayerCount))
	}
	// Random never bids, so a table of only random seats redeals forever.
	bidder := false
	for i, s := range c.Bots.Seats {
		ctrl, err := parseController(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("bots.seats[%d]: %w", i, err))
			continue
		}
		if ctrl != engine.RandomBot {
			bidder = true
		}
	}
	if len(c.Bots.Seats) > 0 && !bidder {
		errs = append(errs, errors.New("bots.seats needs at least one human or montecarlo seat"))
	}
	if c.Bots.Rollouts < 1 {
		errs = append(errs, fmt.Errorf("bots.rollouts must be positive, got %d", c.Bots.Rollouts))
	}
	if c.Server.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("server.tickInterval must be positive, got %s", c.Server.TickInterval))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("logLevel: %w", err))
	}
	return errors.Join(errs...)
}

func parseController(s string) (engine.Controller, error) {
	if s == "human" {
		return engine.Human, nil
	}
	kind, err := agent.ParseKind(s)
	if err != nil {
		return 0, err
	}
	if kind == agent.KindMonteCarlo {
		return engine.MonteCarloBot, nil
	}
	return engine.RandomBot, nil
}

// Controllers returns the seat controllers. Seats listed in humans are made
// human whatever the file says.
func (c *Config) Controllers(humans ...int) []engine.Controller {
	out := make([]engine.Controller, len(c.Bots.Seats))
	for i, s := range c.Bots.Seats {
		out[i], _ = parseController(s)
	}
	for _, h := range humans {
		if h >= 0 && h < len(out) {
			out[h] = engine.Human
		}
	}
	return out
}

// BotsOnly returns the seat controllers with every human seat replaced by a
// MonteCarlo bot.
func (c *Config) BotsOnly() []engine.Controller {
	out := c.Controllers()
	for i, ctrl := range out {
		if ctrl == engine.Human {
			out[i] = engine.MonteCarloBot
		}
	}
	return out
}

// Agent returns the strategy settings.
func (c *Config) Agent() agent.Config {
	return agent.Config{Rollouts: c.Bots.Rollouts, Seed: c.Bots.Seed, BidThreshold: c.Bots.BidThreshold}
}

// Logger returns a logrus logger at the configured level.
func (c *Config) Logger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(c.LogLevel); err == nil {
		l.SetLevel(lvl)
	}
	return l
}
