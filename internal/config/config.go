// Package config loads arena configuration from HCL files
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"pokerarena/internal/game"
)

// Config is the complete arena configuration
type Config struct {
	Game    *GameSettings   `hcl:"game,block"`
	Players []PlayerBlock   `hcl:"player,block"`
	Server  *ServerSettings `hcl:"server,block"`
}

// GameSettings contains table-level settings
type GameSettings struct {
	StartingChips int   `hcl:"starting_chips,optional"`
	SmallBlind    int   `hcl:"small_blind,optional"`
	BigBlind      int   `hcl:"big_blind,optional"`
	MaxHands      int   `hcl:"max_hands,optional"`
	Seed          int64 `hcl:"seed,optional"`
}

// PlayerBlock configures one seat. A player with a model talks to that LLM
// via OpenRouter; otherwise it runs the named baseline strategy.
type PlayerBlock struct {
	Name     string `hcl:"name,label"`
	Model    string `hcl:"model,optional"`
	Strategy string `hcl:"strategy,optional"`
}

// ServerSettings configures the spectator HTTP server
type ServerSettings struct {
	Address string `hcl:"address,optional"`
	Port    int    `hcl:"port,optional"`
}

// Default returns the configuration used when no file is given: two
// baseline bots at a 5/10 table.
func Default() *Config {
	return &Config{
		Game: &GameSettings{
			StartingChips: game.DefaultStartingChips,
			SmallBlind:    game.DefaultSmallBlind,
			BigBlind:      game.DefaultBigBlind,
			MaxHands:      100,
		},
		Players: []PlayerBlock{
			{Name: "Caller", Strategy: "calling"},
			{Name: "Randy", Strategy: "random"},
		},
		Server: &ServerSettings{Address: "localhost", Port: 8080},
	}
}

// Load reads configuration from an HCL file, applying defaults for missing
// values. A missing file yields the default configuration.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if cfg.Game == nil {
		cfg.Game = &GameSettings{}
	}
	if cfg.Server == nil {
		cfg.Server = &ServerSettings{}
	}
	if cfg.Game.StartingChips == 0 {
		cfg.Game.StartingChips = game.DefaultStartingChips
	}
	if cfg.Game.SmallBlind == 0 {
		cfg.Game.SmallBlind = game.DefaultSmallBlind
	}
	if cfg.Game.BigBlind == 0 {
		cfg.Game.BigBlind = game.DefaultBigBlind
	}
	if cfg.Game.MaxHands == 0 {
		cfg.Game.MaxHands = 100
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	for i := range cfg.Players {
		if cfg.Players[i].Model == "" && cfg.Players[i].Strategy == "" {
			cfg.Players[i].Strategy = "calling"
		}
	}

	return &cfg, nil
}

// Validate checks the configuration for values the engine would reject
func (c *Config) Validate() error {
	if len(c.Players) < 2 {
		return fmt.Errorf("at least 2 players must be configured, got %d", len(c.Players))
	}
	seen := make(map[string]bool)
	for _, p := range c.Players {
		if p.Name == "" {
			return fmt.Errorf("player with empty name")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate player name %q", p.Name)
		}
		seen[p.Name] = true
	}
	if c.Game.SmallBlind <= 0 || c.Game.BigBlind < c.Game.SmallBlind {
		return fmt.Errorf("invalid blinds %d/%d", c.Game.SmallBlind, c.Game.BigBlind)
	}
	if c.Game.StartingChips < c.Game.BigBlind {
		return fmt.Errorf("starting chips %d below big blind %d", c.Game.StartingChips, c.Game.BigBlind)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	return nil
}

// GameConfig converts the file representation into the engine's Config.
// Seat ids are stable across runs so action logs stay comparable.
func (c *Config) GameConfig() game.Config {
	players := make([]game.PlayerConfig, len(c.Players))
	for i, p := range c.Players {
		players[i] = game.PlayerConfig{
			ID:    fmt.Sprintf("player-%d", i+1),
			Name:  p.Name,
			Model: p.Model,
		}
	}
	return game.Config{
		Players:       players,
		StartingChips: c.Game.StartingChips,
		SmallBlind:    c.Game.SmallBlind,
		BigBlind:      c.Game.BigBlind,
	}
}

// ServerAddress returns the spectator server's listen address
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
