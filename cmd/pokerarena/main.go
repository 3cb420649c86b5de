package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"pokerarena/internal/agent"
	"pokerarena/internal/arena"
	"pokerarena/internal/config"
	"pokerarena/internal/deck"
	"pokerarena/internal/game"
	"pokerarena/internal/server"
	"pokerarena/internal/tui"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Debug   bool             `help:"Enable debug logging"`

	Play  PlayCmd  `cmd:"" default:"withargs" help:"Play a game of LLM poker"`
	Serve ServeCmd `cmd:"" help:"Play a game with a spectator HTTP server"`
}

type PlayCmd struct {
	Config string `short:"c" help:"Path to HCL config file" default:"arena.hcl"`
	Seed   int64  `help:"RNG seed; 0 picks one from the clock"`
	Hands  int    `help:"Maximum number of hands; 0 uses the config value"`
	TUI    bool   `help:"Watch the game in a terminal UI"`
	APIKey string `env:"OPENROUTER_API_KEY" help:"OpenRouter API key for LLM players"`
}

type ServeCmd struct {
	Config string `short:"c" help:"Path to HCL config file" default:"arena.hcl"`
	Seed   int64  `help:"RNG seed; 0 picks one from the clock"`
	Hands  int    `help:"Maximum number of hands; 0 uses the config value"`
	APIKey string `env:"OPENROUTER_API_KEY" help:"OpenRouter API key for LLM players"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokerarena"),
		kong.Description("Fixed-Limit Texas Hold'em arena for LLM players"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}

func setupLogger(debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
}

// buildArena assembles the table from a config file: game state, one agent
// per seat, and the arena that drives them.
func buildArena(path string, seed int64, hands int, apiKey string, logger *log.Logger) (*arena.Arena, *config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	if seed == 0 {
		seed = cfg.Game.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if hands == 0 {
		hands = cfg.Game.MaxHands
	}

	gameCfg := cfg.GameConfig()
	state, err := game.NewGame(gameCfg)
	if err != nil {
		return nil, nil, err
	}

	agents := make(map[string]agent.Agent, len(gameCfg.Players))
	botRNG := deck.NewRNG(seed + 1)
	for i, pc := range gameCfg.Players {
		if pc.Model != "" {
			if apiKey == "" {
				return nil, nil, fmt.Errorf("player %q uses model %q but no API key is set", pc.Name, pc.Model)
			}
			agents[pc.ID] = agent.NewLLM(pc.Model, apiKey, logger)
			continue
		}
		agents[pc.ID] = agent.ForStrategy(cfg.Players[i].Strategy, botRNG)
	}

	logger.Info("arena configured", "players", len(gameCfg.Players), "seed", seed, "maxHands", hands)

	a, err := arena.New(state, arena.Options{
		Agents:   agents,
		MaxHands: hands,
		Seed:     seed,
		Logger:   logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return a, cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func (p *PlayCmd) Run(cli *CLI) error {
	logger := setupLogger(cli.Debug)

	if p.TUI {
		// Logs would fight the TUI for the terminal.
		logger.SetOutput(os.Stderr)
		logger.SetLevel(log.ErrorLevel)
	}

	a, _, err := buildArena(p.Config, p.Seed, p.Hands, p.APIKey, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Run(ctx)
	})

	if p.TUI {
		g.Go(func() error {
			program := tea.NewProgram(tui.New(a.Events(), logger), tea.WithAltScreen())
			go func() {
				<-ctx.Done()
				program.Quit()
			}()
			_, err := program.Run()
			// Quitting the view also stops the game.
			cancel()
			return err
		})
	} else {
		g.Go(func() error {
			for range a.Events() {
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}

	printResult(a.Snapshot())
	return nil
}

func (s *ServeCmd) Run(cli *CLI) error {
	logger := setupLogger(cli.Debug)

	a, cfg, err := buildArena(s.Config, s.Seed, s.Hands, s.APIKey, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	srv := server.New(cfg.ServerAddress(), a, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return a.Run(ctx)
	})
	g.Go(func() error {
		return srv.Run(ctx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}

	printResult(a.Snapshot())
	return nil
}

func printResult(state game.GameState) {
	fmt.Println()
	fmt.Printf("Hands played: %d\n", state.HandNumber)
	for _, p := range state.Players {
		fmt.Printf("  %-12s %6d chips\n", p.Name, p.Chips)
	}
	if winner := game.GameWinner(state); winner != nil {
		fmt.Printf("Winner: %s\n", winner.Name)
	}
}
