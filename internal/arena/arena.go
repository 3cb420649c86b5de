// Package arena orchestrates a table session: it owns the authoritative
// game state, asks each seat's agent for decisions under a deadline, and
// publishes events for spectators.
package arena

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"pokerarena/internal/agent"
	"pokerarena/internal/deck"
	"pokerarena/internal/game"
)

// DefaultDecisionTimeout bounds how long one agent may think per action
const DefaultDecisionTimeout = 30 * time.Second

// EventType identifies what happened at the table
type EventType int

const (
	EventHandStarted EventType = iota
	EventActionApplied
	EventHandEnded
	EventGameOver
)

var eventNames = [...]string{"hand_started", "action_applied", "hand_ended", "game_over"}

func (e EventType) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[e]
}

// Event is one table occurrence plus the state after it. States in events
// are snapshots and safe to retain.
type Event struct {
	Type   EventType
	State  game.GameState
	Action *game.PlayerAction
}

// Options configures an Arena
type Options struct {
	Agents          map[string]agent.Agent
	MaxHands        int
	Seed            int64
	DecisionTimeout time.Duration
	Clock           quartz.Clock
	Logger          *log.Logger
}

// Arena drives a game to completion
type Arena struct {
	agents   map[string]agent.Agent
	maxHands int
	timeout  time.Duration
	clock    quartz.Clock
	rng      *rand.Rand
	logger   *log.Logger

	mu    sync.RWMutex
	state game.GameState

	events chan Event
}

// New builds an arena around an initial game state. Every seated player
// must have an agent.
func New(state game.GameState, opts Options) (*Arena, error) {
	for _, p := range state.Players {
		if _, ok := opts.Agents[p.ID]; !ok {
			return nil, fmt.Errorf("no agent for player %q", p.ID)
		}
	}
	if opts.MaxHands <= 0 {
		opts.MaxHands = 100
	}
	if opts.DecisionTimeout <= 0 {
		opts.DecisionTimeout = DefaultDecisionTimeout
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Arena{
		agents:   opts.Agents,
		maxHands: opts.MaxHands,
		timeout:  opts.DecisionTimeout,
		clock:    opts.Clock,
		rng:      deck.NewRNG(opts.Seed),
		logger:   opts.Logger.WithPrefix("arena"),
		state:    state.Clone(),
		events:   make(chan Event, 256),
	}, nil
}

// Events returns the event stream. It is closed when Run returns. Slow
// consumers lose events rather than stalling the game.
func (a *Arena) Events() <-chan Event {
	return a.events
}

// Snapshot returns a copy of the current state
func (a *Arena) Snapshot() game.GameState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.Clone()
}

func (a *Arena) setState(state game.GameState) {
	a.mu.Lock()
	a.state = state
	a.mu.Unlock()
}

func (a *Arena) publish(event Event) {
	select {
	case a.events <- event:
	default:
		a.logger.Warn("event dropped, consumer too slow", "type", event.Type)
	}
}

// Run plays hands until one player holds all the chips, the hand limit is
// reached, or the context is cancelled.
func (a *Arena) Run(ctx context.Context) error {
	defer close(a.events)

	state := a.Snapshot()
	total := state.TotalChips()

	for hand := 0; hand < a.maxHands; hand++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if game.IsGameOver(state) {
			break
		}

		next, err := game.StartHand(state, a.rng)
		if err != nil {
			return fmt.Errorf("start hand: %w", err)
		}
		state = next
		a.setState(state)
		if state.Phase == game.Complete {
			break
		}

		a.logger.Info("hand started", "hand", state.HandNumber, "dealer", state.Players[state.DealerPosition].Name)
		a.publish(Event{Type: EventHandStarted, State: state.Clone()})

		state, err = a.playHand(ctx, state)
		if err != nil {
			return err
		}

		if got := state.TotalChips(); got != total {
			return fmt.Errorf("chip conservation violated after hand %d: have %d, want %d", state.HandNumber, got, total)
		}

		for _, w := range state.Winners {
			a.logger.Info("hand ended", "hand", state.HandNumber, "winner", w.PlayerID, "amount", w.Amount)
		}
		a.publish(Event{Type: EventHandEnded, State: state.Clone()})
	}

	a.setState(state)
	if winner := game.GameWinner(state); winner != nil {
		a.logger.Info("game over", "winner", winner.Name, "chips", winner.Chips)
	}
	a.publish(Event{Type: EventGameOver, State: state.Clone()})
	return nil
}

func (a *Arena) playHand(ctx context.Context, state game.GameState) (game.GameState, error) {
	for state.Phase != game.Showdown && state.Phase != game.Complete {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		player := state.CurrentPlayer()
		if player == nil {
			return state, fmt.Errorf("no player to act in phase %s", state.Phase)
		}

		decision := a.decide(ctx, state, player.ID)

		next, err := game.ProcessAction(state, player.ID, decision.Action, game.ProcessOptions{
			Reasoning: decision.Reasoning,
			Timestamp: a.clock.Now(),
		})
		if err != nil {
			// The agent picked something illegal; play the safe action
			// instead of stalling the table.
			a.logger.Warn("illegal action, using fallback", "player", player.ID, "action", decision.Action, "error", err)
			fallback := agent.Fallback(game.GetValidActions(state), state.BigBlind)
			next, err = game.ProcessAction(state, player.ID, fallback.Action, game.ProcessOptions{
				Reasoning: fallback.Reasoning,
				Timestamp: a.clock.Now(),
			})
			if err != nil {
				return state, fmt.Errorf("fallback action rejected for %s: %w", player.ID, err)
			}
		}
		state = next
		a.setState(state)

		applied := state.ActionLog[len(state.ActionLog)-1]
		a.logger.Debug("action", "player", applied.PlayerID, "type", applied.Type, "amount", applied.Amount)
		a.publish(Event{Type: EventActionApplied, State: state.Clone(), Action: &applied})
	}
	return state, nil
}

// decide asks the player's agent for a decision, falling back to the safe
// action on error or timeout.
func (a *Arena) decide(ctx context.Context, state game.GameState, playerID string) agent.Decision {
	valid := game.GetValidActions(state)

	type result struct {
		decision agent.Decision
		err      error
	}
	done := make(chan result, 1)
	decideCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		d, err := a.agents[playerID].Decide(decideCtx, state.Clone(), playerID)
		done <- result{d, err}
	}()

	timedOut := make(chan struct{})
	timer := a.clock.AfterFunc(a.timeout, func() {
		close(timedOut)
	})
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			a.logger.Warn("agent error, using fallback", "player", playerID, "error", res.err)
			return agent.Fallback(valid, state.BigBlind)
		}
		return res.decision
	case <-timedOut:
		a.logger.Warn("decision timeout, using fallback", "player", playerID, "timeout", a.timeout)
		return agent.Fallback(valid, state.BigBlind)
	case <-ctx.Done():
		return agent.Fallback(valid, state.BigBlind)
	}
}
