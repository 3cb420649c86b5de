// Package agent defines the decision-making side of the table: the Agent
// interface, deterministic baseline bots, and an LLM-backed agent that
// turns chat completions into betting actions.
package agent

import (
	"context"

	"pokerarena/internal/game"
)

// Agent makes betting decisions for one seat
type Agent interface {
	// Decide returns an action for the player to act in the given state.
	// The state is a read-only snapshot; the caller validates and applies
	// the returned action.
	Decide(ctx context.Context, state game.GameState, playerID string) (Decision, error)
}

// Decision is an agent's chosen action plus optional free-form reasoning
type Decision struct {
	Action    game.ActionType `json:"action"`
	Reasoning string          `json:"reasoning,omitempty"`
}

// Fallback returns the safest legal action: check when free, call cheap
// bets, fold otherwise. Used when an agent errors, times out, or returns
// an illegal action.
func Fallback(valid game.ValidActions, bigBlind int) Decision {
	switch {
	case valid.CanCheck:
		return Decision{Action: game.Check, Reasoning: "fallback: check"}
	case valid.CanCall && valid.CallAmount <= bigBlind:
		return Decision{Action: game.Call, Reasoning: "fallback: call small bet"}
	default:
		return Decision{Action: game.Fold, Reasoning: "fallback: fold"}
	}
}
