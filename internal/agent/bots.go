package agent

import (
	"context"
	rand "math/rand/v2"

	"pokerarena/internal/game"
)

// CallingStation always checks or calls, never raises
type CallingStation struct{}

func (CallingStation) Decide(_ context.Context, state game.GameState, _ string) (Decision, error) {
	valid := game.GetValidActions(state)
	switch {
	case valid.CanCheck:
		return Decision{Action: game.Check}, nil
	case valid.CanCall:
		return Decision{Action: game.Call}, nil
	default:
		return Decision{Action: game.Fold}, nil
	}
}

// Folder folds to any bet and checks only when free
type Folder struct{}

func (Folder) Decide(_ context.Context, state game.GameState, _ string) (Decision, error) {
	if game.GetValidActions(state).CanCheck {
		return Decision{Action: game.Check}, nil
	}
	return Decision{Action: game.Fold}, nil
}

// Random picks uniformly among the legal actions, excluding fold when a
// free check is available.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a Random bot driven by the given RNG, so games stay
// reproducible under a fixed seed.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Decide(_ context.Context, state game.GameState, _ string) (Decision, error) {
	valid := game.GetValidActions(state)

	var actions []game.ActionType
	if valid.CanCheck {
		actions = append(actions, game.Check)
	}
	if valid.CanCall {
		actions = append(actions, game.Call)
	}
	if valid.CanBet {
		actions = append(actions, game.Bet)
	}
	if valid.CanRaise {
		actions = append(actions, game.Raise)
	}
	if valid.CanFold && !valid.CanCall {
		actions = append(actions, game.Fold)
	}
	if len(actions) == 0 {
		return Decision{Action: game.Fold}, nil
	}
	return Decision{Action: actions[r.rng.IntN(len(actions))]}, nil
}

// ForStrategy maps a strategy name from configuration to a baseline bot.
// Unknown names get the calling station.
func ForStrategy(name string, rng *rand.Rand) Agent {
	switch name {
	case "random":
		return NewRandom(rng)
	case "folder":
		return Folder{}
	default:
		return CallingStation{}
	}
}
