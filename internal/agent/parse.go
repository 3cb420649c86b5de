package agent

import (
	"encoding/json"
	"regexp"
	"strings"

	"pokerarena/internal/game"
)

var embeddedJSON = regexp.MustCompile(`\{[\s\S]*\}`)

type rawDecision struct {
	Action    string `json:"action"`
	Reasoning string `json:"reasoning"`
}

// ParseDecision extracts a legal decision from a model's free-form reply.
// It tries, in order: the whole reply as JSON, the first embedded JSON
// object, and finally keyword scanning. Every result is checked against
// the legal action set; when nothing usable is found the fallback decision
// is returned, so the caller always gets something playable.
func ParseDecision(text string, valid game.ValidActions, bigBlind int) Decision {
	if raw, ok := extractJSON(text); ok {
		if action, ok := normalizeAction(raw.Action, valid); ok {
			return Decision{Action: action, Reasoning: raw.Reasoning}
		}
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "fold"):
		return Decision{Action: game.Fold, Reasoning: "parsed from text"}
	case strings.Contains(lower, "raise") && valid.CanRaise:
		return Decision{Action: game.Raise, Reasoning: "parsed from text"}
	case strings.Contains(lower, "bet") && valid.CanBet:
		return Decision{Action: game.Bet, Reasoning: "parsed from text"}
	case strings.Contains(lower, "call") && valid.CanCall:
		return Decision{Action: game.Call, Reasoning: "parsed from text"}
	case strings.Contains(lower, "check") && valid.CanCheck:
		return Decision{Action: game.Check, Reasoning: "parsed from text"}
	}

	return Fallback(valid, bigBlind)
}

func extractJSON(text string) (rawDecision, bool) {
	var raw rawDecision
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err == nil && raw.Action != "" {
		return raw, true
	}
	if match := embeddedJSON.FindString(text); match != "" {
		if err := json.Unmarshal([]byte(match), &raw); err == nil && raw.Action != "" {
			return raw, true
		}
	}
	return rawDecision{}, false
}

// normalizeAction maps an action name to a legal ActionType. Fold is always
// accepted; anything else must be in the legal set.
func normalizeAction(name string, valid game.ValidActions) (game.ActionType, bool) {
	action, err := game.ParseActionType(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return 0, false
	}
	switch action {
	case game.Fold:
		return game.Fold, true
	case game.Check:
		return game.Check, valid.CanCheck
	case game.Call:
		return game.Call, valid.CanCall
	case game.Bet:
		return game.Bet, valid.CanBet
	case game.Raise:
		return game.Raise, valid.CanRaise
	}
	return 0, false
}
