package agent

import (
	"fmt"
	"strings"

	"pokerarena/internal/deck"
	"pokerarena/internal/game"
)

// SystemPrompt frames the rules and the required reply format for models
const SystemPrompt = `You are playing Texas Hold'em Fixed Limit poker against other AI players.

RULES:
- Fixed Limit means bet/raise amounts are fixed: small bet (1 big blind) for preflop/flop, big bet (2 big blinds) for turn/river
- Maximum 4 bets per round (1 bet + 3 raises)
- You must respond with ONLY a valid JSON action

HAND RANKINGS (lowest to highest):
1. High Card
2. One Pair
3. Two Pair
4. Three of a Kind
5. Straight
6. Flush
7. Full House
8. Four of a Kind
9. Straight Flush
10. Royal Flush

Your goal is to maximize your chip winnings over many hands. Consider:
- Your hand strength and potential
- Position relative to dealer
- Pot odds and implied odds
- Opponent behavior patterns
- Stack sizes

RESPONSE FORMAT:
{"action": "ACTION", "reasoning": "one short sentence"} where ACTION is: fold, check, call, bet, raise`

const recentActionCount = 6

// FormatStatePrompt renders the table from one player's point of view:
// own cards and stack, the board, opponents, recent actions, and the legal
// action set. Opponents' hole cards are never included.
func FormatStatePrompt(state game.GameState, playerID string) string {
	idx := state.PlayerIndex(playerID)
	if idx == -1 {
		return ""
	}
	player := state.Players[idx]
	valid := game.GetValidActions(state)

	var b strings.Builder
	fmt.Fprintf(&b, "CURRENT GAME STATE:\n")
	fmt.Fprintf(&b, "Phase: %s\n", strings.ToUpper(state.Phase.String()))
	fmt.Fprintf(&b, "Hand #%d\n\n", state.HandNumber)

	fmt.Fprintf(&b, "YOUR CARDS: %s\n", formatCards(player.HoleCards))
	fmt.Fprintf(&b, "COMMUNITY CARDS: %s\n\n", formatCards(state.CommunityCards))

	fmt.Fprintf(&b, "POT: %d chips\n", state.TotalPot())
	fmt.Fprintf(&b, "YOUR CHIPS: %d\n", player.Chips)
	fmt.Fprintf(&b, "YOUR CURRENT BET: %d\n", player.CurrentBet)
	fmt.Fprintf(&b, "BET TO CALL: %d\n\n", valid.CallAmount)

	b.WriteString("OPPONENTS:\n")
	for _, p := range state.Players {
		if p.ID == playerID {
			continue
		}
		fmt.Fprintf(&b, "  %s: %d chips, %s", p.Name, p.Chips, p.Status)
		if p.CurrentBet > 0 {
			fmt.Fprintf(&b, ", bet %d", p.CurrentBet)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nRECENT ACTIONS:\n")
	actions := state.ActionLog
	if len(actions) > recentActionCount {
		actions = actions[len(actions)-recentActionCount:]
	}
	if len(actions) == 0 {
		b.WriteString("  None yet\n")
	}
	for _, a := range actions {
		name := a.PlayerID
		if i := state.PlayerIndex(a.PlayerID); i != -1 && state.Players[i].Name != "" {
			name = state.Players[i].Name
		}
		fmt.Fprintf(&b, "  %s: %s", name, a.Type)
		if a.Amount > 0 {
			fmt.Fprintf(&b, " %d", a.Amount)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nAVAILABLE ACTIONS: %s\n\n", formatAvailable(valid))
	b.WriteString("Your action?")
	return b.String()
}

func formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return "None yet"
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}

func formatAvailable(valid game.ValidActions) string {
	var actions []string
	if valid.CanFold {
		actions = append(actions, "fold")
	}
	if valid.CanCheck {
		actions = append(actions, "check")
	}
	if valid.CanCall {
		actions = append(actions, fmt.Sprintf("call (%d chips)", valid.CallAmount))
	}
	if valid.CanBet {
		actions = append(actions, fmt.Sprintf("bet (%d chips)", valid.BetAmount))
	}
	if valid.CanRaise {
		actions = append(actions, fmt.Sprintf("raise (%d chips more)", valid.RaiseAmount))
	}
	return strings.Join(actions, ", ")
}
