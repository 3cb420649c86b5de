package game

import "time"

// MaxRaisesPerRound caps bets+raises in a betting round: 1 bet + 3 raises
const MaxRaisesPerRound = 4

// BetSize returns the fixed-limit unit wager for a phase: the small bet
// (1 big blind) for preflop/flop, the big bet (2 big blinds) for turn/river.
func BetSize(phase Phase, bigBlind int) int {
	if phase == Preflop || phase == Flop {
		return bigBlind
	}
	return bigBlind * 2
}

// ValidActions describes what the player to act may legally do. The reported
// amounts are informational; applied amounts are capped by the player's
// stack, never by folding.
type ValidActions struct {
	CanFold     bool `json:"canFold"`
	CanCheck    bool `json:"canCheck"`
	CanCall     bool `json:"canCall"`
	CallAmount  int  `json:"callAmount"`
	CanBet      bool `json:"canBet"`
	BetAmount   int  `json:"betAmount"`
	CanRaise    bool `json:"canRaise"`
	RaiseAmount int  `json:"raiseAmount"`
}

// GetValidActions computes the legal action set for the current player
func GetValidActions(state GameState) ValidActions {
	player := state.CurrentPlayer()
	if player == nil {
		return ValidActions{}
	}

	betSize := BetSize(state.Phase, state.BigBlind)
	toCall := state.BettingRound.CurrentBet - player.CurrentBet

	return ValidActions{
		CanFold:     toCall > 0,
		CanCheck:    toCall == 0,
		CanCall:     toCall > 0 && player.Chips >= toCall,
		CallAmount:  toCall,
		CanBet:      state.BettingRound.CurrentBet == 0 && player.Chips >= betSize,
		BetAmount:   betSize,
		CanRaise:    state.BettingRound.CurrentBet > 0 && state.BettingRound.RaisesThisRound < MaxRaisesPerRound && player.Chips >= toCall+betSize,
		RaiseAmount: betSize,
	}
}

// validateAction rejects actions that are not legal for the requesting
// player in the current state. Folding is accepted even when checking is
// free.
func validateAction(state *GameState, playerID string, action ActionType) error {
	idx := state.PlayerIndex(playerID)
	if idx == -1 {
		return illegalAction(playerID, action, "player not found")
	}
	if idx != state.CurrentPlayerIndex {
		return illegalAction(playerID, action, "not this player's turn")
	}
	if state.Players[idx].Status != StatusActive {
		return illegalAction(playerID, action, "player is %s, not active", state.Players[idx].Status)
	}

	valid := GetValidActions(*state)
	switch action {
	case Fold:
		return nil
	case Check:
		if !valid.CanCheck {
			return illegalAction(playerID, action, "there is a bet of %d to call", valid.CallAmount)
		}
	case Call:
		if !valid.CanCall {
			return illegalAction(playerID, action, "no bet to call or insufficient chips")
		}
	case Bet:
		if !valid.CanBet {
			return illegalAction(playerID, action, "there is already a bet or insufficient chips")
		}
	case Raise:
		if !valid.CanRaise {
			return illegalAction(playerID, action, "raise cap reached or insufficient chips")
		}
	default:
		return illegalAction(playerID, action, "unknown action type")
	}
	return nil
}

// applyAction applies a validated action and returns the next state. Applied
// amounts are capped by the player's stack; a player whose stack reaches
// zero transitions to all-in.
func applyAction(state GameState, playerID string, action ActionType, reasoning string, ts time.Time) GameState {
	next := state.Clone()
	idx := next.PlayerIndex(playerID)
	player := &next.Players[idx]
	betSize := BetSize(next.Phase, next.BigBlind)

	committed := 0

	switch action {
	case Fold:
		player.Status = StatusFolded

	case Check:
		// No chip movement, only recorded.

	case Call:
		committed = min(next.BettingRound.CurrentBet-player.CurrentBet, player.Chips)
		commit(&next, player, committed)

	case Bet:
		committed = min(betSize, player.Chips)
		commit(&next, player, committed)
		next.BettingRound.CurrentBet = player.CurrentBet
		next.BettingRound.RaisesThisRound = 1
		next.BettingRound.LastRaiser = playerID

	case Raise:
		toCall := next.BettingRound.CurrentBet - player.CurrentBet
		committed = min(toCall+betSize, player.Chips)
		commit(&next, player, committed)
		next.BettingRound.CurrentBet = player.CurrentBet
		next.BettingRound.RaisesThisRound++
		next.BettingRound.LastRaiser = playerID
	}

	next.ActionLog = append(next.ActionLog, PlayerAction{
		Type:      action,
		Amount:    committed,
		PlayerID:  playerID,
		Timestamp: ts,
		Reasoning: reasoning,
	})
	next.BettingRound.ActedPlayers.Add(playerID)

	return next
}

// commit moves chips from the player's stack into the pot
func commit(state *GameState, player *Player, amount int) {
	player.Chips -= amount
	player.CurrentBet += amount
	player.TotalBetThisHand += amount
	state.Pots[0].Amount += amount
	if player.Chips == 0 {
		player.Status = StatusAllIn
	}
}

// isBettingRoundComplete reports whether the round is over: at most one
// non-folded player remains, or every active (non-all-in) player has acted
// since the last bet-level change and matched the current bet. All-in
// players are exempt but stay eligible for the pot.
func isBettingRoundComplete(state *GameState) bool {
	inHand := state.playersInHand()
	if len(inHand) <= 1 {
		return true
	}

	active := state.activeNotAllIn()
	if len(active) == 0 {
		return true
	}

	for _, seat := range active {
		player := &state.Players[seat]
		if !state.BettingRound.ActedPlayers.Has(player.ID) {
			return false
		}
		if player.CurrentBet < state.BettingRound.CurrentBet {
			return false
		}
	}
	return true
}

// resetBettingRound opens a fresh betting round for the given phase:
// currentBet 0, empty acted set, bet unit recomputed, per-round bets cleared.
func resetBettingRound(state GameState, phase Phase) GameState {
	next := state.Clone()
	next.Phase = phase
	next.BettingRound = BettingRound{
		Phase:           phase,
		CurrentBet:      0,
		MinRaise:        BetSize(phase, next.BigBlind),
		RaisesThisRound: 0,
		ActedPlayers:    NewActedSet(),
	}
	for i := range next.Players {
		next.Players[i].CurrentBet = 0
	}
	return next
}
