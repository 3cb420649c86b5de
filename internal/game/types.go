// Package game implements the Fixed-Limit Texas Hold'em engine: a
// deterministic state machine over an explicit GameState value. Every public
// operation is a pure transform from one GameState to the next; the caller's
// copy is never mutated.
package game

import (
	"encoding/json"
	"fmt"
	"time"

	"pokerarena/internal/deck"
	"pokerarena/internal/evaluator"
)

// Phase is a stage of the hand lifecycle
type Phase int

const (
	Waiting Phase = iota
	Preflop
	Flop
	Turn
	River
	Showdown
	Complete
)

var phaseNames = [...]string{"waiting", "preflop", "flop", "turn", "river", "showdown", "complete"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// MarshalJSON encodes the phase as its lowercase name
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a phase from its lowercase name
func (p *Phase) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range phaseNames {
		if n == name {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", name)
}

// Status is a player's standing within the current hand
type Status int

const (
	StatusActive Status = iota
	StatusFolded
	StatusAllIn
	StatusOut
)

var statusNames = [...]string{"active", "folded", "all_in", "out"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// MarshalJSON encodes the status as its wire name
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status from its wire name
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range statusNames {
		if n == name {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", name)
}

// ActionType is the closed set of betting actions
type ActionType int

const (
	Fold ActionType = iota
	Check
	Call
	Bet
	Raise
)

var actionNames = [...]string{"fold", "check", "call", "bet", "raise"}

func (a ActionType) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// ParseActionType parses a lowercase action name
func ParseActionType(name string) (ActionType, error) {
	for i, n := range actionNames {
		if n == name {
			return ActionType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// MarshalJSON encodes the action as its lowercase name
func (a ActionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes an action from its lowercase name
func (a *ActionType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseActionType(name)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// PlayerAction is one accepted entry in the hand's chronological action log.
// Amount is the chips actually committed, not the nominal amount.
type PlayerAction struct {
	Type      ActionType `json:"type"`
	Amount    int        `json:"amount,omitempty"`
	PlayerID  string     `json:"playerId"`
	Timestamp time.Time  `json:"timestamp"`
	Reasoning string     `json:"reasoning,omitempty"`
}

// Player is one seat at the table
type Player struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Model            string      `json:"model,omitempty"`
	Chips            int         `json:"chips"`
	HoleCards        []deck.Card `json:"holeCards"`
	CurrentBet       int         `json:"currentBet"`
	TotalBetThisHand int         `json:"totalBetThisHand"`
	Status           Status      `json:"status"`
	SeatPosition     int         `json:"seatPosition"`
	IsDealer         bool        `json:"isDealer"`
	IsTurn           bool        `json:"isTurn"`
}

// InHand returns true if the player still contests the pot (active or all-in)
func (p *Player) InHand() bool {
	return p.Status == StatusActive || p.Status == StatusAllIn
}

// Pot is one pot layer. Multiple layers exist only when players went all-in
// at different contribution levels during the same hand.
type Pot struct {
	Amount          int      `json:"amount"`
	EligiblePlayers []string `json:"eligiblePlayers"`
}

// BettingRound tracks the state of the current betting round
type BettingRound struct {
	Phase           Phase    `json:"phase"`
	CurrentBet      int      `json:"currentBet"`
	MinRaise        int      `json:"minRaise"`
	RaisesThisRound int      `json:"raisesThisRound"`
	LastRaiser      string   `json:"lastRaiser,omitempty"`
	ActedPlayers    ActedSet `json:"actedPlayers"`
}

// Winner records one player's share of a settled hand
type Winner struct {
	PlayerID string                   `json:"playerId"`
	Amount   int                      `json:"amount"`
	Hand     *evaluator.EvaluatedHand `json:"hand,omitempty"`
}

// GameState is the aggregate root and single source of truth for a table
// session. It is plain data, fully JSON round-trippable.
type GameState struct {
	ID                 string         `json:"id"`
	Phase              Phase          `json:"phase"`
	Players            []Player       `json:"players"`
	Deck               deck.Deck      `json:"deck"`
	CommunityCards     []deck.Card    `json:"communityCards"`
	Pots               []Pot          `json:"pots"`
	DealerPosition     int            `json:"dealerPosition"`
	CurrentPlayerIndex int            `json:"currentPlayerIndex"`
	SmallBlind         int            `json:"smallBlind"`
	BigBlind           int            `json:"bigBlind"`
	BettingRound       BettingRound   `json:"bettingRound"`
	ActionLog          []PlayerAction `json:"actionLog"`
	HandNumber         int            `json:"handNumber"`
	Winners            []Winner       `json:"winners"`
}

// Clone returns a deep copy of the state. Engine operations clone the
// incoming state and mutate only the clone, so states never alias.
func (s GameState) Clone() GameState {
	next := s

	next.Players = make([]Player, len(s.Players))
	copy(next.Players, s.Players)
	for i := range next.Players {
		next.Players[i].HoleCards = append([]deck.Card(nil), s.Players[i].HoleCards...)
	}

	next.Deck = append(deck.Deck(nil), s.Deck...)
	next.CommunityCards = append([]deck.Card(nil), s.CommunityCards...)

	next.Pots = make([]Pot, len(s.Pots))
	for i, pot := range s.Pots {
		next.Pots[i] = Pot{
			Amount:          pot.Amount,
			EligiblePlayers: append([]string(nil), pot.EligiblePlayers...),
		}
	}

	next.BettingRound.ActedPlayers = s.BettingRound.ActedPlayers.Clone()
	next.ActionLog = append([]PlayerAction(nil), s.ActionLog...)
	next.Winners = append([]Winner(nil), s.Winners...)

	return next
}

// PlayerIndex returns the seat index of the player with the given id, or -1
func (s *GameState) PlayerIndex(playerID string) int {
	for i := range s.Players {
		if s.Players[i].ID == playerID {
			return i
		}
	}
	return -1
}

// CurrentPlayer returns the player to act, or nil if the index is out of range
func (s *GameState) CurrentPlayer() *Player {
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return nil
	}
	return &s.Players[s.CurrentPlayerIndex]
}

// TotalPot returns the combined amount across all pot layers
func (s *GameState) TotalPot() int {
	total := 0
	for _, pot := range s.Pots {
		total += pot.Amount
	}
	return total
}

// TotalChips returns chips behind plus chips in the pot, the conserved
// quantity across every transition. Committed bets move into the pot the
// moment they are applied, so CurrentBet is bookkeeping, not extra money.
func (s *GameState) TotalChips() int {
	total := s.TotalPot()
	for i := range s.Players {
		total += s.Players[i].Chips
	}
	return total
}

func (s *GameState) playersInHand() []int {
	seats := make([]int, 0, len(s.Players))
	for i := range s.Players {
		if s.Players[i].InHand() {
			seats = append(seats, i)
		}
	}
	return seats
}

func (s *GameState) activeNotAllIn() []int {
	seats := make([]int, 0, len(s.Players))
	for i := range s.Players {
		if s.Players[i].Status == StatusActive {
			seats = append(seats, i)
		}
	}
	return seats
}
