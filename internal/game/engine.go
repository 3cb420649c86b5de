package game

import (
	rand "math/rand/v2"
	"time"

	"github.com/google/uuid"

	"pokerarena/internal/deck"
)

// Default table parameters, used when the config leaves them zero
const (
	DefaultStartingChips = 1000
	DefaultSmallBlind    = 5
	DefaultBigBlind      = 10

	holeCardCount = 2
	flopCards     = 3
	turnCards     = 1
	riverCards    = 1

	maxPlayers = 10
)

// PlayerConfig identifies one seat: id, display name, and a free-form
// model/strategy tag carried through for display.
type PlayerConfig struct {
	ID    string
	Name  string
	Model string
}

// Config configures a table session
type Config struct {
	Players       []PlayerConfig
	StartingChips int
	SmallBlind    int
	BigBlind      int
}

// NewGame builds the initial game state: seated players with starting
// stacks, phase waiting, empty pots and log. Fails with
// MalformedConfigError before any hand starts.
func NewGame(cfg Config) (GameState, error) {
	if cfg.StartingChips == 0 {
		cfg.StartingChips = DefaultStartingChips
	}
	if cfg.SmallBlind == 0 {
		cfg.SmallBlind = DefaultSmallBlind
	}
	if cfg.BigBlind == 0 {
		cfg.BigBlind = DefaultBigBlind
	}

	if len(cfg.Players) < 2 {
		return GameState{}, malformedConfig("need at least 2 players, got %d", len(cfg.Players))
	}
	if len(cfg.Players) > maxPlayers {
		return GameState{}, malformedConfig("at most %d players, got %d", maxPlayers, len(cfg.Players))
	}
	if cfg.StartingChips < 0 {
		return GameState{}, malformedConfig("starting chips must be positive, got %d", cfg.StartingChips)
	}
	if cfg.SmallBlind < 0 || cfg.BigBlind < 0 || cfg.BigBlind < cfg.SmallBlind {
		return GameState{}, malformedConfig("invalid blinds %d/%d", cfg.SmallBlind, cfg.BigBlind)
	}
	if cfg.StartingChips < cfg.BigBlind {
		return GameState{}, malformedConfig("starting chips %d below big blind %d", cfg.StartingChips, cfg.BigBlind)
	}

	seen := make(map[string]bool)
	players := make([]Player, len(cfg.Players))
	eligible := make([]string, len(cfg.Players))
	for i, pc := range cfg.Players {
		id := pc.ID
		if id == "" {
			return GameState{}, malformedConfig("player %d has no id", i)
		}
		if seen[id] {
			return GameState{}, malformedConfig("duplicate player id %q", id)
		}
		seen[id] = true

		players[i] = Player{
			ID:           id,
			Name:         pc.Name,
			Model:        pc.Model,
			Chips:        cfg.StartingChips,
			HoleCards:    []deck.Card{},
			Status:       StatusActive,
			SeatPosition: i,
			IsDealer:     i == 0,
		}
		eligible[i] = id
	}

	return GameState{
		ID:         uuid.NewString(),
		Phase:      Waiting,
		Players:    players,
		Pots:       []Pot{{Amount: 0, EligiblePlayers: eligible}},
		SmallBlind: cfg.SmallBlind,
		BigBlind:   cfg.BigBlind,
		BettingRound: BettingRound{
			Phase:        Waiting,
			MinRaise:     cfg.BigBlind,
			ActedPlayers: NewActedSet(),
		},
		ActionLog: []PlayerAction{},
		Winners:   []Winner{},
	}, nil
}

// StartHand begins the next hand: rotates the dealer, resets per-hand
// fields, shuffles a fresh deck from the provided RNG, posts blinds, deals
// hole cards and resolves the first player to act. If fewer than 2 players
// still have chips the table transitions to Complete instead.
func StartHand(state GameState, rng *rand.Rand) (GameState, error) {
	next := state.Clone()

	next.DealerPosition = (next.DealerPosition + 1) % len(next.Players)

	for i := range next.Players {
		p := &next.Players[i]
		p.HoleCards = []deck.Card{}
		p.CurrentBet = 0
		p.TotalBetThisHand = 0
		p.IsDealer = i == next.DealerPosition
		p.IsTurn = false
		if p.Chips > 0 {
			p.Status = StatusActive
		} else {
			p.Status = StatusOut
		}
	}

	active := next.activeNotAllIn()
	if len(active) < 2 {
		next.Phase = Complete
		return next, nil
	}

	next.Deck = deck.NewShuffled(rng)
	next.CommunityCards = []deck.Card{}
	eligible := make([]string, 0, len(active))
	for _, seat := range active {
		eligible = append(eligible, next.Players[seat].ID)
	}
	next.Pots = []Pot{{Amount: 0, EligiblePlayers: eligible}}
	next.ActionLog = []PlayerAction{}
	next.Winners = []Winner{}
	next.HandNumber++

	firstToAct := postBlinds(&next)

	if err := dealHoleCards(&next); err != nil {
		return state, err
	}

	next.Phase = Preflop
	next.BettingRound = BettingRound{
		Phase:        Preflop,
		CurrentBet:   next.BigBlind,
		MinRaise:     next.BigBlind,
		ActedPlayers: NewActedSet(),
	}

	setCurrentPlayer(&next, firstToAct)

	// Blinds can leave nobody able to act (everyone all-in); the board
	// runs out straight to settlement in that case.
	if isBettingRoundComplete(&next) {
		return advancePhase(next)
	}
	return next, nil
}

// postBlinds commits the small and big blinds, capped by each player's
// stack, and returns the first seat to act preflop. Heads-up the dealer
// posts the small blind and acts first; otherwise the small blind is the
// next active seat after the dealer and action opens after the big blind.
// A blind poster who went all-in is skipped when resolving the first seat.
func postBlinds(state *GameState) int {
	numPlayers := len(state.Players)
	headsUp := len(state.activeNotAllIn()) == 2

	var sbPos int
	if headsUp {
		sbPos = nextActiveFrom(state, state.DealerPosition)
	} else {
		sbPos = nextActiveFrom(state, (state.DealerPosition+1)%numPlayers)
	}
	bbPos := nextActiveFrom(state, (sbPos+1)%numPlayers)

	postBlind(state, sbPos, state.SmallBlind)
	postBlind(state, bbPos, state.BigBlind)

	first := sbPos
	if !headsUp {
		first = (bbPos + 1) % numPlayers
	}
	return nextActiveFrom(state, first)
}

func postBlind(state *GameState, seat, blind int) {
	player := &state.Players[seat]
	amount := min(blind, player.Chips)
	player.Chips -= amount
	player.CurrentBet = amount
	player.TotalBetThisHand = amount
	state.Pots[0].Amount += amount

	state.ActionLog = append(state.ActionLog, PlayerAction{
		Type:      Bet,
		Amount:    amount,
		PlayerID:  player.ID,
		Timestamp: time.Now(),
	})

	if player.Chips == 0 && amount > 0 {
		player.Status = StatusAllIn
	}
}

func dealHoleCards(state *GameState) error {
	for i := range state.Players {
		if !state.Players[i].InHand() {
			continue
		}
		drawn, rest, err := deck.Draw(state.Deck, holeCardCount)
		if err != nil {
			return err
		}
		state.Players[i].HoleCards = drawn
		state.Deck = rest
	}
	return nil
}

// firstPostFlop returns the first active seat clockwise from the dealer
func firstPostFlop(state *GameState) int {
	pos := nextActiveFrom(state, (state.DealerPosition+1)%len(state.Players))
	if pos == -1 {
		return state.DealerPosition
	}
	return pos
}

// nextActiveFrom scans cyclically for an active seat starting at startPos
// inclusive, skipping folded/all-in/out seats. Returns -1 if none.
func nextActiveFrom(state *GameState, startPos int) int {
	numPlayers := len(state.Players)
	for i := 0; i < numPlayers; i++ {
		pos := (startPos + i) % numPlayers
		if state.Players[pos].Status == StatusActive {
			return pos
		}
	}
	return -1
}

// nextActiveAfter scans cyclically for an active seat strictly after idx
func nextActiveAfter(state *GameState, idx int) int {
	return nextActiveFrom(state, (idx+1)%len(state.Players))
}

// setCurrentPlayer updates the acting index and the derived isTurn flags
func setCurrentPlayer(state *GameState, idx int) {
	state.CurrentPlayerIndex = idx
	for i := range state.Players {
		state.Players[i].IsTurn = i == idx && state.Players[i].Status == StatusActive
	}
}

// ProcessOptions carries optional per-action metadata
type ProcessOptions struct {
	// Reasoning is opaque text from the decision source, carried through
	// for display only.
	Reasoning string
	// Timestamp stamps the action-log entry; zero means time.Now().
	Timestamp time.Time
}

// ProcessAction validates and applies one action for the given player. On
// rejection the input state is returned unchanged alongside a typed error.
// After an accepted action the hand ends immediately if only one non-folded
// player remains; otherwise the phase advances when the betting round is
// complete, or the turn passes to the next active seat.
func ProcessAction(state GameState, playerID string, action ActionType, opts ProcessOptions) (GameState, error) {
	if err := validateAction(&state, playerID, action); err != nil {
		return state, err
	}

	ts := opts.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	next := applyAction(state, playerID, action, opts.Reasoning, ts)

	if inHand := next.playersInHand(); len(inHand) == 1 {
		return endHand(next)
	}

	if isBettingRoundComplete(&next) {
		return advancePhase(next)
	}

	if idx := nextActiveAfter(&next, next.CurrentPlayerIndex); idx != -1 {
		setCurrentPlayer(&next, idx)
	}
	return next, nil
}

var phaseOrder = [...]Phase{Preflop, Flop, Turn, River, Showdown}

// advancePhase deals the next community cards and opens a fresh betting
// round. When no player can act (everyone left is all-in) it keeps
// advancing street by street until showdown, so an all-in runout settles
// without further calls.
func advancePhase(state GameState) (GameState, error) {
	next := state
	for {
		idx := -1
		for i, p := range phaseOrder {
			if p == next.Phase {
				idx = i
				break
			}
		}
		if idx == -1 || idx >= len(phaseOrder)-1 {
			return endHand(next)
		}

		nextPhase := phaseOrder[idx+1]
		if nextPhase == Showdown {
			return endHand(next)
		}

		var toDeal int
		switch nextPhase {
		case Flop:
			toDeal = flopCards
		case Turn:
			toDeal = turnCards
		case River:
			toDeal = riverCards
		}
		drawn, rest, err := deck.Draw(next.Deck, toDeal)
		if err != nil {
			return state, err
		}
		next = next.Clone()
		next.CommunityCards = append(next.CommunityCards, drawn...)
		next.Deck = rest

		next = resetBettingRound(next, nextPhase)
		setCurrentPlayer(&next, firstPostFlop(&next))

		// With everyone all-in there is nobody left to act; run out the
		// remaining streets.
		if !isBettingRoundComplete(&next) {
			return next, nil
		}
	}
}

// endHand settles the hand: with a single non-folded player the entire pot
// is awarded without evaluation; otherwise settlement partitions the pot
// into layers and compares hands per layer. Pots reset afterwards; the next
// hand starts only on an explicit StartHand call.
func endHand(state GameState) (GameState, error) {
	next := state.Clone()
	next.Phase = Showdown
	for i := range next.Players {
		next.Players[i].IsTurn = false
	}
	next.CurrentPlayerIndex = -1

	inHand := next.playersInHand()
	if len(inHand) == 1 {
		winner := &next.Players[inHand[0]]
		amount := next.TotalPot()
		winner.Chips += amount
		next.Winners = []Winner{{PlayerID: winner.ID, Amount: amount}}
		next.Pots = []Pot{{Amount: 0, EligiblePlayers: []string{}}}
		return next, nil
	}

	return settle(next)
}

// IsGameOver reports table-level completion: at most one player has chips
func IsGameOver(state GameState) bool {
	withChips := 0
	for i := range state.Players {
		if state.Players[i].Chips > 0 {
			withChips++
		}
	}
	return withChips <= 1
}

// GameWinner returns the last player holding chips, or nil while the table
// is still contested.
func GameWinner(state GameState) *Player {
	var winner *Player
	for i := range state.Players {
		if state.Players[i].Chips > 0 {
			if winner != nil {
				return nil
			}
			p := state.Players[i]
			winner = &p
		}
	}
	return winner
}
