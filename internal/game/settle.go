package game

import (
	"fmt"
	"sort"

	"pokerarena/internal/evaluator"
)

// buildPotLayers partitions the hand's money into pot layers from final
// per-player contributions. Levels are the distinct non-zero contributions
// of non-folded players, ascending; each layer (P, L] collects
// min(contribution, L) - P from every contributor, so folded money funds the
// layers without granting eligibility. Folded contributions above the top
// non-folded level are folded into the last layer.
func buildPotLayers(players []Player) []Pot {
	levelSet := make(map[int]bool)
	for i := range players {
		if players[i].InHand() && players[i].TotalBetThisHand > 0 {
			levelSet[players[i].TotalBetThisHand] = true
		}
	}
	if len(levelSet) == 0 {
		return nil
	}

	levels := make([]int, 0, len(levelSet))
	for level := range levelSet {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	layers := make([]Pot, 0, len(levels))
	prev := 0
	for _, level := range levels {
		layer := Pot{}
		for i := range players {
			contribution := min(players[i].TotalBetThisHand, level) - prev
			if contribution > 0 {
				layer.Amount += contribution
			}
			if players[i].InHand() && players[i].TotalBetThisHand >= level {
				layer.EligiblePlayers = append(layer.EligiblePlayers, players[i].ID)
			}
		}
		layers = append(layers, layer)
		prev = level
	}

	// Dead money past the top level (a raise everyone folded to after an
	// all-in) still belongs to the pot.
	top := levels[len(levels)-1]
	excess := 0
	for i := range players {
		if players[i].TotalBetThisHand > top {
			excess += players[i].TotalBetThisHand - top
		}
	}
	layers[len(layers)-1].Amount += excess

	return layers
}

// settle resolves a showdown: evaluates every non-folded player's best hand,
// awards each pot layer to its winner(s), and records the per-player totals.
// Each layer is floor-divided among tied winners with the integer remainder
// going to the first winner in iteration order.
func settle(state GameState) (GameState, error) {
	next := state.Clone()

	hands := make(map[string]evaluator.EvaluatedHand)
	for i := range next.Players {
		player := &next.Players[i]
		if !player.InHand() {
			continue
		}
		hand, err := evaluator.BestHand(player.HoleCards, next.CommunityCards)
		if err != nil {
			return state, fmt.Errorf("settle hand %d: %w", next.HandNumber, err)
		}
		hands[player.ID] = hand
	}

	layers := buildPotLayers(next.Players)

	winnings := make(map[string]int)
	var order []string
	for _, layer := range layers {
		if layer.Amount == 0 || len(layer.EligiblePlayers) == 0 {
			continue
		}

		layerHands := make([]evaluator.EvaluatedHand, len(layer.EligiblePlayers))
		for i, id := range layer.EligiblePlayers {
			layerHands[i] = hands[id]
		}
		winnerIdx := evaluator.DetermineWinners(layerHands)

		share := layer.Amount / len(winnerIdx)
		remainder := layer.Amount % len(winnerIdx)
		for i, idx := range winnerIdx {
			id := layer.EligiblePlayers[idx]
			amount := share
			if i == 0 {
				amount += remainder
			}
			if _, seen := winnings[id]; !seen {
				order = append(order, id)
			}
			winnings[id] += amount
		}
	}

	next.Winners = make([]Winner, 0, len(order))
	for _, id := range order {
		idx := next.PlayerIndex(id)
		next.Players[idx].Chips += winnings[id]
		hand := hands[id]
		next.Winners = append(next.Winners, Winner{
			PlayerID: id,
			Amount:   winnings[id],
			Hand:     &hand,
		})
	}

	next.Pots = []Pot{{Amount: 0, EligiblePlayers: []string{}}}
	return next, nil
}
