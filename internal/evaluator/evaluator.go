// Package evaluator scores 5-7 card sets, finds the best 5-card poker hand
// and totally orders hands by strength.
package evaluator

import (
	"fmt"
	"sort"

	"pokerarena/internal/deck"
)

// HandRank is the category of a 5-card hand, ordered weakest to strongest
type HandRank int

const (
	HighCard HandRank = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category name
func (hr HandRank) String() string {
	switch hr {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// EvaluatedHand is a hand category plus the specific 5 cards and the ordered
// kicker values used to break ties within the category.
type EvaluatedHand struct {
	Rank    HandRank    `json:"rank"`
	Cards   []deck.Card `json:"cards"`
	Kickers []int       `json:"kickers"`
}

// Evaluate determines the best possible 5-card hand from 5-7 cards by
// scoring every 5-card subset. Fewer than 5 cards fails with
// deck.ErrInsufficientCards.
func Evaluate(cards []deck.Card) (EvaluatedHand, error) {
	if len(cards) < 5 {
		return EvaluatedHand{}, fmt.Errorf("evaluate %d cards: %w", len(cards), deck.ErrInsufficientCards)
	}

	var best EvaluatedHand
	first := true
	combine(cards, func(combo []deck.Card) {
		hand := evaluate5(combo)
		if first || Compare(hand, best) > 0 {
			best = hand
			first = false
		}
	})
	return best, nil
}

// BestHand evaluates hole cards plus community cards
func BestHand(holeCards, communityCards []deck.Card) (EvaluatedHand, error) {
	all := make([]deck.Card, 0, len(holeCards)+len(communityCards))
	all = append(all, holeCards...)
	all = append(all, communityCards...)
	return Evaluate(all)
}

// Compare orders two evaluated hands: category first, then kicker lists
// element-wise. Returns >0 if a beats b, <0 if b beats a, 0 on an exact tie.
func Compare(a, b EvaluatedHand) int {
	if a.Rank != b.Rank {
		return int(a.Rank) - int(b.Rank)
	}
	n := len(a.Kickers)
	if len(b.Kickers) < n {
		n = len(b.Kickers)
	}
	for i := 0; i < n; i++ {
		if a.Kickers[i] != b.Kickers[i] {
			return a.Kickers[i] - b.Kickers[i]
		}
	}
	return 0
}

// DetermineWinners returns the indices of all hands tied for best, for split
// pots.
func DetermineWinners(hands []EvaluatedHand) []int {
	if len(hands) == 0 {
		return nil
	}

	best := []int{0}
	for i := 1; i < len(hands); i++ {
		switch cmp := Compare(hands[i], hands[best[0]]); {
		case cmp > 0:
			best = []int{i}
		case cmp == 0:
			best = append(best, i)
		}
	}
	return best
}

// combine invokes fn with every 5-card subset of cards. With at most 7 cards
// this is at most C(7,5) = 21 subsets.
func combine(cards []deck.Card, fn func([]deck.Card)) {
	combo := make([]deck.Card, 0, 5)
	var recurse func(start int)
	recurse = func(start int) {
		if len(combo) == 5 {
			subset := make([]deck.Card, 5)
			copy(subset, combo)
			fn(subset)
			return
		}
		for i := start; i < len(cards); i++ {
			combo = append(combo, cards[i])
			recurse(i + 1)
			combo = combo[:len(combo)-1]
		}
	}
	recurse(0)
}

// evaluate5 scores exactly 5 cards
func evaluate5(cards []deck.Card) EvaluatedHand {
	counts := countRanks(cards)
	flush := isFlush(cards)
	straightHigh := straightHighCard(cards)
	straight := straightHigh > 0

	switch {
	case flush && straight && straightHigh == deck.Ace.Value():
		return EvaluatedHand{Rank: RoyalFlush, Cards: cards, Kickers: []int{deck.Ace.Value()}}
	case flush && straight:
		return EvaluatedHand{Rank: StraightFlush, Cards: cards, Kickers: []int{straightHigh}}
	}

	grouped := ranksByCount(counts)
	topCounts := sortedCounts(counts)

	switch {
	case topCounts[0] == 4:
		return EvaluatedHand{Rank: FourOfAKind, Cards: cards, Kickers: grouped}
	case topCounts[0] == 3 && topCounts[1] == 2:
		return EvaluatedHand{Rank: FullHouse, Cards: cards, Kickers: grouped}
	case flush:
		return EvaluatedHand{Rank: Flush, Cards: cards, Kickers: valuesDescending(cards)}
	case straight:
		return EvaluatedHand{Rank: Straight, Cards: cards, Kickers: []int{straightHigh}}
	case topCounts[0] == 3:
		return EvaluatedHand{Rank: ThreeOfAKind, Cards: cards, Kickers: grouped}
	case topCounts[0] == 2 && topCounts[1] == 2:
		return EvaluatedHand{Rank: TwoPair, Cards: cards, Kickers: grouped}
	case topCounts[0] == 2:
		return EvaluatedHand{Rank: OnePair, Cards: cards, Kickers: grouped}
	}
	return EvaluatedHand{Rank: HighCard, Cards: cards, Kickers: valuesDescending(cards)}
}

func countRanks(cards []deck.Card) map[int]int {
	counts := make(map[int]int, len(cards))
	for _, c := range cards {
		counts[c.Value()]++
	}
	return counts
}

func isFlush(cards []deck.Card) bool {
	suit := cards[0].Suit
	for _, c := range cards[1:] {
		if c.Suit != suit {
			return false
		}
	}
	return true
}

// straightHighCard returns the high card value of a straight, or 0 if the
// cards are not 5 consecutive ranks. A-2-3-4-5 is the one straight where the
// Ace plays low; its high card is 5.
func straightHighCard(cards []deck.Card) int {
	values := make([]int, len(cards))
	for i, c := range cards {
		values[i] = c.Value()
	}
	sort.Ints(values)

	// Wheel: A-2-3-4-5
	if values[0] == 2 && values[1] == 3 && values[2] == 4 && values[3] == 5 && values[4] == deck.Ace.Value() {
		return 5
	}

	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]+1 {
			return 0
		}
	}
	return values[4]
}

// ranksByCount orders rank values by (count desc, rank value desc), the
// kicker ordering for multiples-based categories.
func ranksByCount(counts map[int]int) []int {
	values := make([]int, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool {
		if counts[values[i]] != counts[values[j]] {
			return counts[values[i]] > counts[values[j]]
		}
		return values[i] > values[j]
	})
	return values
}

func sortedCounts(counts map[int]int) []int {
	out := make([]int, 0, len(counts))
	for _, n := range counts {
		out = append(out, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

func valuesDescending(cards []deck.Card) []int {
	values := make([]int, len(cards))
	for i, c := range cards {
		values[i] = c.Value()
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))
	return values
}
