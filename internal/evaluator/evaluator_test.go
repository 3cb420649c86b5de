package evaluator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokerarena/internal/deck"
)

func card(rank deck.Rank, suit deck.Suit) deck.Card {
	return deck.NewCard(suit, rank)
}

func mustEvaluate(t *testing.T, cards []deck.Card) EvaluatedHand {
	t.Helper()
	hand, err := Evaluate(cards)
	require.NoError(t, err)
	return hand
}

func TestEvaluateTooFewCards(t *testing.T) {
	_, err := Evaluate([]deck.Card{
		card(deck.Ace, deck.Spades),
		card(deck.King, deck.Spades),
	})
	require.True(t, errors.Is(err, deck.ErrInsufficientCards))
}

func TestCategories(t *testing.T) {
	tests := []struct {
		name  string
		cards []deck.Card
		want  HandRank
	}{
		{
			name: "royal flush",
			cards: []deck.Card{
				card(deck.Ace, deck.Spades), card(deck.King, deck.Spades),
				card(deck.Queen, deck.Spades), card(deck.Jack, deck.Spades),
				card(deck.Ten, deck.Spades),
			},
			want: RoyalFlush,
		},
		{
			name: "straight flush",
			cards: []deck.Card{
				card(deck.Nine, deck.Hearts), card(deck.Eight, deck.Hearts),
				card(deck.Seven, deck.Hearts), card(deck.Six, deck.Hearts),
				card(deck.Five, deck.Hearts),
			},
			want: StraightFlush,
		},
		{
			name: "four of a kind",
			cards: []deck.Card{
				card(deck.Nine, deck.Hearts), card(deck.Nine, deck.Spades),
				card(deck.Nine, deck.Clubs), card(deck.Nine, deck.Diamonds),
				card(deck.Two, deck.Hearts),
			},
			want: FourOfAKind,
		},
		{
			name: "full house",
			cards: []deck.Card{
				card(deck.King, deck.Hearts), card(deck.King, deck.Spades),
				card(deck.King, deck.Clubs), card(deck.Four, deck.Diamonds),
				card(deck.Four, deck.Hearts),
			},
			want: FullHouse,
		},
		{
			name: "flush",
			cards: []deck.Card{
				card(deck.Ace, deck.Clubs), card(deck.Ten, deck.Clubs),
				card(deck.Seven, deck.Clubs), card(deck.Five, deck.Clubs),
				card(deck.Two, deck.Clubs),
			},
			want: Flush,
		},
		{
			name: "straight",
			cards: []deck.Card{
				card(deck.Eight, deck.Hearts), card(deck.Seven, deck.Spades),
				card(deck.Six, deck.Clubs), card(deck.Five, deck.Diamonds),
				card(deck.Four, deck.Hearts),
			},
			want: Straight,
		},
		{
			name: "three of a kind",
			cards: []deck.Card{
				card(deck.Jack, deck.Hearts), card(deck.Jack, deck.Spades),
				card(deck.Jack, deck.Clubs), card(deck.Eight, deck.Diamonds),
				card(deck.Two, deck.Hearts),
			},
			want: ThreeOfAKind,
		},
		{
			name: "two pair",
			cards: []deck.Card{
				card(deck.Queen, deck.Hearts), card(deck.Queen, deck.Spades),
				card(deck.Three, deck.Clubs), card(deck.Three, deck.Diamonds),
				card(deck.Nine, deck.Hearts),
			},
			want: TwoPair,
		},
		{
			name: "one pair",
			cards: []deck.Card{
				card(deck.Six, deck.Hearts), card(deck.Six, deck.Spades),
				card(deck.Ace, deck.Clubs), card(deck.Nine, deck.Diamonds),
				card(deck.Two, deck.Hearts),
			},
			want: OnePair,
		},
		{
			name: "high card",
			cards: []deck.Card{
				card(deck.Ace, deck.Hearts), card(deck.Jack, deck.Spades),
				card(deck.Eight, deck.Clubs), card(deck.Five, deck.Diamonds),
				card(deck.Two, deck.Hearts),
			},
			want: HighCard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand := mustEvaluate(t, tt.cards)
			assert.Equal(t, tt.want, hand.Rank)
		})
	}
}

func TestWheelStraight(t *testing.T) {
	wheel := mustEvaluate(t, []deck.Card{
		card(deck.Ace, deck.Hearts), card(deck.Two, deck.Spades),
		card(deck.Three, deck.Clubs), card(deck.Four, deck.Diamonds),
		card(deck.Five, deck.Hearts),
	})
	require.Equal(t, Straight, wheel.Rank)
	assert.Equal(t, []int{5}, wheel.Kickers, "ace plays low: high card is the 5")

	sixHigh := mustEvaluate(t, []deck.Card{
		card(deck.Two, deck.Hearts), card(deck.Three, deck.Spades),
		card(deck.Four, deck.Clubs), card(deck.Five, deck.Diamonds),
		card(deck.Six, deck.Hearts),
	})
	assert.Greater(t, Compare(sixHigh, wheel), 0, "6-high straight beats the wheel")
}

func TestBestHandFromSeven(t *testing.T) {
	// Hole: pair of aces. Board: a third ace plus a pair of kings.
	// Best hand is aces full of kings, not four of a kind or a flush.
	hand, err := BestHand(
		[]deck.Card{card(deck.Ace, deck.Hearts), card(deck.Ace, deck.Spades)},
		[]deck.Card{
			card(deck.Ace, deck.Clubs), card(deck.King, deck.Diamonds),
			card(deck.King, deck.Hearts), card(deck.Seven, deck.Clubs),
			card(deck.Two, deck.Diamonds),
		},
	)
	require.NoError(t, err)
	assert.Equal(t, FullHouse, hand.Rank)
	assert.Equal(t, []int{14, 13}, hand.Kickers[:2])
}

func TestFullHouseBeatsFlush(t *testing.T) {
	flush := mustEvaluate(t, []deck.Card{
		card(deck.Ace, deck.Clubs), card(deck.King, deck.Clubs),
		card(deck.Nine, deck.Clubs), card(deck.Five, deck.Clubs),
		card(deck.Two, deck.Clubs),
	})
	fullHouse := mustEvaluate(t, []deck.Card{
		card(deck.Three, deck.Hearts), card(deck.Three, deck.Spades),
		card(deck.Three, deck.Diamonds), card(deck.Two, deck.Hearts),
		card(deck.Two, deck.Spades),
	})
	assert.Greater(t, Compare(fullHouse, flush), 0,
		"category beats category regardless of kickers")
}

func TestKickersBreakTies(t *testing.T) {
	pairWithAce := mustEvaluate(t, []deck.Card{
		card(deck.Eight, deck.Hearts), card(deck.Eight, deck.Spades),
		card(deck.Ace, deck.Clubs), card(deck.Five, deck.Diamonds),
		card(deck.Two, deck.Hearts),
	})
	pairWithKing := mustEvaluate(t, []deck.Card{
		card(deck.Eight, deck.Clubs), card(deck.Eight, deck.Diamonds),
		card(deck.King, deck.Hearts), card(deck.Five, deck.Spades),
		card(deck.Two, deck.Clubs),
	})
	assert.Greater(t, Compare(pairWithAce, pairWithKing), 0)
}

func TestExactTie(t *testing.T) {
	a := mustEvaluate(t, []deck.Card{
		card(deck.Nine, deck.Hearts), card(deck.Nine, deck.Spades),
		card(deck.King, deck.Clubs), card(deck.Seven, deck.Diamonds),
		card(deck.Three, deck.Hearts),
	})
	b := mustEvaluate(t, []deck.Card{
		card(deck.Nine, deck.Clubs), card(deck.Nine, deck.Diamonds),
		card(deck.King, deck.Hearts), card(deck.Seven, deck.Spades),
		card(deck.Three, deck.Clubs),
	})
	assert.Zero(t, Compare(a, b))
}

func TestEvaluateDeterministicAndOrderIndependent(t *testing.T) {
	cards := []deck.Card{
		card(deck.Ace, deck.Hearts), card(deck.Ace, deck.Spades),
		card(deck.King, deck.Clubs), card(deck.King, deck.Diamonds),
		card(deck.Nine, deck.Hearts), card(deck.Four, deck.Clubs),
		card(deck.Two, deck.Diamonds),
	}
	first := mustEvaluate(t, cards)

	reversed := make([]deck.Card, len(cards))
	for i, c := range cards {
		reversed[len(cards)-1-i] = c
	}
	second := mustEvaluate(t, reversed)

	assert.Equal(t, first.Rank, second.Rank)
	assert.Equal(t, first.Kickers, second.Kickers)
	assert.Zero(t, Compare(first, second))
}

func TestEvaluatorMonotonicity(t *testing.T) {
	// Set A has four of a kind available; set B shares five cards but only
	// reaches two pair.
	shared := []deck.Card{
		card(deck.Nine, deck.Hearts), card(deck.Nine, deck.Spades),
		card(deck.King, deck.Clubs), card(deck.Five, deck.Diamonds),
		card(deck.Two, deck.Hearts),
	}
	setA := append(append([]deck.Card{}, shared...),
		card(deck.Nine, deck.Clubs), card(deck.Nine, deck.Diamonds))
	setB := append(append([]deck.Card{}, shared...),
		card(deck.King, deck.Diamonds), card(deck.Three, deck.Clubs))

	a := mustEvaluate(t, setA)
	b := mustEvaluate(t, setB)
	assert.Greater(t, Compare(a, b), 0)
}

func TestDetermineWinners(t *testing.T) {
	straight := mustEvaluate(t, []deck.Card{
		card(deck.Eight, deck.Hearts), card(deck.Seven, deck.Spades),
		card(deck.Six, deck.Clubs), card(deck.Five, deck.Diamonds),
		card(deck.Four, deck.Hearts),
	})
	pair := mustEvaluate(t, []deck.Card{
		card(deck.Six, deck.Hearts), card(deck.Six, deck.Spades),
		card(deck.Ace, deck.Clubs), card(deck.Nine, deck.Diamonds),
		card(deck.Two, deck.Hearts),
	})
	samePair := mustEvaluate(t, []deck.Card{
		card(deck.Six, deck.Clubs), card(deck.Six, deck.Diamonds),
		card(deck.Ace, deck.Hearts), card(deck.Nine, deck.Spades),
		card(deck.Two, deck.Clubs),
	})

	assert.Equal(t, []int{1}, DetermineWinners([]EvaluatedHand{pair, straight, samePair}))
	assert.Equal(t, []int{0, 1}, DetermineWinners([]EvaluatedHand{pair, samePair}))
	assert.Equal(t, []int{0}, DetermineWinners([]EvaluatedHand{straight}))
	assert.Nil(t, DetermineWinners(nil))
}
