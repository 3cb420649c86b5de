package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

// Size is the number of cards in a full deck
const Size = 52

// ErrInsufficientCards is returned when a draw or evaluation is asked for
// more cards than are available. Within a hand this indicates a dealing bug
// upstream, not a recoverable runtime condition.
var ErrInsufficientCards = errors.New("insufficient cards")

// Deck is an ordered sequence of cards consumed front-to-back by Draw
type Deck []Card

// New returns the 52 canonical cards, complete and duplicate-free
func New() Deck {
	cards := make(Deck, 0, Size)
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}

// Shuffle returns a uniformly random permutation of the deck using
// Fisher-Yates over the provided RNG. The input deck is not modified.
func Shuffle(cards Deck, rng *rand.Rand) Deck {
	shuffled := make(Deck, len(cards))
	copy(shuffled, cards)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// NewShuffled returns a freshly shuffled 52-card deck
func NewShuffled(rng *rand.Rand) Deck {
	return Shuffle(New(), rng)
}

// Draw removes and returns the first n cards, returning the drawn cards and
// the remaining deck. Fails with ErrInsufficientCards if n exceeds the
// remaining length.
func Draw(cards Deck, n int) (drawn Deck, rest Deck, err error) {
	if n < 0 || n > len(cards) {
		return nil, cards, fmt.Errorf("draw %d of %d: %w", n, len(cards), ErrInsufficientCards)
	}
	drawn = make(Deck, n)
	copy(drawn, cards[:n])
	rest = make(Deck, len(cards)-n)
	copy(rest, cards[n:])
	return drawn, rest, nil
}

const goldenRatio64 = 0x9e3779b97f4a7c15

// NewRNG returns a *rand.Rand seeded deterministically from the provided
// seed, deriving the two 64-bit PCG seeds with a splitmix-style mixer so all
// call sites get reproducible shuffle sequences.
func NewRNG(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
