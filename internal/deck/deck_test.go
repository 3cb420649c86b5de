package deck

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewDeckComplete(t *testing.T) {
	cards := New()
	if len(cards) != Size {
		t.Fatalf("expected %d cards, got %d", Size, len(cards))
	}

	seen := make(map[Card]bool)
	for _, c := range cards {
		if seen[c] {
			t.Errorf("duplicate card %s", c)
		}
		seen[c] = true
	}
}

func TestShuffleKeepsAllCards(t *testing.T) {
	for _, seed := range []int64{0, 1, 42, -7, 1<<40 + 3} {
		rng := NewRNG(seed)
		shuffled := Shuffle(New(), rng)
		if len(shuffled) != Size {
			t.Fatalf("seed %d: expected %d cards, got %d", seed, Size, len(shuffled))
		}
		seen := make(map[Card]bool)
		for _, c := range shuffled {
			seen[c] = true
		}
		if len(seen) != Size {
			t.Errorf("seed %d: expected 52 distinct cards, got %d", seed, len(seen))
		}
	}
}

func TestShuffleDeterministicBySeed(t *testing.T) {
	a := Shuffle(New(), NewRNG(99))
	b := Shuffle(New(), NewRNG(99))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different order at %d: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	original := New()
	before := make(Deck, len(original))
	copy(before, original)

	Shuffle(original, NewRNG(5))

	for i := range original {
		if original[i] != before[i] {
			t.Fatalf("input deck mutated at index %d", i)
		}
	}
}

func TestDraw(t *testing.T) {
	cards := New()
	drawn, rest, err := Draw(cards, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drawn) != 2 || len(rest) != 50 {
		t.Fatalf("expected 2 drawn / 50 rest, got %d / %d", len(drawn), len(rest))
	}
	if drawn[0] != cards[0] || drawn[1] != cards[1] {
		t.Error("draw should consume from the front")
	}
}

func TestDrawInsufficient(t *testing.T) {
	cards := Deck{NewCard(Spades, Ace)}
	_, _, err := Draw(cards, 2)
	if !errors.Is(err, ErrInsufficientCards) {
		t.Fatalf("expected ErrInsufficientCards, got %v", err)
	}
}

func TestDrawAllFiftyTwo(t *testing.T) {
	rng := NewRNG(123)
	cards := NewShuffled(rng)
	seen := make(map[Card]bool)
	for len(cards) > 0 {
		var drawn Deck
		var err error
		drawn, cards, err = Draw(cards, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen[drawn[0]] = true
	}
	if len(seen) != Size {
		t.Fatalf("expected 52 distinct cards drawn, got %d", len(seen))
	}
}

func TestCardString(t *testing.T) {
	tests := []struct {
		card Card
		want string
	}{
		{NewCard(Spades, Ace), "A♠"},
		{NewCard(Hearts, Ten), "10♥"},
		{NewCard(Diamonds, Two), "2♦"},
		{NewCard(Clubs, Queen), "Q♣"},
	}
	for _, tt := range tests {
		if got := tt.card.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestCardJSONRoundTrip(t *testing.T) {
	card := NewCard(Hearts, Ace)
	data, err := json.Marshal(card)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"suit":"hearts","rank":"A"}` {
		t.Errorf("unexpected wire form %s", data)
	}

	var back Card
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != card {
		t.Errorf("round trip changed card: %s -> %s", card, back)
	}
}

func TestRankValues(t *testing.T) {
	if Two.Value() != 2 || Ace.Value() != 14 {
		t.Error("rank values must span 2..14")
	}
	if Compare(NewCard(Spades, King), NewCard(Hearts, Queen)) <= 0 {
		t.Error("king should outrank queen")
	}
	if Compare(NewCard(Spades, Nine), NewCard(Hearts, Nine)) != 0 {
		t.Error("suit must carry no ordering value")
	}
}
