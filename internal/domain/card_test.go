package domain

import (
	"encoding/json"
	"testing"
)

func TestPips(t *testing.T) {
	tests := []struct {
		rank Rank
		want int
	}{
		{Seven, 7},
		{Eight, 8},
		{Nine, 9},
		{Ten, 10},
		{Jack, 10},
		{Queen, 10},
		{King, 10},
		{Ace, 11},
	}
	for _, tt := range tests {
		t.Run(tt.rank.Name(), func(t *testing.T) {
			if got := tt.rank.Pips(); got != tt.want {
				t.Errorf("Pips(%s) = %d, want %d", tt.rank, got, tt.want)
			}
		})
	}
}

func TestAllCards(t *testing.T) {
	deck := AllCards()
	if len(deck) != 32 {
		t.Fatalf("deck size = %d, want 32", len(deck))
	}
	seen := make(map[Card]bool, 32)
	for _, c := range deck {
		if seen[c] {
			t.Errorf("duplicate card %s", c)
		}
		seen[c] = true
	}
}

func TestCardOrdering(t *testing.T) {
	low := Card{Rank: Nine, Suit: Hearts}
	high := Card{Rank: Ten, Suit: Clubs}

	if !low.Less(high) {
		t.Errorf("expected %s < %s", low, high)
	}
	if high.Less(low) {
		t.Errorf("expected %s not < %s", high, low)
	}
	// Ordering is suit-blind.
	sameRank := Card{Rank: Nine, Suit: Spades}
	if low.Less(sameRank) || sameRank.Less(low) {
		t.Errorf("equal ranks must not order: %s vs %s", low, sameRank)
	}
	if d := high.RankDistance(low); d != 1 {
		t.Errorf("RankDistance = %d, want 1", d)
	}
}

func TestCardCodeRoundTrip(t *testing.T) {
	for _, c := range AllCards() {
		parsed, err := ParseCard(c.Code())
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", c.Code(), err)
		}
		if parsed != c {
			t.Errorf("round trip %q = %s, want %s", c.Code(), parsed, c)
		}
	}
}

func TestParseCardRejectsGarbage(t *testing.T) {
	for _, code := range []string{"", "A", "AX", "1H", "100S"} {
		if _, err := ParseCard(code); err == nil {
			t.Errorf("ParseCard(%q) accepted", code)
		}
	}
}

func TestCardJSON(t *testing.T) {
	c := Card{Rank: Ten, Suit: Hearts}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"10H"` {
		t.Errorf("marshal = %s, want \"10H\"", data)
	}

	var back Card
	if err := json.Unmarshal([]byte(`"as"`), &back); err != nil {
		t.Fatalf("unmarshal lowercase: %v", err)
	}
	if back != (Card{Rank: Ace, Suit: Spades}) {
		t.Errorf("unmarshal = %s, want the spade ace", back)
	}
}
