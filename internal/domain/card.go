package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Rank is a card rank in the 32-card piquet deck. The ordinal value is used
// directly for comparisons, so Seven..Ace map to 7..14.
type Rank int

const (
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

// Pips returns the counting value of the rank for point declarations.
// Court cards and the Ten count ten, the Ace eleven, numeric cards themselves.
func (r Rank) Pips() int {
	switch r {
	case Jack, Queen, King:
		return 10
	case Ace:
		return 11
	default:
		return int(r)
	}
}

// IsCourt reports whether the rank is a face card.
func (r Rank) IsCourt() bool {
	return r == Jack || r == Queen || r == King
}

func (r Rank) String() string {
	switch r {
	case Seven:
		return "7"
	case Eight:
		return "8"
	case Nine:
		return "9"
	case Ten:
		return "10"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return "?"
	}
}

// Name returns the spelled-out rank name used in declaration announcements.
func (r Rank) Name() string {
	switch r {
	case Seven:
		return "Seven"
	case Eight:
		return "Eight"
	case Nine:
		return "Nine"
	case Ten:
		return "Ten"
	case Jack:
		return "Jack"
	case Queen:
		return "Queen"
	case King:
		return "King"
	case Ace:
		return "Ace"
	default:
		return "?"
	}
}

// Suit is one of the four card suits.
type Suit int

const (
	Diamonds Suit = iota
	Hearts
	Spades
	Clubs
)

// AllSuits lists the suits in canonical order.
var AllSuits = [4]Suit{Diamonds, Hearts, Spades, Clubs}

func (s Suit) String() string {
	switch s {
	case Diamonds:
		return "♢"
	case Hearts:
		return "♡"
	case Spades:
		return "♤"
	case Clubs:
		return "♧"
	default:
		return "?"
	}
}

// Letter returns the single-letter suit code used on the wire.
func (s Suit) Letter() string {
	switch s {
	case Diamonds:
		return "D"
	case Hearts:
		return "H"
	case Spades:
		return "S"
	case Clubs:
		return "C"
	default:
		return "?"
	}
}

// Card is an immutable (rank, suit) pair. The struct is comparable and is
// used directly as a hand key, so no synthetic card hash is needed.
type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Less orders cards by rank only. Suit is irrelevant for every comparison in
// the rules, including within-suit sequence detection.
func (c Card) Less(other Card) bool {
	return c.Rank < other.Rank
}

// RankDistance returns the signed rank difference; adjacent ranks in a
// sequence have distance one.
func (c Card) RankDistance(other Card) int {
	return int(c.Rank) - int(other.Rank)
}

// Code returns the compact wire form of the card, rank then suit letter,
// e.g. "AS" or "10H".
func (c Card) Code() string {
	return c.Rank.String() + c.Suit.Letter()
}

// ParseCard parses the compact wire form produced by Code.
func ParseCard(code string) (Card, error) {
	if len(code) < 2 {
		return Card{}, fmt.Errorf("invalid card code %q", code)
	}

	var suit Suit
	switch code[len(code)-1] {
	case 'D':
		suit = Diamonds
	case 'H':
		suit = Hearts
	case 'S':
		suit = Spades
	case 'C':
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit in card code %q", code)
	}

	for _, r := range AllRanks {
		if r.String() == code[:len(code)-1] {
			return Card{Rank: r, Suit: suit}, nil
		}
	}
	return Card{}, fmt.Errorf("invalid rank in card code %q", code)
}

// MarshalJSON encodes the card as its compact code.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Code())
}

// UnmarshalJSON decodes the compact code form, tolerating lowercase input.
func (c *Card) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return err
	}
	parsed, err := ParseCard(strings.ToUpper(code))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// AllRanks lists the eight ranks in ascending order.
var AllRanks = [8]Rank{Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// AllCards returns the canonical 32-card deck in suit-then-rank order.
func AllCards() []Card {
	deck := make([]Card, 0, 32)
	for _, s := range AllSuits {
		for _, r := range AllRanks {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}
