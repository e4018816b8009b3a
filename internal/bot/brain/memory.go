package brain

import (
	"piquet/internal/domain"
)

// CardStatus represents what the bot knows about a specific card.
type CardStatus int

const (
	StatusUnknown CardStatus = iota // opponent's hand or the hidden talon
	StatusMine                      // in the bot's hand
	StatusPlayed                    // seen on the table
)

// CardMemory stores the bot's private view of the thirty-two card deck.
// Anything not in its own hand and not yet played could sit with the
// opponent or in the talon, so those stay Unknown.
type CardMemory struct {
	status [32]CardStatus
	voids  [4]bool
}

// NewMemory initializes a fresh memory state.
func NewMemory() *CardMemory {
	return &CardMemory{}
}

// Reset clears the memory for a new deal.
func (m *CardMemory) Reset() {
	for i := range m.status {
		m.status[i] = StatusUnknown
	}
	for i := range m.voids {
		m.voids[i] = false
	}
}

// UpdateHand synchronizes the memory with the bot's current hand: former
// Mine cards revert to Unknown before the new hand is marked. Discarded
// cards go back into the unknown pool since the opponent may draw nothing
// that reveals them.
func (m *CardMemory) UpdateHand(hand []domain.Card) {
	for i, s := range m.status {
		if s == StatusMine {
			m.status[i] = StatusUnknown
		}
	}
	for _, c := range hand {
		m.status[cardToIndex(c)] = StatusMine
	}
}

// MarkPlayed records cards seen on the table.
func (m *CardMemory) MarkPlayed(cards ...domain.Card) {
	for _, c := range cards {
		m.status[cardToIndex(c)] = StatusPlayed
	}
}

// RecordFollow notes the opponent's answer to a led card. Answering off
// suit means the opponent holds no card of the led suit.
func (m *CardMemory) RecordFollow(lead, follow domain.Card) {
	m.MarkPlayed(lead, follow)
	if follow.Suit != lead.Suit {
		m.voids[lead.Suit] = true
	}
}

// OpponentVoid reports whether the opponent has shown they cannot follow
// the given suit.
func (m *CardMemory) OpponentVoid(s domain.Suit) bool {
	return m.voids[s]
}

// IsBoss reports whether no higher card of the same suit can still beat
// this one. A boss lead can only lose to nothing.
func (m *CardMemory) IsBoss(c domain.Card) bool {
	for r := c.Rank + 1; r <= domain.Ace; r++ {
		if m.status[cardToIndex(domain.Card{Rank: r, Suit: c.Suit})] == StatusUnknown {
			return false
		}
	}
	return true
}

// UnseenAbove counts cards of the suit, above the given rank, that could
// still sit with the opponent or in the talon.
func (m *CardMemory) UnseenAbove(c domain.Card) int {
	n := 0
	for r := c.Rank + 1; r <= domain.Ace; r++ {
		if m.status[cardToIndex(domain.Card{Rank: r, Suit: c.Suit})] == StatusUnknown {
			n++
		}
	}
	return n
}

// cardToIndex converts a card to a 0-31 index, eight ranks per suit.
func cardToIndex(c domain.Card) int {
	return int(c.Suit)*8 + int(c.Rank-domain.Seven)
}
