package domain

import (
	"errors"
	"math/rand"
)

// ErrStockExhausted is returned when drawing from an empty stock. Under
// correct sequencing (12+12 dealt, exchanges bounded by the cards left) it
// never fires, but a bad driver must get an error rather than a panic.
var ErrStockExhausted = errors.New("stock exhausted")

// Stock is the shuffled talon a deal draws from. It shrinks monotonically
// and is never replenished.
type Stock struct {
	cards []Card
}

// NewStock shuffles the full 32-card deck with the provided rng. The rng is
// injected so tests and replays can use a fixed seed.
func NewStock(rng *rand.Rand) *Stock {
	cards := AllCards()
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	return &Stock{cards: cards}
}

// Draw removes and returns the top card.
func (s *Stock) Draw() (Card, error) {
	if len(s.cards) == 0 {
		return Card{}, ErrStockExhausted
	}
	top := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return top, nil
}

// Len returns the number of cards remaining.
func (s *Stock) Len() int {
	return len(s.cards)
}
