package bot

import (
	"sort"

	"piquet/internal/domain"
)

// maxBasicDiscards keeps the naive bot from gutting its hand; five matches
// the elder's customary share of the talon.
const maxBasicDiscards = 5

// BasicBot plays the obvious card: it discards its lowest ranks, leads its
// highest card and wins tricks whenever it can.
type BasicBot struct{}

func (b *BasicBot) ChooseDiscards(v View) []domain.Card {
	n := maxBasicDiscards
	if v.StockLen < n {
		n = v.StockLen
	}
	if n <= 0 {
		return nil
	}

	cards := sortedByRank(v.Hand)
	return cards[:n]
}

func (b *BasicBot) ChooseLead(v View) domain.Card {
	cards := sortedByRank(v.Hand)
	return cards[len(cards)-1]
}

func (b *BasicBot) ChooseFollow(v View) domain.Card {
	if c, ok := cheapestWinner(v.Hand, *v.Lead); ok {
		return c
	}
	return sortedByRank(v.Hand)[0]
}

func (b *BasicBot) OnEvent(event interface{}) {}

// sortedByRank returns a copy of the cards ordered by rank, suit breaking
// ties.
func sortedByRank(hand []domain.Card) []domain.Card {
	cards := make([]domain.Card, len(hand))
	copy(cards, hand)
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Rank != cards[j].Rank {
			return cards[i].Rank < cards[j].Rank
		}
		return cards[i].Suit < cards[j].Suit
	})
	return cards
}

// cheapestWinner finds the lowest held card that would take a trick led
// with the given card.
func cheapestWinner(hand []domain.Card, lead domain.Card) (domain.Card, bool) {
	best := domain.Card{}
	found := false
	for _, c := range hand {
		if c.Suit != lead.Suit || c.Rank <= lead.Rank {
			continue
		}
		if !found || c.Rank < best.Rank {
			best = c
			found = true
		}
	}
	return best, found
}
