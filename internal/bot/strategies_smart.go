package bot

import (
	"sort"

	"piquet/internal/bot/internal"
	"piquet/internal/domain"
)

// SmartBot shapes its hand for the declarations: the exchange keeps long
// suits and set material, leads come from the longest suit, and tricks are
// won with the cheapest card that takes them.
type SmartBot struct{}

func (b *SmartBot) ChooseDiscards(v View) []domain.Card {
	return internal.DiscardCandidates(v.Hand, v.StockLen)
}

func (b *SmartBot) ChooseLead(v View) domain.Card {
	suits := suitGroups(v.Hand)

	// Lead the top of the longest suit; ties go to the stronger top card.
	best := suits[0]
	for _, g := range suits[1:] {
		if len(g) > len(best) || (len(g) == len(best) && g[len(g)-1].Rank > best[len(best)-1].Rank) {
			best = g
		}
	}
	return best[len(best)-1]
}

func (b *SmartBot) ChooseFollow(v View) domain.Card {
	if c, ok := cheapestWinner(v.Hand, *v.Lead); ok {
		return c
	}
	// Can't win: throw the card the hand misses least.
	worst := v.Hand[0]
	worstVal := internal.CardValue(v.Hand, worst)
	for _, c := range v.Hand[1:] {
		if val := internal.CardValue(v.Hand, c); val < worstVal {
			worst, worstVal = c, val
		}
	}
	return worst
}

func (b *SmartBot) OnEvent(event interface{}) {}

// suitGroups splits a hand into its non-empty suits, each rank ascending.
func suitGroups(hand []domain.Card) [][]domain.Card {
	bySuit := make(map[domain.Suit][]domain.Card, len(domain.AllSuits))
	for _, c := range hand {
		bySuit[c.Suit] = append(bySuit[c.Suit], c)
	}

	groups := make([][]domain.Card, 0, len(bySuit))
	for _, s := range domain.AllSuits {
		if g := bySuit[s]; len(g) > 0 {
			sort.Slice(g, func(i, j int) bool { return g[i].Rank < g[j].Rank })
			groups = append(groups, g)
		}
	}
	return groups
}
