package internal

import (
	"sort"

	"piquet/internal/domain"
)

const (
	suitWeight = 1.5
	setWeight  = 2.0
	rankWeight = 0.25

	// keepThreshold is the value above which a card is worth keeping even
	// when the stock would allow another discard. Roughly a low card in a
	// four-card suit.
	keepThreshold = 6.0
)

// CardValue rates how much a single card contributes to the hand it sits
// in. Cards in long suits feed the point and sequences, repeated high ranks
// feed the sets, and raw rank wins tricks.
func CardValue(hand []domain.Card, c domain.Card) float64 {
	suitLen := 0
	rankCount := 0
	for _, o := range hand {
		if o.Suit == c.Suit {
			suitLen++
		}
		if o.Rank == c.Rank {
			rankCount++
		}
	}

	v := float64(suitLen) * suitWeight
	if c.Rank >= domain.Ten && rankCount >= 2 {
		v += float64(rankCount) * setWeight
	}
	v += float64(c.Rank) * rankWeight
	return v
}

// DiscardCandidates returns up to max cards the hand is best rid of, least
// valuable first. Cards above the keep threshold are never offered, so the
// result may be shorter than max.
func DiscardCandidates(hand []domain.Card, max int) []domain.Card {
	if max <= 0 {
		return nil
	}

	sorted := make([]domain.Card, len(hand))
	copy(sorted, hand)
	sort.Slice(sorted, func(i, j int) bool {
		vi, vj := CardValue(hand, sorted[i]), CardValue(hand, sorted[j])
		if vi != vj {
			return vi < vj
		}
		return sorted[i].Rank < sorted[j].Rank
	})

	out := make([]domain.Card, 0, max)
	for _, c := range sorted {
		if len(out) == max {
			break
		}
		if CardValue(hand, c) >= keepThreshold {
			break
		}
		out = append(out, c)
	}
	return out
}

// DeclarationScore estimates the declaration points a hand would collect
// unopposed, for comparing exchange outcomes.
func DeclarationScore(cards []domain.Card) int {
	p := domain.NewPlayer("eval")
	for _, c := range cards {
		p.Hand.Add(c)
	}

	total := 0
	for _, r := range []domain.Result{p.Point(), p.Sequences(), p.Sets()} {
		if r.Score > 0 {
			total += domain.DeclarationPoints(r)
		}
	}
	return total
}
