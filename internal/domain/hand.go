package domain

import (
	"errors"
	"fmt"
	"sort"
)

// ErrCardNotHeld is returned when a discard or play references a card that is
// not in the acting player's hand.
var ErrCardNotHeld = errors.New("card not in hand")

// Hand is the set of cards a player currently holds, keyed by card identity.
type Hand map[Card]struct{}

// NewHand returns an empty hand.
func NewHand() Hand {
	return make(Hand, 12)
}

// Add puts a card into the hand.
func (h Hand) Add(c Card) {
	h[c] = struct{}{}
}

// Has reports whether the hand holds the card.
func (h Hand) Has(c Card) bool {
	_, ok := h[c]
	return ok
}

// Remove takes a card out of the hand, failing if it is not held.
func (h Hand) Remove(c Card) error {
	if !h.Has(c) {
		return fmt.Errorf("%w: %s", ErrCardNotHeld, c)
	}
	delete(h, c)
	return nil
}

// Len returns the number of cards held.
func (h Hand) Len() int {
	return len(h)
}

// Cards returns the hand's cards sorted by suit then rank, for stable
// display and iteration.
func (h Hand) Cards() []Card {
	cards := make([]Card, 0, len(h))
	for c := range h {
		cards = append(cards, c)
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Suit != cards[j].Suit {
			return cards[i].Suit < cards[j].Suit
		}
		return cards[i].Rank < cards[j].Rank
	})
	return cards
}

// Suits partitions the hand into the four suit groups, each sorted by
// ascending rank, and returns the groups ordered by ascending size. The
// largest group is always the last element.
func (h Hand) Suits() [][]Card {
	groups := make([][]Card, 0, 4)
	for _, s := range AllSuits {
		var group []Card
		for c := range h {
			if c.Suit == s {
				group = append(group, c)
			}
		}
		sort.Slice(group, func(i, j int) bool { return group[i].Rank < group[j].Rank })
		groups = append(groups, group)
	}
	sort.SliceStable(groups, func(i, j int) bool { return len(groups[i]) < len(groups[j]) })
	return groups
}

// CarteBlanche reports whether the hand holds no court cards.
func (h Hand) CarteBlanche() bool {
	for c := range h {
		if c.Rank.IsCourt() {
			return false
		}
	}
	return true
}

// Player is one of the two participants in a partie. The hand belongs to the
// player for the lifetime of a single deal and is reset when a new deal
// starts.
type Player struct {
	UserID string
	Hand   Hand
}

// NewPlayer constructs a player with an empty hand.
func NewPlayer(userID string) *Player {
	return &Player{UserID: userID, Hand: NewHand()}
}

func (p *Player) String() string {
	return p.UserID
}

// resetHand drops all held cards at the start of a deal.
func (p *Player) resetHand() {
	p.Hand = NewHand()
}

// Point evaluates the point declaration: the longest single-suit holding of
// four or more cards. Length is the only primary criterion; the pip sum
// breaks ties between suits of equal maximum length within the hand and
// between the players when both declare the same length.
func (p *Player) Point() Result {
	suits := p.Hand.Suits()
	maxLen := len(suits[len(suits)-1])
	if maxLen < 4 {
		return Result{Category: Point, Player: p}
	}

	best := -1
	for _, suit := range suits {
		if len(suit) != maxLen {
			continue
		}
		pips := 0
		for _, c := range suit {
			pips += c.Rank.Pips()
		}
		if pips > best {
			best = pips
		}
	}
	return Result{Category: Point, Player: p, Score: maxLen, Pips: best}
}

// Sequences evaluates the sequence declarations: the single longest run of
// consecutive ranks within each suit, keeping runs of three or more. Runs are
// ordered best first, longer runs before shorter and higher-topped runs
// before lower at equal length.
func (p *Player) Sequences() Result {
	var runs [][]Card
	for _, suit := range p.Hand.Suits() {
		var longest []Card
		i := 0
		for i < len(suit) {
			run := []Card{suit[i]}
			j := i + 1
			for j < len(suit) && suit[j].RankDistance(suit[j-1]) == 1 {
				run = append(run, suit[j])
				j++
			}
			if len(run) > len(longest) {
				longest = run
			}
			i = j
		}
		if len(longest) >= 3 {
			runs = append(runs, longest)
		}
	}

	sortGroups(runs)
	score := 0
	if len(runs) > 0 {
		score = len(runs[0])
	}
	return Result{Category: Sequences, Player: p, Score: score, Groups: runs}
}

// setRanks are the only ranks eligible for set declarations.
var setRanks = [5]Rank{Ace, King, Queen, Jack, Ten}

// Sets evaluates the set declarations: three or four cards of the same rank,
// Ten through Ace only. Groups are ordered best first, larger sets before
// smaller and higher ranks before lower at equal size.
func (p *Player) Sets() Result {
	var groups [][]Card
	for _, r := range setRanks {
		var group []Card
		for c := range p.Hand {
			if c.Rank == r {
				group = append(group, c)
			}
		}
		if len(group) >= 3 {
			sort.Slice(group, func(i, j int) bool { return group[i].Suit < group[j].Suit })
			groups = append(groups, group)
		}
	}

	sortGroups(groups)
	score := 0
	if len(groups) > 0 {
		score = len(groups[0])
	}
	return Result{Category: Sets, Player: p, Score: score, Groups: groups}
}

// sortGroups orders card groups by descending length, then by descending
// rank. Within a group the cards are already rank-sorted, and within one
// suit equal-length runs share their top rank with their bottom rank offset,
// so comparing the first card is equivalent to comparing the top card.
func sortGroups(groups [][]Card) {
	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i]) != len(groups[j]) {
			return len(groups[i]) > len(groups[j])
		}
		return groups[i][0].Rank > groups[j][0].Rank
	})
}
