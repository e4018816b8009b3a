package domain

import (
	"fmt"
	"strings"
)

// Category identifies one of the three declaration combinations. Each deal
// awards every category to exactly one side.
type Category int

const (
	Point Category = iota
	Sequences
	Sets
)

// AllCategories lists the categories in scoring order.
var AllCategories = [3]Category{Point, Sequences, Sets}

func (c Category) String() string {
	switch c {
	case Point:
		return "point"
	case Sequences:
		return "sequences"
	case Sets:
		return "sets"
	default:
		return "unknown"
	}
}

// Result is the outcome of a combination query on one player's hand.
// Score is the primary comparison key: the length of the winning suit for
// point, the length of the best group otherwise. Pips carries the pip sum
// for point; Groups carries the qualifying groups best-first for sequences
// and sets.
type Result struct {
	Category Category
	Player   *Player
	Score    int
	Pips     int
	Groups   [][]Card
}

// Compare orders two results of the same category across players. It returns
// a negative value when r is worse than other, zero when equal, positive
// when better. Score decides first; the category value breaks ties, with
// group lists compared element-wise in their best-first order.
func (r Result) Compare(other Result) int {
	if r.Score != other.Score {
		return r.Score - other.Score
	}
	if r.Category == Point {
		return r.Pips - other.Pips
	}
	return compareGroupLists(r.Groups, other.Groups)
}

func compareGroupLists(a, b [][]Card) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareGroup(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

// compareGroup compares two card groups lexicographically by rank.
func compareGroup(a, b []Card) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i].Rank != b[i].Rank {
			return int(a[i].Rank) - int(b[i].Rank)
		}
	}
	return len(a) - len(b)
}

// declarationValues maps a category and combination length to the points it
// scores. Point scores its own length, a quint and better jumps to fifteen
// and up, a quatorze outranks everything a trio could ever make.
var declarationValues = map[Category]map[int]int{
	Point: {
		4: 4, 5: 5, 6: 6, 7: 7, 8: 8,
	},
	Sequences: {
		3: 3, 4: 4, 5: 15, 6: 16, 7: 17, 8: 18,
	},
	Sets: {
		3: 3, 4: 14,
	},
}

// DeclarationPoints returns the total points the winning result credits: the
// table value of the point length, or the summed table values over every
// qualifying group for sequences and sets.
func DeclarationPoints(r Result) int {
	if r.Score == 0 {
		return 0
	}
	if r.Category == Point {
		return declarationValues[Point][r.Score]
	}
	total := 0
	for _, group := range r.Groups {
		total += declarationValues[r.Category][len(group)]
	}
	return total
}

var sequenceNames = map[int]string{
	3: "tierce",
	4: "quarte",
	5: "quinte",
	6: "sixième",
	7: "septième",
	8: "huitième",
}

var setNames = map[int]string{
	3: "trio",
	4: "quatorze",
}

// Announce renders the traditional spoken form of the best combination, e.g.
// "Point of 5 making 42", "Quinte to the King" or "Quatorze of Aces".
func (r Result) Announce() string {
	return r.announce(false)
}

// AnnounceAll renders every qualifying combination, so a hand holding two
// tierces declares "Tierce major, Tierce to the Ten".
func (r Result) AnnounceAll() string {
	return r.announce(true)
}

func (r Result) announce(all bool) string {
	if r.Score == 0 {
		return "Nothing"
	}
	if r.Category == Point {
		return fmt.Sprintf("Point of %d making %d", r.Score, r.Pips)
	}

	groups := r.Groups
	if !all {
		groups = groups[:1]
	}
	names := make([]string, 0, len(groups))
	for _, group := range groups {
		names = append(names, announceGroup(r.Category, group))
	}
	return strings.Join(names, ", ")
}

func announceGroup(cat Category, group []Card) string {
	if cat == Sets {
		return fmt.Sprintf("%s of %ss", title(setNames[len(group)]), group[0].Rank.Name())
	}

	name := title(sequenceNames[len(group)])
	top := group[len(group)-1]
	switch {
	case top.Rank == Ace:
		return name + " major"
	case group[0].Rank == Seven:
		return name + " minor"
	default:
		return fmt.Sprintf("%s to the %s", name, top.Rank.Name())
	}
}

// title upper-cases the leading letter of a combination name.
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
