package domain

import (
	"errors"
	"fmt"
)

// Phase is the lifecycle stage of a deal. Transitions only move forward.
type Phase string

const (
	// PhaseCreated is a deal before any cards have been dealt.
	PhaseCreated Phase = "created"
	// PhaseDealt covers dealing until declarations are scored; exchanges
	// happen here.
	PhaseDealt Phase = "dealt"
	// PhaseDeclared means declarations are scored and trick play may begin.
	PhaseDeclared Phase = "declared"
	// PhasePlaying covers trick play until both hands are exhausted.
	PhasePlaying Phase = "playing"
	// PhaseCompleted is terminal; the deal score has been folded into the
	// partie totals.
	PhaseCompleted Phase = "completed"
)

var (
	// ErrPhase reports an operation invoked out of sequence.
	ErrPhase = errors.New("invalid phase")
	// ErrUnknownPlayer reports a player that is not part of the deal.
	ErrUnknownPlayer = errors.New("player not in deal")
)

const (
	// HandSize is the number of cards dealt to each player.
	HandSize = 12
	// TotalTricks is the number of tricks in a full deal.
	TotalTricks = 12

	carteBlancheBonus = 10
	repiqueBonus      = 60
	piqueBonus        = 30
	piqueThreshold    = 30
	lastTrickBonus    = 1
	capotBonus        = 40
	majorityBonus     = 10
)

// Deal drives one hand of play: dealing, exchange, declaration scoring and
// trick play, ending with the fold of both deal scores into the partie.
type Deal struct {
	partie  *Partie
	stock   *Stock
	elder   *Player
	younger *Player
	phase   Phase

	score    map[string]int
	tricks   map[string]int
	discards map[string][]Card

	repique *Player
	pique   *Player
	capot   *Player
}

func newDeal(partie *Partie, elder, younger *Player) *Deal {
	elder.resetHand()
	younger.resetHand()
	return &Deal{
		partie:  partie,
		stock:   NewStock(partie.rng),
		elder:   elder,
		younger: younger,
		phase:   PhaseCreated,
		score:   map[string]int{elder.UserID: 0, younger.UserID: 0},
		tricks:  map[string]int{elder.UserID: 0, younger.UserID: 0},
		discards: map[string][]Card{
			elder.UserID:   nil,
			younger.UserID: nil,
		},
	}
}

// Elder returns the player who leads the first trick.
func (d *Deal) Elder() *Player { return d.elder }

// Younger returns the non-leading player.
func (d *Deal) Younger() *Player { return d.younger }

// Phase returns the deal's current lifecycle stage.
func (d *Deal) Phase() Phase { return d.phase }

// Score returns the deal-local score for a player.
func (d *Deal) Score(userID string) int { return d.score[userID] }

// Tricks returns the number of tricks a player has won.
func (d *Deal) Tricks(userID string) int { return d.tricks[userID] }

// Discards returns the cards a player has exchanged away, in discard order.
func (d *Deal) Discards(userID string) []Card { return d.discards[userID] }

// StockLen returns the number of cards left in the talon.
func (d *Deal) StockLen() int { return d.stock.Len() }

// RepiqueHolder returns the repique scorer, or nil.
func (d *Deal) RepiqueHolder() *Player { return d.repique }

// PiqueHolder returns the pique scorer, or nil.
func (d *Deal) PiqueHolder() *Player { return d.pique }

// CapotHolder returns the player who took every trick, or nil.
func (d *Deal) CapotHolder() *Player { return d.capot }

// Opponent returns the other player of the deal.
func (d *Deal) Opponent(p *Player) *Player {
	if p == d.elder {
		return d.younger
	}
	return d.elder
}

func (d *Deal) phaseErr(op string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrPhase, op, d.phase)
}

func (d *Deal) member(p *Player) error {
	if p != d.elder && p != d.younger {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, p)
	}
	return nil
}

// Deal distributes twelve cards to each player in alternating draws, leaving
// eight in the stock, and awards the carte blanche bonus. The elder's hand is
// checked first and only the first qualifying hand scores, so a double
// blanche still pays out once.
func (d *Deal) Deal() error {
	if d.phase != PhaseCreated {
		return d.phaseErr("deal")
	}

	for i := 0; i < HandSize; i++ {
		for _, p := range [2]*Player{d.elder, d.younger} {
			c, err := d.stock.Draw()
			if err != nil {
				return err
			}
			p.Hand.Add(c)
		}
	}

	for _, p := range [2]*Player{d.elder, d.younger} {
		if p.Hand.CarteBlanche() {
			d.score[p.UserID] += carteBlancheBonus
			break
		}
	}

	d.phase = PhaseDealt
	return nil
}

// Exchange discards the given cards from the player's hand and draws the
// same number of replacements from the stock. The discard count is not
// capped, only bounded by the cards left in the stock. The call validates
// fully before mutating, so a rejected exchange leaves hand and stock
// untouched.
func (d *Deal) Exchange(p *Player, cards []Card) error {
	if d.phase != PhaseDealt {
		return d.phaseErr("exchange")
	}
	if err := d.member(p); err != nil {
		return err
	}
	for _, c := range cards {
		if !p.Hand.Has(c) {
			return fmt.Errorf("%w: %s", ErrCardNotHeld, c)
		}
	}
	if len(cards) > d.stock.Len() {
		return ErrStockExhausted
	}

	for _, c := range cards {
		if err := p.Hand.Remove(c); err != nil {
			return err
		}
		d.discards[p.UserID] = append(d.discards[p.UserID], c)
		drawn, err := d.stock.Draw()
		if err != nil {
			return err
		}
		p.Hand.Add(drawn)
	}
	return nil
}

// DeclarationOutcome records how one category was resolved.
type DeclarationOutcome struct {
	Category     Category
	Winner       *Player // nil when neither side qualifies
	Points       int
	Announcement string
}

// ScoreDeclarations resolves the three declaration categories, crediting
// each to the better hand, then checks repique: thirty or more from
// declarations alone against an opponent on zero scores a sixty point bonus.
// Exact declaration ties go to the elder.
func (d *Deal) ScoreDeclarations() ([]DeclarationOutcome, error) {
	if d.phase != PhaseDealt {
		return nil, d.phaseErr("score declarations")
	}

	outcomes := make([]DeclarationOutcome, 0, len(AllCategories))
	for _, cat := range AllCategories {
		elderRes := d.queryCategory(d.elder, cat)
		youngerRes := d.queryCategory(d.younger, cat)

		winning := elderRes
		if youngerRes.Compare(elderRes) > 0 {
			winning = youngerRes
		}

		outcome := DeclarationOutcome{Category: cat, Announcement: winning.AnnounceAll()}
		if winning.Score > 0 {
			outcome.Winner = winning.Player
			outcome.Points = DeclarationPoints(winning)
			d.score[winning.Player.UserID] += outcome.Points
		}
		outcomes = append(outcomes, outcome)
	}

	for _, p := range [2]*Player{d.elder, d.younger} {
		opp := d.Opponent(p)
		if d.repique == nil && d.score[p.UserID] >= piqueThreshold && d.score[opp.UserID] == 0 {
			d.repique = p
			d.score[p.UserID] += repiqueBonus
		}
	}

	d.phase = PhaseDeclared
	return outcomes, nil
}

func (d *Deal) queryCategory(p *Player, cat Category) Result {
	switch cat {
	case Point:
		return p.Point()
	case Sequences:
		return p.Sequences()
	default:
		return p.Sets()
	}
}

// Play is one card played by one player into a trick.
type Play struct {
	Player *Player
	Card   Card
}

// TrickResult describes the outcome of a resolved trick.
type TrickResult struct {
	Winner    *Player
	LastTrick bool
	Capot     bool
}

// PlayTrick resolves one trick. The leader always scores a point for
// leading; the follower wins the trick, and a point, only with a strictly
// higher card of the led suit. Pique, last trick, capot and majority bonuses
// apply as thresholds are crossed, and the final trick folds both deal
// scores into the partie totals exactly once.
func (d *Deal) PlayTrick(lead, follow Play) (TrickResult, error) {
	if d.phase != PhaseDeclared && d.phase != PhasePlaying {
		return TrickResult{}, d.phaseErr("play a trick")
	}
	if err := d.member(lead.Player); err != nil {
		return TrickResult{}, err
	}
	if err := d.member(follow.Player); err != nil {
		return TrickResult{}, err
	}
	if lead.Player == follow.Player {
		return TrickResult{}, fmt.Errorf("%w: both plays from %s", ErrUnknownPlayer, lead.Player)
	}
	if !lead.Player.Hand.Has(lead.Card) {
		return TrickResult{}, fmt.Errorf("%w: %s", ErrCardNotHeld, lead.Card)
	}
	if !follow.Player.Hand.Has(follow.Card) {
		return TrickResult{}, fmt.Errorf("%w: %s", ErrCardNotHeld, follow.Card)
	}
	d.phase = PhasePlaying

	delete(lead.Player.Hand, lead.Card)
	delete(follow.Player.Hand, follow.Card)

	d.score[lead.Player.UserID]++

	winner, loser := lead.Player, follow.Player
	if follow.Card.Suit == lead.Card.Suit && follow.Card.Rank > lead.Card.Rank {
		d.score[follow.Player.UserID]++
		winner, loser = follow.Player, lead.Player
	}
	d.tricks[winner.UserID]++

	if d.repique == nil && d.pique == nil &&
		d.score[winner.UserID] >= piqueThreshold && d.score[loser.UserID] == 0 {
		d.score[winner.UserID] += piqueBonus
		d.pique = winner
	}

	result := TrickResult{Winner: winner}
	if lead.Player.Hand.Len() == 0 {
		result.LastTrick = true
		d.score[winner.UserID] += lastTrickBonus

		if d.tricks[winner.UserID] == TotalTricks {
			d.score[winner.UserID] += capotBonus
			d.capot = winner
			result.Capot = true
		} else if d.tricks[winner.UserID] != TotalTricks/2 {
			most := d.elder
			if d.tricks[d.younger.UserID] > d.tricks[d.elder.UserID] {
				most = d.younger
			}
			d.score[most.UserID] += majorityBonus
		}

		for _, p := range [2]*Player{d.elder, d.younger} {
			d.partie.score[p.UserID] += d.score[p.UserID]
		}
		d.phase = PhaseCompleted
	}

	return result, nil
}
