package domain

import (
	"math/rand"
	"time"
)

// Partie is a match of alternating deals between two fixed players. The
// dealer role is drawn once at construction and never changes; the elder
// role flips every deal, with the non-dealer leading the first.
type Partie struct {
	rng       *rand.Rand
	players   [2]*Player
	dealer    *Player
	nonDealer *Player
	deals     []*Deal
	score     map[string]int

	winner     *Player
	finalScore int
}

// NewPartie constructs a partie between the two players, drawing the dealer
// with the provided rng. A nil rng falls back to a time-seeded source.
func NewPartie(p1, p2 *Player, rng *rand.Rand) *Partie {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	p := &Partie{
		rng:     rng,
		players: [2]*Player{p1, p2},
		score:   map[string]int{p1.UserID: 0, p2.UserID: 0},
	}
	if rng.Intn(2) == 0 {
		p.dealer, p.nonDealer = p1, p2
	} else {
		p.dealer, p.nonDealer = p2, p1
	}
	return p
}

// Players returns both participants.
func (p *Partie) Players() [2]*Player { return p.players }

// Dealer returns the fixed dealer for the match.
func (p *Partie) Dealer() *Player { return p.dealer }

// NonDealer returns the fixed non-dealer for the match.
func (p *Partie) NonDealer() *Player { return p.nonDealer }

// DealCount returns how many deals have been started.
func (p *Partie) DealCount() int { return len(p.deals) }

// Score returns a player's cumulative score across completed deals.
func (p *Partie) Score(userID string) int { return p.score[userID] }

// NewDeal creates the next deal with elder and younger roles alternating:
// the non-dealer is elder on even deal indexes, the dealer on odd ones.
// The caller drives the returned deal through dealing, exchange,
// declarations and trick play.
func (p *Partie) NewDeal() *Deal {
	var d *Deal
	if len(p.deals)%2 == 0 {
		d = newDeal(p, p.nonDealer, p.dealer)
	} else {
		d = newDeal(p, p.dealer, p.nonDealer)
	}
	p.deals = append(p.deals, d)
	return d
}

// GetFinalScore closes the match and returns the winner with the normalized
// match score: one hundred plus the score difference, or, when the loser
// failed to reach one hundred (the rubicon), one hundred plus the score sum.
// Ties go to the non-dealer, who led the first deal.
func (p *Partie) GetFinalScore() (*Player, int) {
	winner, loser := p.nonDealer, p.dealer
	if p.score[loser.UserID] > p.score[winner.UserID] {
		winner, loser = loser, winner
	}

	if p.score[loser.UserID] >= 100 {
		p.finalScore = 100 + (p.score[winner.UserID] - p.score[loser.UserID])
	} else {
		p.finalScore = 100 + (p.score[winner.UserID] + p.score[loser.UserID])
	}
	p.winner = winner
	return winner, p.finalScore
}

// Winner returns the match winner after GetFinalScore has been called.
func (p *Partie) Winner() *Player { return p.winner }

// FinalScore returns the normalized score after GetFinalScore has been
// called.
func (p *Partie) FinalScore() int { return p.finalScore }
