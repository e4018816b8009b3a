package app

import (
	"errors"
	"math/rand"
	"time"

	"piquet/internal/domain"
)

var (
	ErrTooFewPlayers    = errors.New("a partie needs two players")
	ErrUnknownPlayer    = errors.New("player not found")
	ErrNotExchanging    = errors.New("deal is not in the exchange stage")
	ErrAlreadyExchanged = errors.New("player already exchanged this deal")
	ErrNotPlaying       = errors.New("deal is not in trick play")
	ErrNotYourTurn      = errors.New("not this player's turn")
	ErrPartieOver       = errors.New("partie already finished")
)

// Service contains the piquet use-cases operating on domain state.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// Table is the authoritative session state for one partie in progress. The
// match handler owns it and feeds player actions through the Service.
type Table struct {
	Partie         *domain.Partie
	Deal           *domain.Deal
	DealIndex      int
	DealsPerPartie int
	ChipsPerPoint  int64

	// Leader is the player expected to lead the current trick; PendingLead
	// holds the led card while the follower decides.
	Leader      *domain.Player
	PendingLead *domain.Play

	exchanged map[string]bool
	Finished  bool
}

// Player resolves a table participant by user id.
func (t *Table) Player(userID string) (*domain.Player, error) {
	for _, p := range t.Partie.Players() {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, ErrUnknownPlayer
}

// CurrentActor returns the user id expected to act next, for bot driving
// and turn timers.
func (t *Table) CurrentActor() string {
	if t.Finished || t.Deal == nil {
		return ""
	}
	switch t.Deal.Phase() {
	case domain.PhaseDealt:
		if !t.exchanged[t.Deal.Elder().UserID] {
			return t.Deal.Elder().UserID
		}
		return t.Deal.Younger().UserID
	case domain.PhaseDeclared, domain.PhasePlaying:
		if t.PendingLead != nil {
			return t.Deal.Opponent(t.Leader).UserID
		}
		return t.Leader.UserID
	default:
		return ""
	}
}

// StartPartie creates a partie between the two user ids, deals the first
// hand and emits the opening events. Hands are delivered privately.
func (s *Service) StartPartie(userIDs [2]string, dealsPerPartie int, chipsPerPoint int64) (*Table, []Event, error) {
	if userIDs[0] == "" || userIDs[1] == "" || userIDs[0] == userIDs[1] {
		return nil, nil, ErrTooFewPlayers
	}
	if dealsPerPartie <= 0 {
		dealsPerPartie = DefaultDealsPerPartie
	}

	p1 := domain.NewPlayer(userIDs[0])
	p2 := domain.NewPlayer(userIDs[1])
	partie := domain.NewPartie(p1, p2, s.rng)

	t := &Table{
		Partie:         partie,
		DealsPerPartie: dealsPerPartie,
		ChipsPerPoint:  chipsPerPoint,
	}

	events := []Event{{
		Kind: EventPartieStarted,
		Payload: PartieStartedPayload{
			DealerUserID:    partie.Dealer().UserID,
			NonDealerUserID: partie.NonDealer().UserID,
			DealsPerPartie:  dealsPerPartie,
		},
	}}

	dealEvents, err := s.startDeal(t)
	if err != nil {
		return nil, nil, err
	}
	return t, append(events, dealEvents...), nil
}

func (s *Service) startDeal(t *Table) ([]Event, error) {
	deal := t.Partie.NewDeal()
	if err := deal.Deal(); err != nil {
		return nil, err
	}
	t.Deal = deal
	t.Leader = deal.Elder()
	t.PendingLead = nil
	t.exchanged = make(map[string]bool, PlayersPerTable)

	events := []Event{{
		Kind: EventDealStarted,
		Payload: DealStartedPayload{
			DealIndex:     t.DealIndex,
			ElderUserID:   deal.Elder().UserID,
			YoungerUserID: deal.Younger().UserID,
		},
	}}
	for _, p := range [2]*domain.Player{deal.Elder(), deal.Younger()} {
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{UserID: p.UserID, Hand: p.Hand.Cards()},
			Recipients: []string{p.UserID},
		})
		// The only points on the board right after dealing are the carte
		// blanche bonus.
		if bonus := deal.Score(p.UserID); bonus > 0 {
			events = append(events, Event{
				Kind:    EventCarteBlanche,
				Payload: CarteBlanchePayload{UserID: p.UserID, Bonus: bonus},
			})
		}
	}
	return events, nil
}

// ExchangeCards discards the chosen cards and redraws from the stock. The
// elder exchanges first; once both players have taken their exchange the
// declarations are scored automatically and trick play opens.
func (s *Service) ExchangeCards(t *Table, userID string, cards []domain.Card) ([]Event, error) {
	if t.Finished {
		return nil, ErrPartieOver
	}
	p, err := t.Player(userID)
	if err != nil {
		return nil, err
	}
	if t.Deal.Phase() != domain.PhaseDealt {
		return nil, ErrNotExchanging
	}
	if t.exchanged[userID] {
		return nil, ErrAlreadyExchanged
	}
	if t.CurrentActor() != userID {
		return nil, ErrNotYourTurn
	}

	if err := t.Deal.Exchange(p, cards); err != nil {
		return nil, err
	}
	t.exchanged[userID] = true

	events := []Event{
		{
			Kind:    EventCardsExchanged,
			Payload: CardsExchangedPayload{UserID: userID, Count: len(cards)},
		},
		{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{UserID: userID, Hand: p.Hand.Cards()},
			Recipients: []string{userID},
		},
	}

	if t.exchanged[t.Deal.Elder().UserID] && t.exchanged[t.Deal.Younger().UserID] {
		declEvents, err := s.scoreDeclarations(t)
		if err != nil {
			return nil, err
		}
		events = append(events, declEvents...)
	}
	return events, nil
}

func (s *Service) scoreDeclarations(t *Table) ([]Event, error) {
	outcomes, err := t.Deal.ScoreDeclarations()
	if err != nil {
		return nil, err
	}

	views := make([]DeclarationView, 0, len(outcomes))
	for _, o := range outcomes {
		view := DeclarationView{
			Category:     o.Category.String(),
			Points:       o.Points,
			Announcement: o.Announcement,
		}
		if o.Winner != nil {
			view.WinnerUserID = o.Winner.UserID
		}
		views = append(views, view)
	}

	payload := DeclarationsScoredPayload{
		Declarations: views,
		Scores:       t.dealScores(),
	}
	if r := t.Deal.RepiqueHolder(); r != nil {
		payload.RepiqueUserID = r.UserID
	}
	return []Event{{Kind: EventDeclarationsScored, Payload: payload}}, nil
}

// PlayCard plays one card for the acting player: the leader's card is held
// until the follower answers, then the trick resolves. Completing the final
// trick ends the deal and either starts the next one or ends the partie.
func (s *Service) PlayCard(t *Table, userID string, card domain.Card) ([]Event, error) {
	if t.Finished {
		return nil, ErrPartieOver
	}
	p, err := t.Player(userID)
	if err != nil {
		return nil, err
	}
	phase := t.Deal.Phase()
	if phase != domain.PhaseDeclared && phase != domain.PhasePlaying {
		return nil, ErrNotPlaying
	}
	if t.CurrentActor() != userID {
		return nil, ErrNotYourTurn
	}

	if t.PendingLead == nil {
		if !p.Hand.Has(card) {
			return nil, domain.ErrCardNotHeld
		}
		t.PendingLead = &domain.Play{Player: p, Card: card}
		return []Event{{
			Kind:    EventCardLed,
			Payload: CardLedPayload{UserID: userID, Card: card},
		}}, nil
	}

	lead := *t.PendingLead
	res, err := t.Deal.PlayTrick(lead, domain.Play{Player: p, Card: card})
	if err != nil {
		return nil, err
	}
	t.PendingLead = nil
	t.Leader = res.Winner

	events := []Event{{
		Kind: EventTrickPlayed,
		Payload: TrickPlayedPayload{
			LeadUserID:   lead.Player.UserID,
			LeadCard:     lead.Card,
			FollowUserID: userID,
			FollowCard:   card,
			WinnerUserID: res.Winner.UserID,
			Tricks:       t.dealTricks(),
			LastTrick:    res.LastTrick,
			Capot:        res.Capot,
		},
	}}

	if !res.LastTrick {
		return events, nil
	}

	events = append(events, s.dealEndedEvent(t))
	t.DealIndex++

	if t.DealIndex < t.DealsPerPartie {
		next, err := s.startDeal(t)
		if err != nil {
			return nil, err
		}
		return append(events, next...), nil
	}

	winner, finalScore := t.Partie.GetFinalScore()
	t.Finished = true
	loser := t.Partie.Players()[0]
	if loser == winner {
		loser = t.Partie.Players()[1]
	}
	events = append(events, Event{
		Kind: EventPartieEnded,
		Payload: PartieEndedPayload{
			WinnerUserID: winner.UserID,
			FinalScore:   finalScore,
			Cumulative:   t.cumulativeScores(),
			BalanceChanges: map[string]int64{
				winner.UserID: int64(finalScore) * t.ChipsPerPoint,
				loser.UserID:  -int64(finalScore) * t.ChipsPerPoint,
			},
		},
	})
	return events, nil
}

func (s *Service) dealEndedEvent(t *Table) Event {
	payload := DealEndedPayload{
		DealIndex:  t.DealIndex,
		Scores:     t.dealScores(),
		Cumulative: t.cumulativeScores(),
	}
	if p := t.Deal.RepiqueHolder(); p != nil {
		payload.RepiqueUserID = p.UserID
	}
	if p := t.Deal.PiqueHolder(); p != nil {
		payload.PiqueUserID = p.UserID
	}
	if p := t.Deal.CapotHolder(); p != nil {
		payload.CapotUserID = p.UserID
	}
	return Event{Kind: EventDealEnded, Payload: payload}
}

func (t *Table) dealScores() map[string]int {
	scores := make(map[string]int, PlayersPerTable)
	for _, p := range t.Partie.Players() {
		scores[p.UserID] = t.Deal.Score(p.UserID)
	}
	return scores
}

func (t *Table) dealTricks() map[string]int {
	tricks := make(map[string]int, PlayersPerTable)
	for _, p := range t.Partie.Players() {
		tricks[p.UserID] = t.Deal.Tricks(p.UserID)
	}
	return tricks
}

func (t *Table) cumulativeScores() map[string]int {
	scores := make(map[string]int, PlayersPerTable)
	for _, p := range t.Partie.Players() {
		scores[p.UserID] = t.Partie.Score(p.UserID)
	}
	return scores
}
