package bot

import (
	"piquet/internal/domain"
)

// View is the bot's window onto the table: its own cards plus everything a
// human in its seat could see. Opponent hands and the talon stay hidden.
type View struct {
	Hand     []domain.Card
	StockLen int

	MyScore   int
	OppScore  int
	MyTricks  int
	OppTricks int

	// Lead is the card on the table when following, nil when leading or
	// exchanging.
	Lead *domain.Card
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	// ChooseDiscards picks the cards to throw away in the exchange. An
	// empty result keeps the dealt hand.
	ChooseDiscards(v View) []domain.Card
	// ChooseLead picks the card to lead a trick with.
	ChooseLead(v View) domain.Card
	// ChooseFollow picks the answer to the led card in v.Lead.
	ChooseFollow(v View) domain.Card
	// OnEvent feeds table events to stateful strategies.
	OnEvent(event interface{})
}
