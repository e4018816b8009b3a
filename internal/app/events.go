package app

import "piquet/internal/domain"

// EventKind identifies emitted game events for Nakama dispatch.
type EventKind string

const (
	EventPartieStarted      EventKind = "partie_started"
	EventDealStarted        EventKind = "deal_started"
	EventHandDealt          EventKind = "hand_dealt"
	EventCarteBlanche       EventKind = "carte_blanche"
	EventCardsExchanged     EventKind = "cards_exchanged"
	EventDeclarationsScored EventKind = "declarations_scored"
	EventCardLed            EventKind = "card_led"
	EventTrickPlayed        EventKind = "trick_played"
	EventDealEnded          EventKind = "deal_ended"
	EventPartieEnded        EventKind = "partie_ended"
)

// Event is a game event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PartieStartedPayload struct {
	DealerUserID    string `json:"dealer_user_id"`
	NonDealerUserID string `json:"non_dealer_user_id"`
	DealsPerPartie  int    `json:"deals_per_partie"`
}

type DealStartedPayload struct {
	DealIndex     int    `json:"deal_index"`
	ElderUserID   string `json:"elder_user_id"`
	YoungerUserID string `json:"younger_user_id"`
}

type HandDealtPayload struct {
	UserID string        `json:"user_id"`
	Hand   []domain.Card `json:"hand"`
}

type CarteBlanchePayload struct {
	UserID string `json:"user_id"`
	Bonus  int    `json:"bonus"`
}

type CardsExchangedPayload struct {
	UserID string `json:"user_id"`
	Count  int    `json:"count"`
}

// DeclarationView is one resolved declaration category for clients.
type DeclarationView struct {
	Category     string `json:"category"`
	WinnerUserID string `json:"winner_user_id,omitempty"` // empty when neither side qualified
	Points       int    `json:"points"`
	Announcement string `json:"announcement"`
}

type DeclarationsScoredPayload struct {
	Declarations  []DeclarationView `json:"declarations"`
	RepiqueUserID string            `json:"repique_user_id,omitempty"`
	Scores        map[string]int    `json:"scores"`
}

type CardLedPayload struct {
	UserID string      `json:"user_id"`
	Card   domain.Card `json:"card"`
}

type TrickPlayedPayload struct {
	LeadUserID   string         `json:"lead_user_id"`
	LeadCard     domain.Card    `json:"lead_card"`
	FollowUserID string         `json:"follow_user_id"`
	FollowCard   domain.Card    `json:"follow_card"`
	WinnerUserID string         `json:"winner_user_id"`
	Tricks       map[string]int `json:"tricks"`
	LastTrick    bool           `json:"last_trick"`
	Capot        bool           `json:"capot"`
}

type DealEndedPayload struct {
	DealIndex     int            `json:"deal_index"`
	Scores        map[string]int `json:"scores"`
	Cumulative    map[string]int `json:"cumulative"`
	RepiqueUserID string         `json:"repique_user_id,omitempty"`
	PiqueUserID   string         `json:"pique_user_id,omitempty"`
	CapotUserID   string         `json:"capot_user_id,omitempty"`
}

type PartieEndedPayload struct {
	WinnerUserID   string           `json:"winner_user_id"`
	FinalScore     int              `json:"final_score"`
	Cumulative     map[string]int   `json:"cumulative"`
	BalanceChanges map[string]int64 `json:"balance_changes"`
}
