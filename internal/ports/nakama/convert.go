package nakama

import (
	"encoding/json"

	"piquet/internal/domain"
)

// MatchLabel is the JSON label published for match listing queries. Cards
// and all other traffic use the compact card codes from the domain codec.
type MatchLabel struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
	Tier  string `json:"tier"`
}

func (l MatchLabel) String() string {
	b, err := json.Marshal(l)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// StartPartieRequest is the OpStartPartie client payload.
type StartPartieRequest struct {
	Deals int `json:"deals,omitempty"`
}

// ExchangeCardsRequest is the OpExchangeCards client payload.
type ExchangeCardsRequest struct {
	Cards []domain.Card `json:"cards"`
}

// PlayCardRequest is the OpPlayCard client payload.
type PlayCardRequest struct {
	Card domain.Card `json:"card"`
}

// GameError is sent privately to a player whose action was rejected.
type GameError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// PlayerState is one seat in a match snapshot.
type PlayerState struct {
	UserID      string `json:"user_id"`
	Seat        int    `json:"seat"`
	IsOwner     bool   `json:"is_owner"`
	DisplayName string `json:"display_name"`
	IsBot       bool   `json:"is_bot"`
}

// MatchSnapshot is broadcast whenever seating changes.
type MatchSnapshot struct {
	Seats     []string      `json:"seats"`
	OwnerSeat int           `json:"owner_seat"`
	Playing   bool          `json:"playing"`
	Players   []PlayerState `json:"players"`
}
