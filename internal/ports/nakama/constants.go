package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create an
	// open table.
	RpcQuickMatch = "quick_match"
	// RpcCreatePrivateTable creates an invite-only match.
	RpcCreatePrivateTable = "create_private_table"
	// RpcTableToken is the Nakama RPC id a table host calls to mint an
	// invite token for a private table.
	RpcTableToken = "table_token"

	// MatchNamePiquet is the authoritative match handler name registered
	// with Nakama.
	MatchNamePiquet = "piquet_match"

	// MatchLabelKey_OpenSeats is the label key carrying the open seat count.
	MatchLabelKey_OpenSeats = "open"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartPartie   int64 = 1
	OpExchangeCards int64 = 2
	OpPlayCard      int64 = 3

	// Server -> Client events
	OpMatchSnapshot      int64 = 101
	OpPartieStarted      int64 = 102
	OpDealStarted        int64 = 103
	OpHandDealt          int64 = 104 // sent privately
	OpCarteBlanche       int64 = 105
	OpCardsExchanged     int64 = 106
	OpDeclarationsScored int64 = 107
	OpCardLed            int64 = 108
	OpTrickPlayed        int64 = 109
	OpDealEnded          int64 = 110
	OpPartieEnded        int64 = 111
	OpGameError          int64 = 112
)
