package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"piquet/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchRequest optionally pins the stake tier to sit down at.
type QuickMatchRequest struct {
	Tier string `json:"tier,omitempty"`
}

// QuickMatchResponse is the payload returned to clients when requesting a
// seat.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req QuickMatchRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid quick match payload", 3)
		}
	}

	// Find an open piquet table in the lobby phase, matching the tier when
	// one was requested.
	query := fmt.Sprintf("+label.%s:>=1 +label.game:piquet +label.phase:lobby", MatchLabelKey_OpenSeats)
	if req.Tier != "" {
		query += " +label.tier:" + req.Tier
	}

	limit := 10
	authoritative := true
	minSize := 1
	maxSize := 1 // one seated player waiting for an opponent

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("MatchList error: %v", err)
		return "", err
	}
	if len(matches) > 0 {
		b, _ := json.Marshal(QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false})
		return string(b), nil
	}

	tier := req.Tier
	if tier == "" {
		if c := config.GetGameConfig(); c != nil {
			tier = c.DefaultTier
		}
	}
	matchID, err := nk.MatchCreate(ctx, MatchNamePiquet, map[string]interface{}{"tier": tier})
	if err != nil {
		logger.Error("MatchCreate error: %v", err)
		return "", err
	}

	b, _ := json.Marshal(QuickMatchResponse{MatchID: matchID, IsNew: true})
	return string(b), nil
}
