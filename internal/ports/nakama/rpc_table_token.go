package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"piquet/internal/app"

	"github.com/heroiclabs/nakama-common/runtime"
)

const tokenIssuer = "piquet"

// tableTokens signs private-table invites. Configured once from the runtime
// environment in InitModule.
var tableTokens *app.TableTokenService

func configureTableTokens(env map[string]string) {
	secret := env["piquet_table_token_secret"]
	if secret == "" {
		return
	}
	ttl := time.Hour
	tableTokens = app.NewTableTokenService(secret, tokenIssuer, ttl)
}

// CreatePrivateTableResponse carries the invite-only match id back to the
// host.
type CreatePrivateTableResponse struct {
	MatchID string `json:"match_id"`
}

func rpcCreatePrivateTable(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req QuickMatchRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid private table payload", 3)
		}
	}

	matchID, err := nk.MatchCreate(ctx, MatchNamePiquet, map[string]interface{}{
		"tier":    req.Tier,
		"private": true,
	})
	if err != nil {
		logger.Error("MatchCreate error: %v", err)
		return "", err
	}

	b, _ := json.Marshal(CreatePrivateTableResponse{MatchID: matchID})
	return string(b), nil
}

// TableTokenRequest names the guest to invite to the host's private table.
type TableTokenRequest struct {
	GuestUserID string `json:"guest_user_id"`
	MatchID     string `json:"match_id"`
}

// TableTokenResponse carries the signed invite.
type TableTokenResponse struct {
	Token string `json:"token"`
}

func rpcTableToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	if tableTokens == nil {
		return "", runtime.NewError("private tables are not configured", 9)
	}

	var req TableTokenRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid table token payload", 3)
	}

	token, err := tableTokens.GenerateToken(req.GuestUserID, req.MatchID)
	if err != nil {
		logger.Error("GenerateToken error: %v", err)
		return "", runtime.NewError("failed to sign invite", 13)
	}

	b, _ := json.Marshal(TableTokenResponse{Token: token})
	return string(b), nil
}
