package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// StakeTier is one selectable table stake: final partie points convert to
// chips at ChipsPerPoint.
type StakeTier struct {
	ID            string `json:"id"`
	ChipsPerPoint int64  `json:"chips_per_point"`
}

type GameConfig struct {
	DefaultTier    string      `json:"default_tier"`
	Tiers          []StakeTier `json:"tiers"`
	DealsPerPartie int         `json:"deals_per_partie"`

	TurnDurationSeconds int `json:"turn_duration_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds a solo human
	// waits before a bot takes the empty seat.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
	// BotMoveDelayMillis paces bot actions so they read as human.
	BotMoveDelayMillis int `json:"bot_move_delay_millis"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetChipsPerPoint returns the stake for a given tier ID, falling back to
// the default tier and finally to a safe constant.
func GetChipsPerPoint(tierID string) int64 {
	if cfg == nil {
		return 10
	}

	target := tierID
	if target == "" {
		target = cfg.DefaultTier
	}

	for _, tier := range cfg.Tiers {
		if tier.ID == target {
			return tier.ChipsPerPoint
		}
	}
	for _, tier := range cfg.Tiers {
		if tier.ID == cfg.DefaultTier {
			return tier.ChipsPerPoint
		}
	}
	return 10
}

// GetDealsPerPartie returns the configured partie length, or zero when the
// config is absent so callers apply their own default.
func GetDealsPerPartie() int {
	if cfg == nil {
		return 0
	}
	return cfg.DealsPerPartie
}
