package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadGameConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.json")
	body := `{
		"default_tier": "casual",
		"tiers": [
			{"id": "casual", "chips_per_point": 5},
			{"id": "high", "chips_per_point": 100}
		],
		"deals_per_partie": 6,
		"turn_duration_seconds": 30,
		"bot_auto_fill_delay_seconds": 10,
		"bot_move_delay_millis": 800
	}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := LoadGameConfig(path); err != nil {
		t.Fatalf("LoadGameConfig: %v", err)
	}
	t.Cleanup(func() {
		cfg = nil
	})

	c := GetGameConfig()
	if c == nil {
		t.Fatal("config not loaded")
	}
	if c.DealsPerPartie != 6 || c.TurnDurationSeconds != 30 {
		t.Errorf("config = %+v", c)
	}

	tests := []struct {
		tierID string
		want   int64
	}{
		{"casual", 5},
		{"high", 100},
		{"", 5},        // default tier
		{"unknown", 5}, // falls back to default
	}
	for _, tt := range tests {
		if got := GetChipsPerPoint(tt.tierID); got != tt.want {
			t.Errorf("GetChipsPerPoint(%q) = %d, want %d", tt.tierID, got, tt.want)
		}
	}

	if got := GetDealsPerPartie(); got != 6 {
		t.Errorf("GetDealsPerPartie() = %d, want 6", got)
	}
}

func TestDefaultsWithoutConfig(t *testing.T) {
	if cfg != nil {
		t.Skip("config already loaded in this process")
	}
	if got := GetChipsPerPoint("any"); got != 10 {
		t.Errorf("GetChipsPerPoint without config = %d, want 10", got)
	}
	if got := GetDealsPerPartie(); got != 0 {
		t.Errorf("GetDealsPerPartie without config = %d, want 0", got)
	}
}
