package bot

import (
	"fmt"
)

// BotLevel selects a strategy strength.
type BotLevel int

const (
	BotLevelBasic BotLevel = iota + 1
	BotLevelSmart
	BotLevelExpert
)

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelBasic:
		return &BasicBot{}, nil
	case BotLevelSmart:
		return &SmartBot{}, nil
	case BotLevelExpert:
		return NewExpertBot(), nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

// LevelFromDifficulty maps an identity difficulty string to a level,
// defaulting to smart.
func LevelFromDifficulty(difficulty string) BotLevel {
	switch difficulty {
	case "easy":
		return BotLevelBasic
	case "hard":
		return BotLevelExpert
	default:
		return BotLevelSmart
	}
}
