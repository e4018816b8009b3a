package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"piquet/internal/ports"
)

const (
	defaultWelcomeBankroll = 10000
)

// Result captures non-fatal onboarding outcomes.
type Result struct {
	// ProfileUpdateErr is set when the profile update failed but onboarding
	// continued.
	ProfileUpdateErr error
	// WelcomeBankrollGranted is false when the bonus was already granted.
	WelcomeBankrollGranted bool
}

// Service handles post-auth onboarding for new piquet players.
type Service struct {
	accounts ports.AccountPort
	bonuses  ports.WelcomeBonusPort
	rng      *rand.Rand
}

// NewService constructs an onboarding service with required ports.
// accounts/bonuses must be non-nil; rng may be nil to use a time-seeded
// default.
func NewService(accounts ports.AccountPort, bonuses ports.WelcomeBonusPort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts: accounts,
		bonuses:  bonuses,
		rng:      rng,
	}
}

// OnboardNewUser initializes profile and bankroll for a newly created
// account. Profile updates are best-effort; the bankroll grant is the part
// that must succeed.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.bonuses == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{}
	displayName := s.generateFriendlyName()
	if err := s.accounts.UpdateProfile(ctx, userID, displayName, displayName); err != nil {
		result.ProfileUpdateErr = err
	}

	granted, err := s.bonuses.GrantWelcomeBonusOnce(ctx, userID, defaultWelcomeBankroll, map[string]interface{}{
		"reason": "welcome_bankroll",
	})
	if err != nil {
		return result, fmt.Errorf("failed to grant welcome bankroll: %w", err)
	}
	result.WelcomeBankrollGranted = granted

	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Bold", "Quiet", "Lucky", "Sly", "Grand", "Deft", "Keen", "Stern", "Merry", "Shrewd"}
	nouns := []string{"Marquis", "Duchess", "Chevalier", "Baron", "Vicomte", "Abbess", "Squire", "Comtesse", "Margrave", "Dauphin"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
