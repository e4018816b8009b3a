package onboarding

import (
	"context"
	"errors"
	"math/rand"
	"testing"
)

type fakeAccounts struct {
	updateErr error

	userID      string
	username    string
	displayName string
	calls       int
}

func (f *fakeAccounts) UpdateProfile(ctx context.Context, userID, username, displayName string) error {
	f.calls++
	f.userID = userID
	f.username = username
	f.displayName = displayName
	return f.updateErr
}

type fakeBonuses struct {
	granted  bool
	grantErr error

	userID string
	amount int64
	calls  int
}

func (f *fakeBonuses) GrantWelcomeBonusOnce(ctx context.Context, userID string, amount int64, metadata map[string]interface{}) (bool, error) {
	f.calls++
	f.userID = userID
	f.amount = amount
	return f.granted, f.grantErr
}

func TestOnboardNewUser(t *testing.T) {
	accounts := &fakeAccounts{}
	bonuses := &fakeBonuses{granted: true}
	svc := NewService(accounts, bonuses, rand.New(rand.NewSource(7)))

	result, err := svc.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser: %v", err)
	}
	if result.ProfileUpdateErr != nil {
		t.Errorf("profile update error: %v", result.ProfileUpdateErr)
	}
	if !result.WelcomeBankrollGranted {
		t.Error("bankroll not granted")
	}

	if accounts.calls != 1 || accounts.userID != "user-1" {
		t.Errorf("profile update calls = %d for %s", accounts.calls, accounts.userID)
	}
	if accounts.displayName == "" || accounts.displayName != accounts.username {
		t.Errorf("generated name = (%s, %s), want matching non-empty values", accounts.username, accounts.displayName)
	}
	if bonuses.calls != 1 || bonuses.userID != "user-1" || bonuses.amount != defaultWelcomeBankroll {
		t.Errorf("grant = %d calls for %s amount %d", bonuses.calls, bonuses.userID, bonuses.amount)
	}
}

func TestOnboardNewUserProfileFailureIsNonFatal(t *testing.T) {
	profileErr := errors.New("profile backend down")
	accounts := &fakeAccounts{updateErr: profileErr}
	bonuses := &fakeBonuses{granted: true}
	svc := NewService(accounts, bonuses, rand.New(rand.NewSource(7)))

	result, err := svc.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser: %v", err)
	}
	if !errors.Is(result.ProfileUpdateErr, profileErr) {
		t.Errorf("profile error = %v, want the backend error", result.ProfileUpdateErr)
	}
	if !result.WelcomeBankrollGranted {
		t.Error("bankroll grant must still happen after a profile failure")
	}
}

func TestOnboardNewUserBonusAlreadyGranted(t *testing.T) {
	svc := NewService(&fakeAccounts{}, &fakeBonuses{granted: false}, rand.New(rand.NewSource(7)))

	result, err := svc.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser: %v", err)
	}
	if result.WelcomeBankrollGranted {
		t.Error("repeat onboarding must not report a fresh grant")
	}
}

func TestOnboardNewUserBonusFailure(t *testing.T) {
	bonuses := &fakeBonuses{grantErr: errors.New("wallet backend down")}
	svc := NewService(&fakeAccounts{}, bonuses, rand.New(rand.NewSource(7)))

	if _, err := svc.OnboardNewUser(context.Background(), "user-1"); err == nil {
		t.Error("expected an error when the grant fails")
	}
}
