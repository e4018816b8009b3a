package app

import (
	"strings"
	"testing"
	"time"
)

func TestTableTokenRoundTrip(t *testing.T) {
	svc := NewTableTokenService("test-secret", "piquet", time.Minute)

	token, err := svc.GenerateToken("guest-1", "match-abc")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	guest, match, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if guest != "guest-1" || match != "match-abc" {
		t.Errorf("claims = (%s, %s), want (guest-1, match-abc)", guest, match)
	}
}

func TestTableTokenValidation(t *testing.T) {
	svc := NewTableTokenService("test-secret", "piquet", time.Minute)

	tests := []struct {
		name    string
		guest   string
		matchID string
	}{
		{"missing guest", "", "match-abc"},
		{"missing match", "guest-1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.GenerateToken(tt.guest, tt.matchID); err == nil {
				t.Error("expected an error")
			}
		})
	}

	unconfigured := NewTableTokenService("", "piquet", time.Minute)
	if _, err := unconfigured.GenerateToken("guest-1", "match-abc"); err == nil {
		t.Error("expected error from unconfigured service")
	}
}

func TestTableTokenRejectsTampering(t *testing.T) {
	svc := NewTableTokenService("test-secret", "piquet", time.Minute)
	token, err := svc.GenerateToken("guest-1", "match-abc")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]
	if _, _, err := svc.VerifyToken(tampered); err == nil {
		t.Error("tampered token verified")
	}

	otherSecret := NewTableTokenService("other-secret", "piquet", time.Minute)
	if _, _, err := otherSecret.VerifyToken(token); err == nil {
		t.Error("token verified under the wrong secret")
	}

	otherIssuer := NewTableTokenService("test-secret", "someone-else", time.Minute)
	if _, _, err := otherIssuer.VerifyToken(token); err == nil {
		t.Error("token verified under the wrong issuer")
	}
}

func TestTableTokenExpiry(t *testing.T) {
	svc := NewTableTokenService("test-secret", "piquet", time.Minute)
	// The constructor rejects non-positive ttls, so backdate directly.
	svc.ttl = -2 * time.Hour

	token, err := svc.GenerateToken("guest-1", "match-abc")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, _, err := svc.VerifyToken(token); err == nil {
		t.Error("expired token verified")
	}
}
