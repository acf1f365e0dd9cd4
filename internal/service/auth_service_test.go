package service

import (
	"context"
	"testing"
	"time"

	"github.com/bcabs/josephs-list/internal/repository"
)

func newAuthFixture() (AuthService, *fakeProfileRepo, *fakeGroupRepo, *fakeInvitationRepo) {
	profiles := newFakeProfileRepo()
	groups := newFakeGroupRepo()
	invitations := newFakeInvitationRepo()
	svc := NewAuthService(testConfig(), profiles, groups, invitations)
	return svc, profiles, groups, invitations
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	ctx := context.Background()

	profile, access, refresh, err := svc.Register(ctx, "Alice Smith", "alice@example.com", "longenoughpw")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if profile.ID == "" || access == "" || refresh == "" {
		t.Fatal("Expected profile and token pair from Register")
	}
	if profile.PasswordHash == "longenoughpw" {
		t.Error("Password stored in plaintext")
	}

	logged, _, _, err := svc.Login(ctx, "alice@example.com", "longenoughpw")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if logged.ID != profile.ID {
		t.Errorf("Expected profile %s, got %s", profile.ID, logged.ID)
	}

	if _, _, _, err := svc.Login(ctx, "alice@example.com", "wrongpassword"); err != ErrInvalidCredentials {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, _, err := svc.Login(ctx, "nobody@example.com", "longenoughpw"); err != ErrInvalidCredentials {
		t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	ctx := context.Background()

	if _, _, _, err := svc.Register(ctx, "Alice", "alice@example.com", "longenoughpw"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, _, _, err := svc.Register(ctx, "Imposter", "alice@example.com", "otherpassword"); err != ErrUserExists {
		t.Errorf("Expected ErrUserExists, got %v", err)
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	ctx := context.Background()

	_, _, refresh, err := svc.Register(ctx, "Alice", "alice@example.com", "longenoughpw")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	access2, refresh2, err := svc.RefreshToken(ctx, refresh)
	if err != nil {
		t.Fatalf("RefreshToken returned error: %v", err)
	}
	if access2 == "" || refresh2 == "" || refresh2 == refresh {
		t.Error("Expected a fresh token pair")
	}

	// the old token was consumed
	if _, _, err := svc.RefreshToken(ctx, refresh); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken for reused refresh token, got %v", err)
	}
}

func TestRefreshTokenExpired(t *testing.T) {
	svc, profiles, _, _ := newAuthFixture()
	ctx := context.Background()

	profiles.tokens["stale"] = &repository.RefreshToken{
		Token:     "stale",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	if _, _, err := svc.RefreshToken(ctx, "stale"); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken for expired token, got %v", err)
	}
	if _, ok := profiles.tokens["stale"]; ok {
		t.Error("Expected expired token to be deleted")
	}
}

func TestLogoutDeletesRefreshToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	ctx := context.Background()

	_, _, refresh, _ := svc.Register(ctx, "Alice", "alice@example.com", "longenoughpw")
	if err := svc.Logout(ctx, refresh); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if _, _, err := svc.RefreshToken(ctx, refresh); err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken after logout, got %v", err)
	}
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc, _, _, _ := newAuthFixture()
	ctx := context.Background()

	profile, access, _, _ := svc.Register(ctx, "Alice", "alice@example.com", "longenoughpw")

	token, err := svc.ValidateToken(access)
	if err != nil || !token.Valid {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	userID, err := svc.GetUserIDFromToken(token)
	if err != nil {
		t.Fatalf("GetUserIDFromToken returned error: %v", err)
	}
	if userID != profile.ID {
		t.Errorf("Expected subject %s, got %s", profile.ID, userID)
	}

	if _, err := svc.ValidateToken("not.a.token"); err == nil {
		t.Error("Expected error for garbage token")
	}
}

func TestRegisterClaimsPendingInvitations(t *testing.T) {
	svc, _, groups, invitations := newAuthFixture()
	ctx := context.Background()

	g := &repository.Group{Name: "Garage Collective", AdminID: "admin-0"}
	// admin id never registered, fine for the fake
	if err := groups.CreateWithAdmin(ctx, g); err != nil {
		t.Fatalf("create group: %v", err)
	}

	invitations.Create(ctx, &repository.Invitation{
		Email:     "newcomer@example.com",
		GroupID:   g.ID,
		InvitedBy: "admin-0",
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})

	profile, _, _, err := svc.Register(ctx, "Newcomer", "newcomer@example.com", "longenoughpw")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	member, _ := groups.FindMember(ctx, g.ID, profile.ID)
	if member == nil || member.Role != "member" {
		t.Errorf("Expected claimed membership, got %+v", member)
	}

	pending, _ := invitations.FindPendingByEmail(ctx, "newcomer@example.com")
	if len(pending) != 0 {
		t.Errorf("Expected invitation to be accepted, %d still pending", len(pending))
	}
}
