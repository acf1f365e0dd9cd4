package service

import (
	"context"
	"testing"

	"github.com/bcabs/josephs-list/internal/repository"
)

func newToolFixture() (ToolService, *fakeProfileRepo, *fakeGroupRepo, *fakeToolRepo) {
	profiles := newFakeProfileRepo()
	groups := newFakeGroupRepo()
	tools := newFakeToolRepo(groups)
	svc := NewToolService(tools, groups, nil, nil)
	return svc, profiles, groups, tools
}

func addGroupWith(t *testing.T, groups *fakeGroupRepo, admin *repository.Profile, members ...*repository.Profile) *repository.Group {
	t.Helper()
	ctx := context.Background()
	g := &repository.Group{Name: "Group", AdminID: admin.ID}
	if err := groups.CreateWithAdmin(ctx, g); err != nil {
		t.Fatalf("create group: %v", err)
	}
	for _, m := range members {
		if err := groups.AddMember(ctx, &repository.GroupMember{GroupID: g.ID, UserID: m.ID, Role: "member"}); err != nil {
			t.Fatalf("add member: %v", err)
		}
	}
	return g
}

func TestCreateToolRequiresMembership(t *testing.T) {
	svc, profiles, groups, _ := newToolFixture()
	ctx := context.Background()
	loner := addProfile(t, profiles, "Loner", "loner@example.com")

	if _, err := svc.Create(ctx, loner.ID, "Ladder", "24ft extension ladder", nil); err != ErrNoMembership {
		t.Errorf("Expected ErrNoMembership, got %v", err)
	}

	addGroupWith(t, groups, loner)
	tool, err := svc.Create(ctx, loner.ID, "Ladder", "24ft extension ladder", nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if tool.OwnerID != loner.ID {
		t.Errorf("Expected owner %s, got %s", loner.ID, tool.OwnerID)
	}
}

// Three neighbors: Alice and Bob share a group, Carol is elsewhere.
// Bob's ladder is visible to Alice but not to Carol.
func TestVisibilityFollowsSharedGroups(t *testing.T) {
	svc, profiles, groups, _ := newToolFixture()
	ctx := context.Background()
	alice := addProfile(t, profiles, "Alice", "alice@example.com")
	bob := addProfile(t, profiles, "Bob", "bob@example.com")
	carol := addProfile(t, profiles, "Carol", "carol@example.com")

	addGroupWith(t, groups, alice, bob)
	addGroupWith(t, groups, carol)

	ladder, err := svc.Create(ctx, bob.ID, "Ladder", "24ft extension ladder", nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	aliceSees, _ := svc.ListVisible(ctx, alice.ID)
	if len(aliceSees) != 1 || aliceSees[0].ID != ladder.ID {
		t.Errorf("Expected alice to see the ladder, got %d tools", len(aliceSees))
	}

	carolSees, _ := svc.ListVisible(ctx, carol.ID)
	if len(carolSees) != 0 {
		t.Errorf("Expected carol to see nothing, got %d tools", len(carolSees))
	}

	// detail reads follow the same predicate
	if _, err := svc.GetByID(ctx, ladder.ID, alice.ID); err != nil {
		t.Errorf("Expected alice to read the ladder, got %v", err)
	}
	if _, err := svc.GetByID(ctx, ladder.ID, carol.ID); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound for carol, got %v", err)
	}
}

func TestListByGroupIsMemberOnly(t *testing.T) {
	svc, profiles, groups, _ := newToolFixture()
	ctx := context.Background()
	alice := addProfile(t, profiles, "Alice", "alice@example.com")
	outsider := addProfile(t, profiles, "Outsider", "outsider@example.com")

	g := addGroupWith(t, groups, alice)
	if _, err := svc.Create(ctx, alice.ID, "Drill", "18V cordless", nil); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	tools, err := svc.ListByGroup(ctx, g.ID, alice.ID)
	if err != nil {
		t.Fatalf("ListByGroup returned error: %v", err)
	}
	if len(tools) != 1 {
		t.Errorf("Expected 1 tool, got %d", len(tools))
	}

	if _, err := svc.ListByGroup(ctx, g.ID, outsider.ID); err != ErrForbidden {
		t.Errorf("Expected ErrForbidden for outsider, got %v", err)
	}
}

func TestUpdateAndDeleteAreOwnerOnly(t *testing.T) {
	svc, profiles, groups, _ := newToolFixture()
	ctx := context.Background()
	alice := addProfile(t, profiles, "Alice", "alice@example.com")
	bob := addProfile(t, profiles, "Bob", "bob@example.com")
	addGroupWith(t, groups, alice, bob)

	tool, _ := svc.Create(ctx, alice.ID, "Drill", "18V cordless", nil)

	name := "Impact Driver"
	if _, err := svc.Update(ctx, tool.ID, bob.ID, &name, nil, nil); err != ErrForbidden {
		t.Errorf("Expected ErrForbidden for non-owner update, got %v", err)
	}
	if err := svc.Delete(ctx, tool.ID, bob.ID); err != ErrForbidden {
		t.Errorf("Expected ErrForbidden for non-owner delete, got %v", err)
	}

	updated, err := svc.Update(ctx, tool.ID, alice.ID, &name, nil, nil)
	if err != nil {
		t.Fatalf("Owner update returned error: %v", err)
	}
	if updated.Name != "Impact Driver" {
		t.Errorf("Expected updated name, got %q", updated.Name)
	}

	if err := svc.Delete(ctx, tool.ID, alice.ID); err != nil {
		t.Fatalf("Owner delete returned error: %v", err)
	}
}

func TestDeletedToolDisappearsFromEveryRead(t *testing.T) {
	svc, profiles, groups, _ := newToolFixture()
	ctx := context.Background()
	alice := addProfile(t, profiles, "Alice", "alice@example.com")
	bob := addProfile(t, profiles, "Bob", "bob@example.com")
	g := addGroupWith(t, groups, alice, bob)

	tool, _ := svc.Create(ctx, alice.ID, "Drill", "18V cordless", nil)
	if err := svc.Delete(ctx, tool.ID, alice.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if _, err := svc.GetByID(ctx, tool.ID, bob.ID); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	visible, _ := svc.ListVisible(ctx, bob.ID)
	if len(visible) != 0 {
		t.Errorf("Expected empty visible list after delete, got %d", len(visible))
	}
	byGroup, _ := svc.ListByGroup(ctx, g.ID, bob.ID)
	if len(byGroup) != 0 {
		t.Errorf("Expected empty group list after delete, got %d", len(byGroup))
	}
	mine, _ := svc.ListByOwner(ctx, alice.ID)
	if len(mine) != 0 {
		t.Errorf("Expected empty owner list after delete, got %d", len(mine))
	}
}

func TestGetMissingTool(t *testing.T) {
	svc, profiles, _, _ := newToolFixture()
	ctx := context.Background()
	alice := addProfile(t, profiles, "Alice", "alice@example.com")

	if _, err := svc.GetByID(ctx, "tool-missing", alice.ID); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
