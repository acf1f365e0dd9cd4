package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bcabs/josephs-list/internal/repository"
	"github.com/jackc/pgx/v5/pgconn"
)

// In-memory repositories backing the service tests. They mirror the
// constraints the schema enforces, in particular the unique
// (group_id, user_id) pair on memberships.

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "group_members_group_id_user_id_key"}
}

// ---------- profiles ----------

type fakeProfileRepo struct {
	profiles map[string]*repository.Profile
	tokens   map[string]*repository.RefreshToken
	nextID   int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles: make(map[string]*repository.Profile),
		tokens:   make(map[string]*repository.RefreshToken),
	}
}

func (r *fakeProfileRepo) Create(ctx context.Context, p *repository.Profile) error {
	r.nextID++
	p.ID = fmt.Sprintf("user-%d", r.nextID)
	p.CreatedAt = time.Now()
	r.profiles[p.ID] = p
	return nil
}

func (r *fakeProfileRepo) FindByID(ctx context.Context, id string) (*repository.Profile, error) {
	return r.profiles[id], nil
}

func (r *fakeProfileRepo) FindByEmail(ctx context.Context, email string) (*repository.Profile, error) {
	for _, p := range r.profiles {
		if strings.EqualFold(p.Email, email) {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) Update(ctx context.Context, p *repository.Profile) error {
	if _, ok := r.profiles[p.ID]; !ok {
		return errors.New("profile not found")
	}
	r.profiles[p.ID] = p
	return nil
}

func (r *fakeProfileRepo) SaveRefreshToken(ctx context.Context, t *repository.RefreshToken) error {
	r.tokens[t.Token] = t
	return nil
}

func (r *fakeProfileRepo) FindRefreshToken(ctx context.Context, token string) (*repository.RefreshToken, error) {
	return r.tokens[token], nil
}

func (r *fakeProfileRepo) DeleteRefreshToken(ctx context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

func (r *fakeProfileRepo) DeleteExpiredRefreshTokens(ctx context.Context) (int, error) {
	n := 0
	for k, t := range r.tokens {
		if t.ExpiresAt.Before(time.Now()) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

// ---------- groups ----------

type fakeGroupRepo struct {
	groups  map[string]*repository.Group
	members []*repository.GroupMember
	nextID  int

	// when set, CreateWithAdmin fails after preparing the group and
	// must leave no trace, like the real transaction
	failMembershipInsert bool
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[string]*repository.Group)}
}

func (r *fakeGroupRepo) CreateWithAdmin(ctx context.Context, g *repository.Group) error {
	if r.failMembershipInsert {
		return errors.New("membership insert failed")
	}
	r.nextID++
	g.ID = fmt.Sprintf("group-%d", r.nextID)
	g.CreatedAt = time.Now()
	r.groups[g.ID] = g
	r.members = append(r.members, &repository.GroupMember{
		ID:      fmt.Sprintf("member-%d", len(r.members)+1),
		GroupID: g.ID,
		UserID:  g.AdminID,
		Role:    "admin",
	})
	return nil
}

func (r *fakeGroupRepo) FindByID(ctx context.Context, id string) (*repository.Group, error) {
	return r.groups[id], nil
}

func (r *fakeGroupRepo) FindByUserID(ctx context.Context, userID string) ([]*repository.Group, error) {
	var out []*repository.Group
	for _, m := range r.members {
		if m.UserID == userID {
			if g, ok := r.groups[m.GroupID]; ok {
				out = append(out, g)
			}
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) Update(ctx context.Context, g *repository.Group) error {
	if _, ok := r.groups[g.ID]; !ok {
		return errors.New("group not found")
	}
	r.groups[g.ID] = g
	return nil
}

func (r *fakeGroupRepo) AddMember(ctx context.Context, m *repository.GroupMember) error {
	for _, existing := range r.members {
		if existing.GroupID == m.GroupID && existing.UserID == m.UserID {
			return uniqueViolation()
		}
	}
	m.ID = fmt.Sprintf("member-%d", len(r.members)+1)
	m.JoinedAt = time.Now()
	r.members = append(r.members, m)
	return nil
}

func (r *fakeGroupRepo) FindMembers(ctx context.Context, groupID string) ([]*repository.GroupMember, error) {
	var out []*repository.GroupMember
	for _, m := range r.members {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeGroupRepo) FindMember(ctx context.Context, groupID, userID string) (*repository.GroupMember, error) {
	for _, m := range r.members {
		if m.GroupID == groupID && m.UserID == userID {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeGroupRepo) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	m, _ := r.FindMember(ctx, groupID, userID)
	return m != nil, nil
}

func (r *fakeGroupRepo) ShareGroup(ctx context.Context, userID, otherID string) (bool, error) {
	mine := make(map[string]bool)
	for _, m := range r.members {
		if m.UserID == userID {
			mine[m.GroupID] = true
		}
	}
	for _, m := range r.members {
		if m.UserID == otherID && mine[m.GroupID] {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeGroupRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	n := 0
	for _, m := range r.members {
		if m.UserID == userID {
			n++
		}
	}
	return n, nil
}

// ---------- tools ----------

type fakeToolRepo struct {
	tools  map[string]*repository.Tool
	groups *fakeGroupRepo
	nextID int
}

func newFakeToolRepo(groups *fakeGroupRepo) *fakeToolRepo {
	return &fakeToolRepo{tools: make(map[string]*repository.Tool), groups: groups}
}

func (r *fakeToolRepo) Create(ctx context.Context, t *repository.Tool) error {
	r.nextID++
	t.ID = fmt.Sprintf("tool-%d", r.nextID)
	t.CreatedAt = time.Now()
	r.tools[t.ID] = t
	return nil
}

func (r *fakeToolRepo) FindByID(ctx context.Context, id string) (*repository.Tool, error) {
	return r.tools[id], nil
}

func (r *fakeToolRepo) FindVisibleToUser(ctx context.Context, userID string) ([]*repository.Tool, error) {
	var out []*repository.Tool
	for _, t := range r.tools {
		if t.OwnerID == userID {
			out = append(out, t)
			continue
		}
		shared, _ := r.groups.ShareGroup(ctx, userID, t.OwnerID)
		if shared {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeToolRepo) FindByGroup(ctx context.Context, groupID string) ([]*repository.Tool, error) {
	owners := make(map[string]bool)
	for _, m := range r.groups.members {
		if m.GroupID == groupID {
			owners[m.UserID] = true
		}
	}
	var out []*repository.Tool
	for _, t := range r.tools {
		if owners[t.OwnerID] {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeToolRepo) FindByOwner(ctx context.Context, ownerID string) ([]*repository.Tool, error) {
	var out []*repository.Tool
	for _, t := range r.tools {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeToolRepo) Update(ctx context.Context, t *repository.Tool) error {
	if _, ok := r.tools[t.ID]; !ok {
		return errors.New("tool not found")
	}
	r.tools[t.ID] = t
	return nil
}

func (r *fakeToolRepo) Delete(ctx context.Context, id string) error {
	delete(r.tools, id)
	return nil
}

// ---------- invitations ----------

type fakeInvitationRepo struct {
	invitations map[string]*repository.Invitation
	nextID      int
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{invitations: make(map[string]*repository.Invitation)}
}

func (r *fakeInvitationRepo) Create(ctx context.Context, inv *repository.Invitation) error {
	r.nextID++
	inv.ID = fmt.Sprintf("invite-%d", r.nextID)
	if inv.Token == "" {
		inv.Token = fmt.Sprintf("token-%d", r.nextID)
	}
	inv.Status = "pending"
	inv.CreatedAt = time.Now()
	r.invitations[inv.ID] = inv
	return nil
}

func (r *fakeInvitationRepo) FindPendingByEmail(ctx context.Context, email string) ([]*repository.Invitation, error) {
	var out []*repository.Invitation
	for _, inv := range r.invitations {
		if inv.Status == "pending" && strings.EqualFold(inv.Email, email) && inv.ExpiresAt.After(time.Now()) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *fakeInvitationRepo) FindPendingByGroup(ctx context.Context, groupID string) ([]*repository.Invitation, error) {
	var out []*repository.Invitation
	for _, inv := range r.invitations {
		if inv.Status == "pending" && inv.GroupID == groupID && inv.ExpiresAt.After(time.Now()) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *fakeInvitationRepo) FindPendingByGroupAndEmail(ctx context.Context, groupID, email string) (*repository.Invitation, error) {
	for _, inv := range r.invitations {
		if inv.Status == "pending" && inv.GroupID == groupID && strings.EqualFold(inv.Email, email) && inv.ExpiresAt.After(time.Now()) {
			return inv, nil
		}
	}
	return nil, nil
}

func (r *fakeInvitationRepo) MarkAccepted(ctx context.Context, id string) error {
	if inv, ok := r.invitations[id]; ok {
		inv.Status = "accepted"
	}
	return nil
}

func (r *fakeInvitationRepo) Delete(ctx context.Context, id string) error {
	delete(r.invitations, id)
	return nil
}

func (r *fakeInvitationRepo) DeleteExpired(ctx context.Context) (int, error) {
	n := 0
	for id, inv := range r.invitations {
		if inv.Status == "pending" && inv.ExpiresAt.Before(time.Now()) {
			delete(r.invitations, id)
			n++
		}
	}
	return n, nil
}
