package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bcabs/josephs-list/internal/config"
	"github.com/bcabs/josephs-list/internal/email"
	"github.com/bcabs/josephs-list/internal/repository"
)

// ============================================
// Group Service
// ============================================

// GroupService defines group and membership operations
type GroupService interface {
	Create(ctx context.Context, userID, name string, description *string) (*repository.Group, error)
	GetByID(ctx context.Context, id string) (*repository.Group, error)
	ListByUser(ctx context.Context, userID string) ([]*repository.Group, error)
	Update(ctx context.Context, id, userID string, name, description *string) (*repository.Group, error)

	// Member operations
	ListMembers(ctx context.Context, groupID string) ([]*repository.GroupMember, error)
	InviteByEmail(ctx context.Context, groupID, userEmail, inviterID string) (pending bool, err error)
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}

type groupService struct {
	cfg            *config.Config
	groupRepo      repository.GroupRepository
	profileRepo    repository.ProfileRepository
	invitationRepo repository.InvitationRepository
	emailSvc       *email.Service
}

// NewGroupService creates a new group service
func NewGroupService(
	cfg *config.Config,
	groupRepo repository.GroupRepository,
	profileRepo repository.ProfileRepository,
	invitationRepo repository.InvitationRepository,
	emailSvc *email.Service,
) GroupService {
	return &groupService{
		cfg:            cfg,
		groupRepo:      groupRepo,
		profileRepo:    profileRepo,
		invitationRepo: invitationRepo,
		emailSvc:       emailSvc,
	}
}

// Create inserts the group and its creator's admin membership atomically:
// a failed membership insert must never leave an adminless group behind.
func (s *groupService) Create(ctx context.Context, userID, name string, description *string) (*repository.Group, error) {
	group := &repository.Group{
		Name:        name,
		Description: description,
		AdminID:     userID,
	}

	if err := s.groupRepo.CreateWithAdmin(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

func (s *groupService) GetByID(ctx context.Context, id string) (*repository.Group, error) {
	group, err := s.groupRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrNotFound
	}

	// Load members
	members, _ := s.groupRepo.FindMembers(ctx, id)
	group.Members = members

	return group, nil
}

func (s *groupService) ListByUser(ctx context.Context, userID string) ([]*repository.Group, error) {
	return s.groupRepo.FindByUserID(ctx, userID)
}

func (s *groupService) Update(ctx context.Context, id, userID string, name, description *string) (*repository.Group, error) {
	group, err := s.groupRepo.FindByID(ctx, id)
	if err != nil || group == nil {
		return nil, ErrNotFound
	}

	// Check permission (admin role)
	member, _ := s.groupRepo.FindMember(ctx, id, userID)
	if member == nil || member.Role != "admin" {
		return nil, ErrForbidden
	}

	if name != nil {
		group.Name = *name
	}
	if description != nil {
		group.Description = description
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

func (s *groupService) ListMembers(ctx context.Context, groupID string) ([]*repository.GroupMember, error) {
	return s.groupRepo.FindMembers(ctx, groupID)
}

// InviteByEmail adds an existing account straight into the group, or
// records a pending invitation when the email has no account yet. Returns
// pending=true in the latter case.
func (s *groupService) InviteByEmail(ctx context.Context, groupID, userEmail, inviterID string) (bool, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil || group == nil {
		return false, ErrNotFound
	}

	// Only admins invite
	inviter, _ := s.groupRepo.FindMember(ctx, groupID, inviterID)
	if inviter == nil || inviter.Role != "admin" {
		return false, ErrForbidden
	}

	profile, err := s.profileRepo.FindByEmail(ctx, userEmail)
	if err != nil {
		return false, err
	}

	if profile != nil {
		member := &repository.GroupMember{
			GroupID: groupID,
			UserID:  profile.ID,
			Role:    "member",
		}
		if err := s.groupRepo.AddMember(ctx, member); err != nil {
			if repository.IsUniqueViolation(err) {
				return false, ErrAlreadyMember
			}
			return false, err
		}
		return false, nil
	}

	// No account for this email: record a pending invitation instead
	existing, err := s.invitationRepo.FindPendingByGroupAndEmail(ctx, groupID, userEmail)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, ErrAlreadyInvited
	}

	invitation := &repository.Invitation{
		Email:     userEmail,
		GroupID:   groupID,
		InvitedBy: inviterID,
		ExpiresAt: time.Now().Add(24 * time.Hour * time.Duration(s.cfg.InviteExpiryDays)),
	}
	if err := s.invitationRepo.Create(ctx, invitation); err != nil {
		if repository.IsUniqueViolation(err) {
			return false, ErrAlreadyInvited
		}
		return false, err
	}

	// Invitation email is best-effort
	if s.emailSvc != nil {
		invitedBy := ""
		if p, _ := s.profileRepo.FindByID(ctx, inviterID); p != nil {
			invitedBy = p.FullName
		}
		if err := s.emailSvc.SendGroupInvitation(userEmail, email.GroupInvitationData{
			GroupName: group.Name,
			InvitedBy: invitedBy,
			InviteURL: fmt.Sprintf("%s/login?invite=%s", s.cfg.FrontendURL, invitation.Token),
		}); err != nil {
			log.Printf("[Group] Failed to send invitation email to %s: %v", userEmail, err)
		}
	}

	return true, nil
}

func (s *groupService) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	return s.groupRepo.IsMember(ctx, groupID, userID)
}
