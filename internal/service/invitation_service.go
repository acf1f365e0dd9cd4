package service

import (
	"context"

	"github.com/bcabs/josephs-list/internal/repository"
)

// ============================================
// Invitation Service
// ============================================

// InvitationService exposes pending invitations for review.
type InvitationService interface {
	ListPendingByEmail(ctx context.Context, email string) ([]*repository.Invitation, error)
	ListPendingByGroup(ctx context.Context, groupID, requesterID string) ([]*repository.Invitation, error)
}

type invitationService struct {
	invitationRepo repository.InvitationRepository
	groupRepo      repository.GroupRepository
}

// NewInvitationService creates a new invitation service
func NewInvitationService(
	invitationRepo repository.InvitationRepository,
	groupRepo repository.GroupRepository,
) InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		groupRepo:      groupRepo,
	}
}

func (s *invitationService) ListPendingByEmail(ctx context.Context, email string) ([]*repository.Invitation, error) {
	return s.invitationRepo.FindPendingByEmail(ctx, email)
}

func (s *invitationService) ListPendingByGroup(ctx context.Context, groupID, requesterID string) ([]*repository.Invitation, error) {
	member, err := s.groupRepo.FindMember(ctx, groupID, requesterID)
	if err != nil {
		return nil, err
	}
	if member == nil || member.Role != "admin" {
		return nil, ErrForbidden
	}

	return s.invitationRepo.FindPendingByGroup(ctx, groupID)
}
