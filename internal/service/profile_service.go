package service

import (
	"context"

	"github.com/bcabs/josephs-list/internal/repository"
)

// ============================================
// Profile Service
// ============================================

type ProfileService interface {
	GetByID(ctx context.Context, id string) (*repository.Profile, error)
	Update(ctx context.Context, id string, fullName, bio *string) (*repository.Profile, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

func (s *profileService) GetByID(ctx context.Context, id string) (*repository.Profile, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

func (s *profileService) Update(ctx context.Context, id string, fullName, bio *string) (*repository.Profile, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}

	if fullName != nil {
		profile.FullName = *fullName
	}
	if bio != nil {
		profile.Bio = bio
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	return profile, nil
}
