package cron

import (
	"context"
	"log"
	"time"

	"github.com/bcabs/josephs-list/internal/repository"
	"github.com/robfig/cron/v3"
)

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron           *cron.Cron
	profileRepo    repository.ProfileRepository
	invitationRepo repository.InvitationRepository
}

// NewScheduler creates a new scheduler
func NewScheduler(profileRepo repository.ProfileRepository, invitationRepo repository.InvitationRepository) *Scheduler {
	return &Scheduler{
		cron:           cron.New(),
		profileRepo:    profileRepo,
		invitationRepo: invitationRepo,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Run every day at 3 AM - purge expired refresh tokens
	s.cron.AddFunc("0 3 * * *", func() {
		log.Println("[Cron] Running refresh token cleanup...")
		s.cleanupExpiredRefreshTokens()
	})

	// Run every day at 3 AM - purge expired pending invitations
	s.cron.AddFunc("0 3 * * *", func() {
		log.Println("[Cron] Running invitation cleanup...")
		s.cleanupExpiredInvitations()
	})

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

func (s *Scheduler) cleanupExpiredRefreshTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := s.profileRepo.DeleteExpiredRefreshTokens(ctx)
	if err != nil {
		log.Printf("❌ [Cron] Refresh token cleanup failed: %v", err)
		return
	}
	log.Printf("✅ [Cron] Deleted %d expired refresh tokens", deleted)
}

func (s *Scheduler) cleanupExpiredInvitations() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	deleted, err := s.invitationRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ [Cron] Invitation cleanup failed: %v", err)
		return
	}
	log.Printf("✅ [Cron] Deleted %d expired invitations", deleted)
}
