package service

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/bcabs/josephs-list/internal/db"
	"github.com/bcabs/josephs-list/internal/repository"
	"github.com/bcabs/josephs-list/internal/storage"
)

// Tool listings change rarely; visibility also shifts when memberships
// change, so cached listings stay short-lived.
const toolCacheTTL = time.Minute

// ============================================
// Tool Service
// ============================================

// ToolService defines tool listing operations. Visibility is
// membership-derived: a tool can be seen by its owner and by anyone who
// shares a group with the owner.
type ToolService interface {
	Create(ctx context.Context, ownerID, name, description string, imageURL *string) (*repository.Tool, error)
	GetByID(ctx context.Context, id, viewerID string) (*repository.Tool, error)
	ListVisible(ctx context.Context, userID string) ([]*repository.Tool, error)
	ListByGroup(ctx context.Context, groupID, viewerID string) ([]*repository.Tool, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*repository.Tool, error)
	Update(ctx context.Context, id, ownerID string, name, description, imageURL *string) (*repository.Tool, error)
	Delete(ctx context.Context, id, ownerID string) error
	UploadImage(ctx context.Context, fileName string, r io.Reader) (string, error)
}

type toolService struct {
	toolRepo  repository.ToolRepository
	groupRepo repository.GroupRepository
	cache     *db.RedisDB
	store     *storage.Store
}

// NewToolService creates a new tool service
func NewToolService(
	toolRepo repository.ToolRepository,
	groupRepo repository.GroupRepository,
	cache *db.RedisDB,
	store *storage.Store,
) ToolService {
	return &toolService{
		toolRepo:  toolRepo,
		groupRepo: groupRepo,
		cache:     cache,
		store:     store,
	}
}

func (s *toolService) Create(ctx context.Context, ownerID, name, description string, imageURL *string) (*repository.Tool, error) {
	// Listing requires at least one group membership, otherwise nobody
	// could ever see the tool.
	count, err := s.groupRepo.CountByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNoMembership
	}

	tool := &repository.Tool{
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
		OwnerID:     ownerID,
	}

	if err := s.toolRepo.Create(ctx, tool); err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)
	return tool, nil
}

func (s *toolService) GetByID(ctx context.Context, id, viewerID string) (*repository.Tool, error) {
	tool, err := s.toolRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tool == nil {
		return nil, ErrNotFound
	}

	// Hide tools outside the viewer's groups entirely
	if tool.OwnerID != viewerID {
		shared, err := s.groupRepo.ShareGroup(ctx, viewerID, tool.OwnerID)
		if err != nil {
			return nil, err
		}
		if !shared {
			return nil, ErrNotFound
		}
	}

	return tool, nil
}

func (s *toolService) ListVisible(ctx context.Context, userID string) ([]*repository.Tool, error) {
	cacheKey := "tools:user:" + userID
	if s.cache != nil {
		var cached []*repository.Tool
		if err := s.cache.GetCache(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	tools, err := s.toolRepo.FindVisibleToUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCache(ctx, cacheKey, tools, toolCacheTTL); err != nil {
			log.Printf("[Tool] Failed to cache listing for %s: %v", userID, err)
		}
	}
	return tools, nil
}

func (s *toolService) ListByGroup(ctx context.Context, groupID, viewerID string) ([]*repository.Tool, error) {
	// Group listings are member-only
	isMember, err := s.groupRepo.IsMember(ctx, groupID, viewerID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrForbidden
	}

	return s.toolRepo.FindByGroup(ctx, groupID)
}

func (s *toolService) ListByOwner(ctx context.Context, ownerID string) ([]*repository.Tool, error) {
	return s.toolRepo.FindByOwner(ctx, ownerID)
}

func (s *toolService) Update(ctx context.Context, id, ownerID string, name, description, imageURL *string) (*repository.Tool, error) {
	tool, err := s.toolRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tool == nil {
		return nil, ErrNotFound
	}
	if tool.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	if name != nil {
		tool.Name = *name
	}
	if description != nil {
		tool.Description = *description
	}
	if imageURL != nil {
		tool.ImageURL = imageURL
	}

	if err := s.toolRepo.Update(ctx, tool); err != nil {
		return nil, err
	}

	s.invalidateListings(ctx)
	return tool, nil
}

func (s *toolService) Delete(ctx context.Context, id, ownerID string) error {
	tool, err := s.toolRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if tool == nil {
		return ErrNotFound
	}
	if tool.OwnerID != ownerID {
		return ErrForbidden
	}

	if err := s.toolRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateListings(ctx)
	return nil
}

func (s *toolService) UploadImage(ctx context.Context, fileName string, r io.Reader) (string, error) {
	return s.store.UploadImage(fileName, r)
}

func (s *toolService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCache(ctx, "tools:*"); err != nil {
		log.Printf("[Tool] Failed to invalidate listing cache: %v", err)
	}
}
