package handlers

import (
	"net/http"
	"time"

	"github.com/bcabs/josephs-list/internal/repository"
	"github.com/bcabs/josephs-list/internal/service"
	"github.com/gin-gonic/gin"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth       *AuthHandler
	Profile    *ProfileHandler
	Group      *GroupHandler
	Tool       *ToolHandler
	Invitation *InvitationHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:       &AuthHandler{authService: services.Auth, profileService: services.Profile},
		Profile:    &ProfileHandler{profileService: services.Profile},
		Group:      &GroupHandler{groupService: services.Group},
		Tool:       &ToolHandler{toolService: services.Tool},
		Invitation: &InvitationHandler{invitationService: services.Invitation, profileService: services.Profile},
	}
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(c *gin.Context, err error) {
	switch err {
	case service.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case service.ErrUserNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case service.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case service.ErrForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case service.ErrInvalidCredentials:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case service.ErrInvalidToken:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	case service.ErrUserExists:
		c.JSON(http.StatusConflict, gin.H{"error": "A user with this email already exists"})
	case service.ErrAlreadyMember:
		c.JSON(http.StatusConflict, gin.H{"error": "User is already a member of this group"})
	case service.ErrAlreadyInvited:
		c.JSON(http.StatusConflict, gin.H{"error": "An invitation for this email is already pending"})
	case service.ErrNoMembership:
		c.JSON(http.StatusForbidden, gin.H{"error": "Join a group before listing tools"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// ============================================
// Response Mappers
// ============================================

type ProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Bio       *string   `json:"bio,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toProfileResponse(p *repository.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		Bio:       p.Bio,
		CreatedAt: p.CreatedAt,
	}
}
