package handlers

import (
	"net/http"
	"strings"

	"github.com/bcabs/josephs-list/internal/api/middleware"
	"github.com/bcabs/josephs-list/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Invitation Handler
// ============================================

type InvitationHandler struct {
	invitationService service.InvitationService
	profileService    service.ProfileService
}

// ListPending lists pending invitations for the caller's own email
func (h *InvitationHandler) ListPending(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetByID(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		email = strings.ToLower(profile.Email)
	}
	// Invitations are private to the invited address
	if email != strings.ToLower(profile.Email) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	invitations, err := h.invitationService.ListPendingByEmail(c.Request.Context(), email)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invitations)
}

// ListPendingByGroup lists a group's outstanding invitations; admin-only
func (h *InvitationHandler) ListPendingByGroup(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	invitations, err := h.invitationService.ListPendingByGroup(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invitations)
}
