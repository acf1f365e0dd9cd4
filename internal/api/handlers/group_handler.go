package handlers

import (
	"net/http"

	"github.com/bcabs/josephs-list/internal/api/middleware"
	"github.com/bcabs/josephs-list/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Group Handler
// ============================================

type GroupHandler struct {
	groupService service.GroupService
}

// CreateGroupRequest represents the request body for creating a group
type CreateGroupRequest struct {
	Name        string  `json:"name" binding:"required,min=2"`
	Description *string `json:"description"`
}

// UpdateGroupRequest represents the request body for updating a group
type UpdateGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// InviteMemberRequest represents the request body for inviting a member
type InviteMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Create creates a new group with the caller as admin
func (h *GroupHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

// Get retrieves a group by ID; member-only
func (h *GroupHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	groupID := c.Param("id")

	isMember, err := h.groupService.IsMember(c.Request.Context(), groupID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !isMember {
		// Don't reveal whether the group exists
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	group, err := h.groupService.GetByID(c.Request.Context(), groupID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// ListMyGroups lists all groups the current user belongs to
func (h *GroupHandler) ListMyGroups(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	groups, err := h.groupService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

// Update updates group details; admin-only
func (h *GroupHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	groupID := c.Param("id")

	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.groupService.Update(c.Request.Context(), groupID, userID, req.Name, req.Description)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, group)
}

// ListMembers lists the members of a group; member-only
func (h *GroupHandler) ListMembers(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	groupID := c.Param("id")

	isMember, err := h.groupService.IsMember(c.Request.Context(), groupID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !isMember {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}

	members, err := h.groupService.ListMembers(c.Request.Context(), groupID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// InviteMember invites a user to the group by email; admin-only.
// Existing accounts are added immediately, unknown emails get a pending
// invitation claimed at registration.
func (h *GroupHandler) InviteMember(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}
	groupID := c.Param("id")

	var req InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pending, err := h.groupService.InviteByEmail(c.Request.Context(), groupID, req.Email, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if pending {
		c.JSON(http.StatusAccepted, gin.H{"message": "Invitation sent", "pending": true})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Member added", "pending": false})
}
