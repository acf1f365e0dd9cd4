package handlers

import (
	"net/http"

	"github.com/bcabs/josephs-list/internal/api/middleware"
	"github.com/bcabs/josephs-list/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Profile Handler
// ============================================

type ProfileHandler struct {
	profileService service.ProfileService
}

type UpdateProfileRequest struct {
	FullName *string `json:"fullName"`
	Bio      *string `json:"bio"`
}

func (h *ProfileHandler) GetCurrentProfile(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetByID(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(profile))
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(profile))
}

func (h *ProfileHandler) UpdateCurrentProfile(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), userID, req.FullName, req.Bio)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(profile))
}
