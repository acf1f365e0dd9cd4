package handlers

import (
	"net/http"

	"github.com/bcabs/josephs-list/internal/api/middleware"
	"github.com/bcabs/josephs-list/internal/service"
	"github.com/gin-gonic/gin"
)

// Large photos are rejected up front rather than streamed to storage.
const maxImageSize = 10 << 20 // 10 MB

// ============================================
// Tool Handler
// ============================================

type ToolHandler struct {
	toolService service.ToolService
}

// CreateToolRequest represents the request body for listing a tool
type CreateToolRequest struct {
	Name        string  `json:"name" binding:"required,min=2"`
	Description string  `json:"description" binding:"required"`
	ImageURL    *string `json:"imageUrl"`
}

// UpdateToolRequest represents the request body for updating a tool
type UpdateToolRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}

// Create lists a new tool owned by the caller
func (h *ToolHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req CreateToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tool, err := h.toolService.Create(c.Request.Context(), userID, req.Name, req.Description, req.ImageURL)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tool)
}

// Get retrieves a tool the caller is allowed to see
func (h *ToolHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	tool, err := h.toolService.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tool)
}

// ListVisible lists every tool visible to the caller across their groups
func (h *ToolHandler) ListVisible(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	tools, err := h.toolService.ListVisible(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tools)
}

// ListByGroup lists tools owned by members of a group; member-only
func (h *ToolHandler) ListByGroup(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	tools, err := h.toolService.ListByGroup(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tools)
}

// ListByOwner lists a user's own tools
func (h *ToolHandler) ListByOwner(c *gin.Context) {
	if _, ok := middleware.RequireUserID(c); !ok {
		return
	}

	tools, err := h.toolService.ListByOwner(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tools)
}

// Update updates a tool; owner only
func (h *ToolHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req UpdateToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tool, err := h.toolService.Update(c.Request.Context(), c.Param("id"), userID, req.Name, req.Description, req.ImageURL)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, tool)
}

// Delete removes a tool; owner only
func (h *ToolHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.toolService.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tool deleted"})
}

// UploadImage accepts a multipart image and returns its public URL
func (h *ToolHandler) UploadImage(c *gin.Context) {
	if _, ok := middleware.RequireUserID(c); !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file required"})
		return
	}
	if fileHeader.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
		return
	}
	defer file.Close()

	url, err := h.toolService.UploadImage(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
