package gallery

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/alenjoby/studioaljo-core/internal/database"
	"github.com/alenjoby/studioaljo-core/internal/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	store storage.ObjectStore
}

func NewHandler(store storage.ObjectStore) *Handler {
	return &Handler{store: store}
}

type createItemDTO struct {
	UserID         string   `json:"userId"`
	StorageURL     string   `json:"storageUrl"`
	OriginalPrompt string   `json:"originalPrompt"`
	ToolType       ToolType `json:"toolType"`
	ThumbnailURL   *string  `json:"thumbnailUrl"`
	Metadata       Metadata `json:"metadata"`
}

type updateItemDTO struct {
	OriginalPrompt *string   `json:"originalPrompt"`
	IsFavorite     *bool     `json:"isFavorite"`
	ToolType       *ToolType `json:"toolType"`
}

// ListHandler returns a user's items, most recent first.
func (h *Handler) ListHandler(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	var items []Item
	if err := database.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(items),
		"images":  items,
	})
}

func (h *Handler) GetHandler(c *gin.Context) {
	var item Item
	if err := database.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "image": item})
}

func (h *Handler) CreateHandler(c *gin.Context) {
	var body createItemDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if body.UserID == "" || body.StorageURL == "" || body.OriginalPrompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId, storageUrl, and originalPrompt are required"})
		return
	}

	toolType := body.ToolType
	if toolType == "" {
		toolType = ToolOther
	}
	if !toolType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid toolType"})
		return
	}

	item := Item{
		UserID:         body.UserID,
		StorageURL:     body.StorageURL,
		ThumbnailURL:   body.ThumbnailURL,
		OriginalPrompt: body.OriginalPrompt,
		ToolType:       toolType,
		Metadata:       body.Metadata,
	}

	if err := database.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Image saved to gallery",
		"image":   item,
	})
}

func (h *Handler) UpdateHandler(c *gin.Context) {
	var item Item
	if err := database.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var body updateItemDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if body.ToolType != nil && !body.ToolType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid toolType"})
		return
	}

	if body.OriginalPrompt != nil {
		item.OriginalPrompt = *body.OriginalPrompt
	}
	if body.IsFavorite != nil {
		item.IsFavorite = *body.IsFavorite
	}
	if body.ToolType != nil {
		item.ToolType = *body.ToolType
	}

	if err := database.DB.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Image updated successfully",
		"image":   item,
	})
}

// DeleteHandler removes the item. The backing object is released best-effort:
// a storage failure is logged and the record is deleted anyway.
func (h *Handler) DeleteHandler(c *gin.Context) {
	var item Item
	if err := database.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Delete(c.Request.Context(), item.StorageURL); err != nil {
		log.Printf("storage delete error for item %s: %v", item.ID, err)
	}

	if err := database.DB.Delete(&Item{}, "id = ?", item.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Image deleted successfully",
	})
}

// DeleteByUserHandler bulk-deletes everything a user owns.
func (h *Handler) DeleteByUserHandler(c *gin.Context) {
	userID := c.Param("userId")

	var items []Item
	if err := database.DB.Where("user_id = ?", userID).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for _, item := range items {
		if err := h.store.Delete(c.Request.Context(), item.StorageURL); err != nil {
			log.Printf("storage delete error for item %s: %v", item.ID, err)
		}
	}

	res := database.DB.Where("user_id = ?", userID).Delete(&Item{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Deleted %d images", res.RowsAffected),
	})
}
