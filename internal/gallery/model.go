package gallery

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ToolType string

const (
	ToolStyling         ToolType = "ai-styling"
	ToolRoomMakeover    ToolType = "room-makeover"
	ToolMemeMaker       ToolType = "meme-maker"
	ToolAvatar          ToolType = "ai-avatar"
	ToolOutfitTryOn     ToolType = "outfit-tryon"
	ToolBackgroundErase ToolType = "background-erase"
	ToolOther           ToolType = "other"
)

func (t ToolType) Valid() bool {
	switch t {
	case ToolStyling, ToolRoomMakeover, ToolMemeMaker, ToolAvatar,
		ToolOutfitTryOn, ToolBackgroundErase, ToolOther:
		return true
	}
	return false
}

type Metadata struct {
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	MimeType   string `json:"mimeType,omitempty" gorm:"column:mime_type"`
	FileSize   int    `json:"fileSize,omitempty"`
	AIAnalysis string `json:"aiAnalysis,omitempty" gorm:"column:ai_analysis"`
}

// Item is one generated image in a user's gallery.
type Item struct {
	ID             string   `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         string   `json:"userId" gorm:"size:64;not null;index:idx_gallery_user_created"`
	StorageURL     string   `json:"storageUrl" gorm:"not null"`
	ThumbnailURL   *string  `json:"thumbnailUrl"`
	OriginalPrompt string   `json:"originalPrompt" gorm:"not null"`
	ToolType       ToolType `json:"toolType" gorm:"size:32;default:other"`
	Metadata       Metadata `json:"metadata" gorm:"embedded;embeddedPrefix:meta_"`
	IsFavorite     bool     `json:"isFavorite" gorm:"default:false"`

	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_gallery_user_created,sort:desc"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
