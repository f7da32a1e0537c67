package gallery

import (
	"context"
	"fmt"

	"github.com/alenjoby/studioaljo-core/internal/database"
	"github.com/alenjoby/studioaljo-core/internal/storage"
	"github.com/gosimple/slug"
)

// Sink catalogs a generated image: upload the bytes to object storage under
// the user's prefix, then record a gallery item pointing at the public URL.
// Callers run it best-effort; an error here must never fail the generation
// response that produced the image.
type Sink struct {
	Store storage.ObjectStore
}

func NewSink(store storage.ObjectStore) *Sink {
	return &Sink{Store: store}
}

type SaveRequest struct {
	UserID     string
	Data       []byte
	MimeType   string
	Prompt     string
	ToolType   ToolType
	AIAnalysis string
}

func (s *Sink) Save(ctx context.Context, req SaveRequest) (string, error) {
	toolType := req.ToolType
	if !toolType.Valid() {
		toolType = ToolOther
	}

	publicURL, err := s.Store.Upload(ctx, req.Data, req.UserID, req.MimeType, slug.Make(string(toolType)))
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}

	item := Item{
		UserID:         req.UserID,
		StorageURL:     publicURL,
		OriginalPrompt: req.Prompt,
		ToolType:       toolType,
		Metadata: Metadata{
			MimeType:   req.MimeType,
			FileSize:   len(req.Data),
			AIAnalysis: req.AIAnalysis,
		},
	}

	if err := database.DB.WithContext(ctx).Create(&item).Error; err != nil {
		return "", fmt.Errorf("record item: %w", err)
	}

	return item.ID, nil
}
