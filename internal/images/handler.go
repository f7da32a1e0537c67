package images

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/alenjoby/studioaljo-core/internal/gallery"
	"github.com/alenjoby/studioaljo-core/internal/genai"
	"github.com/gin-gonic/gin"
)

// Handler runs the generation pipelines: validate, ground, fuse, normalize,
// and catalog the result best-effort.
type Handler struct {
	ai   genai.Generator
	sink *gallery.Sink
}

func NewHandler(ai genai.Generator, sink *gallery.Sink) *Handler {
	return &Handler{ai: ai, sink: sink}
}

// OutfitTryOnHandler composites a person photo with an outfit photo through a
// two-stage model call: a grounding pass that describes the garment in text,
// then a fusion pass that generates the final image. Grounding degrades to a
// fixed description; fusion failure is terminal.
func (h *Handler) OutfitTryOnHandler(c *gin.Context) {
	personHeader, personErr := c.FormFile("personImage")
	outfitHeader, outfitErr := c.FormFile("outfitImage")
	if personErr != nil || outfitErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both 'personImage' and 'outfitImage' are required."})
		return
	}

	person, err := readUpload(personHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	outfit, err := readUpload(outfitHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.PostForm("userId")
	saveToGallery := c.PostForm("saveToGallery") == "true"

	ctx := c.Request.Context()

	outfitDescription := h.groundOutfit(ctx, outfit)
	log.Printf("outfit grounding complete: %s", truncate(outfitDescription, 50))

	fusionPrompt := buildFusionPrompt(outfitDescription)
	contents := []genai.Content{{Parts: []genai.Part{
		genai.TextPart(fusionPrompt),
		genai.ImagePart(person.MimeType, person.B64),
		genai.ImagePart(outfit.MimeType, outfit.B64),
	}}}

	resp, err := h.ai.GenerateContent(ctx, genai.ModelImage, contents, &genai.GenerationConfig{
		ResponseModalities: []string{"IMAGE"},
	})
	if err != nil {
		log.Printf("fusion call failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	img, err := genai.ExtractImage(resp)
	if err != nil {
		if errors.Is(err, genai.ErrNoImage) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Generation failed. The model might have blocked the request."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	galleryID := h.saveToGallery(userID, saveToGallery, img, gallery.SaveRequest{
		Prompt:     fusionPrompt,
		ToolType:   gallery.ToolOutfitTryOn,
		AIAnalysis: outfitDescription,
	})

	c.JSON(http.StatusOK, gin.H{
		"dataUrl":    img.DataURL(),
		"mime":       img.MimeType,
		"aiAnalysis": outfitDescription,
		"galleryId":  galleryID,
	})
}

// EditHandler applies a free-form prompt to a single uploaded image.
func (h *Handler) EditHandler(c *gin.Context) {
	prompt := c.PostForm("prompt")
	fileHeader, fileErr := c.FormFile("image")
	if fileErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}
	if prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required"})
		return
	}

	img, err := readUpload(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.PostForm("userId")
	saveToGallery := c.PostForm("saveToGallery") == "true"

	contents := []genai.Content{{Parts: []genai.Part{
		genai.TextPart(prompt),
		genai.ImagePart(img.MimeType, img.B64),
	}}}

	resp, err := h.ai.GenerateContent(c.Request.Context(), genai.ModelImage, contents, nil)
	if err != nil {
		log.Printf("edit call failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out, err := genai.ExtractImage(resp)
	if err != nil {
		if errors.Is(err, genai.ErrNoImage) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Model returned text instead of an image."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	galleryID := h.saveToGallery(userID, saveToGallery, out, gallery.SaveRequest{
		Prompt:   prompt,
		ToolType: gallery.ToolStyling,
	})

	c.JSON(http.StatusOK, gin.H{
		"dataUrl":   out.DataURL(),
		"mime":      out.MimeType,
		"galleryId": galleryID,
	})
}

// groundOutfit asks the text model to describe the garment. The description
// is an enhancement to the fusion prompt, not a correctness requirement, so
// every failure path degrades to the fixed fallback.
func (h *Handler) groundOutfit(ctx context.Context, outfit *upload) string {
	contents := []genai.Content{{Parts: []genai.Part{
		genai.TextPart(groundingPrompt),
		genai.ImagePart(outfit.MimeType, outfit.B64),
	}}}

	resp, err := h.ai.GenerateContent(ctx, genai.ModelText, contents, nil)
	if err != nil {
		log.Printf("grounding degraded, using fallback: %v", err)
		return fallbackOutfitDescription
	}

	text, err := genai.ExtractText(resp)
	if err != nil {
		log.Printf("grounding degraded, using fallback: %v", err)
		return fallbackOutfitDescription
	}
	return text
}

// saveToGallery catalogs the generated image when the caller opted in. It is
// strictly best-effort: every failure is logged and the response proceeds
// with a null gallery id. A detached context keeps a client disconnect from
// aborting a half-finished upload.
func (h *Handler) saveToGallery(userID string, optIn bool, img *genai.InlineImage, req gallery.SaveRequest) interface{} {
	if userID == "" || !optIn {
		return nil
	}

	req.UserID = userID
	req.Data = img.Data
	req.MimeType = img.MimeType

	id, err := h.sink.Save(context.Background(), req)
	if err != nil {
		log.Printf("gallery save error: %v", err)
		return nil
	}
	log.Printf("image saved to gallery: %s", id)
	return id
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
