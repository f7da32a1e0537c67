package genai

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrNoImage means the call itself succeeded but the model produced no inline
// image, typically because safety filtering suppressed it or the model
// answered with text only. Callers must treat it differently from transport
// errors.
var ErrNoImage = errors.New("model returned no image")

type InlineImage struct {
	Data     []byte
	MimeType string
}

func (img *InlineImage) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", img.MimeType, base64.StdEncoding.EncodeToString(img.Data))
}

// ExtractImage probes the known response shapes in priority order (the
// candidates/content/parts path first, then a flat parts array) and returns
// the first inline-binary part, decoded.
func ExtractImage(resp *GenerateContentResponse) (*InlineImage, error) {
	for _, part := range responseParts(resp) {
		if part.InlineData == nil || part.InlineData.Data == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
		if err != nil {
			return nil, fmt.Errorf("decode inline data: %w", err)
		}
		mime := part.InlineData.MimeType
		if mime == "" {
			mime = "image/png"
		}
		return &InlineImage{Data: data, MimeType: mime}, nil
	}
	return nil, ErrNoImage
}

// ExtractText concatenates the text parts of the response. Empty output is an
// error so callers can fall back.
func ExtractText(resp *GenerateContentResponse) (string, error) {
	var sb strings.Builder
	for _, part := range responseParts(resp) {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", errors.New("model returned no text")
	}
	return text, nil
}

func responseParts(resp *GenerateContentResponse) []Part {
	if resp == nil {
		return nil
	}
	if len(resp.Candidates) > 0 && len(resp.Candidates[0].Content.Parts) > 0 {
		return resp.Candidates[0].Content.Parts
	}
	return resp.Parts
}
