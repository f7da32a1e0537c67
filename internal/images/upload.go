package images

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
)

const maxUploadBytes = 20 << 20 // per file

var allowedMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

// upload is one validated image file, held in memory base64-encoded the way
// the model API wants it.
type upload struct {
	MimeType string
	B64      string
	Size     int
}

func readUpload(fh *multipart.FileHeader) (*upload, error) {
	if fh.Size > maxUploadBytes {
		return nil, fmt.Errorf("file %q exceeds the 20MB limit", fh.Filename)
	}

	mimeType := fh.Header.Get("Content-Type")
	if !allowedMimeTypes[mimeType] {
		return nil, fmt.Errorf("unsupported file type: %s. Use PNG, JPEG, or WEBP", mimeType)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxUploadBytes {
		return nil, fmt.Errorf("file %q exceeds the 20MB limit", fh.Filename)
	}

	return &upload{
		MimeType: mimeType,
		B64:      base64.StdEncoding.EncodeToString(data),
		Size:     len(data),
	}, nil
}
