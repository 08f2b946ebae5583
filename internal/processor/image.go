package processor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// SupportedExtensions lists the screenshot formats the pipeline decodes.
var SupportedExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".gif", ".tif", ".tiff"}

// IsImageFile checks if the file has a supported image extension
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedExtensions {
		if ext == format {
			return true
		}
	}
	return false
}

// imageWidth reads only the header to find the pixel width.
func imageWidth(data []byte) (int, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= 0 {
		return 0, fmt.Errorf("decode image: %s has width %d", format, cfg.Width)
	}
	return cfg.Width, nil
}
