// Package service contains application services that sit between handlers
// and supporting infrastructure.
package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"nexafolio/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	maxUploadBytes = 10 * 1024 * 1024
	maxDimension   = 2048
	webpQuality    = 80
)

// ImageService validates uploaded images, normalizes them to WebP and
// stores them under a local upload directory served as /uploads.
type ImageService struct {
	uploadDir string
}

// NewImageService creates an ImageService writing into uploadDir.
func NewImageService(uploadDir string) *ImageService {
	return &ImageService{uploadDir: uploadDir}
}

// Store decodes content, scales it down to fit 2048px, re-encodes as
// WebP under a content-addressed filename and returns the public URL
// path. Errors are AppError kinds the handler can translate directly.
func (s *ImageService) Store(content []byte) (string, error) {
	if len(content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if len(content) > maxUploadBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", maxUploadBytes/(1024*1024)))
	}

	if detected := http.DetectContentType(content); !isAllowedImageMIME(detected) {
		return "", models.NewValidationError("Invalid image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}

	scaled := resizeToFit(decoded, maxDimension)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, scaled, &webp.Options{Quality: webpQuality}); err != nil {
		return "", models.NewInternalError(err)
	}

	sum := sha256.Sum256(buf.Bytes())
	name := hex.EncodeToString(sum[:16]) + ".webp"

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", models.NewInternalError(err)
	}
	path := filepath.Join(s.uploadDir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return "", models.NewInternalError(err)
		}
	}

	return "/uploads/" + name, nil
}

func isAllowedImageMIME(mime string) bool {
	switch mime {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}

// resizeToFit scales img down so both dimensions fit within max,
// preserving aspect ratio. Images already within bounds pass through.
func resizeToFit(img image.Image, max int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return img
	}

	scale := float64(max) / float64(w)
	if h > w {
		scale = float64(max) / float64(h)
	}
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
