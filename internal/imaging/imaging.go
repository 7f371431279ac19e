package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"net/http"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxUploadBytes is the largest photo accepted (2.5 MiB). Photos are stored
// inline in the plant collection, so this bounds how fast it grows.
const MaxUploadBytes = 5 << 19

// ErrTooLarge is returned for photos over MaxUploadBytes.
var ErrTooLarge = errors.New("photo too large")

// RenderableMIME lists the data URL types the UI will use as an image source.
// Uploads of any other type are still stored, just not displayed.
var RenderableMIME = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/bmp":     true,
	"image/avif":    true,
	"image/heic":    true,
	"image/heif":    true,
	"image/svg+xml": true,
}

// Upload is a photo encoded for storage.
type Upload struct {
	DataURL string
	MIME    string
	Size    int
	// Width and Height are zero when no registered decoder reads the format
	// (HEIC, AVIF, SVG and anything that isn't an image).
	Width  int
	Height int
}

// Encode reads a photo and returns it as a base64 data URL.
//
// size is the declared size of the upload; anything over MaxUploadBytes is
// rejected before r is read. A body longer than declared is rejected too.
// contentType is the type the client declared, used when the bytes don't
// sniff as an image. The bytes are stored as uploaded, without re-encoding.
func Encode(r io.Reader, size int64, contentType string) (Upload, error) {
	if size > MaxUploadBytes {
		return Upload{}, ErrTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return Upload{}, fmt.Errorf("reading photo: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return Upload{}, ErrTooLarge
	}

	up := Upload{
		MIME: detectType(data, contentType),
		Size: len(data),
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		up.Width, up.Height = cfg.Width, cfg.Height
	}
	up.DataURL = "data:" + up.MIME + ";base64," + base64.StdEncoding.EncodeToString(data)
	return up, nil
}

// detectType prefers the sniffed type when it is an image and falls back to
// the declared one, since http.DetectContentType knows neither HEIC nor SVG.
func detectType(data []byte, declared string) string {
	sniffed := mediaType(http.DetectContentType(data))
	if strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	if d := mediaType(declared); d != "" && d != "application/octet-stream" {
		return d
	}
	if sniffed == "" {
		return "application/octet-stream"
	}
	return sniffed
}

func mediaType(s string) string {
	mt, _, err := mime.ParseMediaType(s)
	if err != nil {
		return ""
	}
	return mt
}

// IsDataURL reports whether s is a base64 data URL of a renderable image type.
// Only such values are rendered as image sources.
func IsDataURL(s string) bool {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return false
	}
	mt, _, ok := strings.Cut(rest, ";base64,")
	return ok && RenderableMIME[mt]
}
