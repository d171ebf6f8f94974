package objectkey

import (
	"beat-ingest/internal/core/domain"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// AudioMimeTypes is a whitelist of supported audio MIME types and their extensions.
var AudioMimeTypes = map[string][]string{
	"audio/wav":    {".wav"},
	"audio/x-wav":  {".wav"},
	"audio/wave":   {".wav"},
	"audio/mpeg":   {".mp3"},
	"audio/flac":   {".flac"},
	"audio/x-flac": {".flac"},
	"audio/aiff":   {".aif", ".aiff"},
	"audio/x-aiff": {".aif", ".aiff"},
	"audio/aac":    {".aac"},
	"audio/mp4":    {".m4a"},
	"audio/x-m4a":  {".m4a"},
	"audio/ogg":    {".ogg", ".oga"},
}

// ImageMimeTypes is a whitelist of supported image MIME types and their extensions.
var ImageMimeTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/webp": {".webp"},
}

// ValidateMedia checks that contentType and the extension of fileName are allowed for category.
// It returns the normalized MIME type.
func ValidateMedia(category domain.Category, fileName, contentType string) (string, error) {
	mimeType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: invalid content type %q", domain.ErrInvalidFileType, contentType)
	}
	mimeType = strings.ToLower(mimeType)

	var allowed map[string][]string
	switch category {
	case domain.CategoryAudio:
		allowed = AudioMimeTypes
	case domain.CategoryImage, domain.CategoryProfileImage, domain.CategoryArtwork:
		allowed = ImageMimeTypes
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}

	exts, ok := allowed[mimeType]
	if !ok {
		return "", fmt.Errorf("%w: %s is not allowed for %s", domain.ErrInvalidFileType, mimeType, category)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		return "", fmt.Errorf("%w: no file extension found", domain.ErrInvalidFileType)
	}
	for _, e := range exts {
		if ext == e {
			return mimeType, nil
		}
	}
	return "", fmt.Errorf("%w: extension %s is not allowed (expected one of: %v)", domain.ErrInvalidFileType, ext, exts)
}
