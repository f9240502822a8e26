package analysis

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/PabloGalante/fluid101/internal/domain"
)

// DefaultMaxImageBytes is the upload limit when none is configured.
const DefaultMaxImageBytes = 10 << 20

var acceptedTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

// Validate runs the upload-time checks. It returns the sniffed content type.
func Validate(data []byte, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	if int64(len(data)) > maxBytes {
		return "", errors.Wrapf(domain.ErrImageTooLarge, "%d bytes, limit %d", len(data), maxBytes)
	}
	if len(data) == 0 {
		return "", errors.Wrap(domain.ErrUnsupportedFormat, "empty upload")
	}

	contentType := http.DetectContentType(data)
	if !acceptedTypes[contentType] {
		return "", errors.Wrap(domain.ErrUnsupportedFormat, contentType)
	}
	return contentType, nil
}
