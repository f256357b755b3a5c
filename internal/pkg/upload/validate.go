package upload

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ruangtulis/ruangtulis/internal/pkg/shortener"
)

// MaxUploadBytes is the upload size ceiling (5 MiB).
const MaxUploadBytes = 5 * 1024 * 1024

const slugLength = 8

var (
	ErrNotAnImage = errors.New("file must be an image")
	ErrTooLarge   = errors.New("file exceeds the 5 MiB upload limit")
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// Validate checks an upload's declared content type and size. Anything
// failing here is a client error, never retried.
func Validate(contentType string, size int64) error {
	if !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}
	if size > MaxUploadBytes {
		return ErrTooLarge
	}
	return nil
}

// Filename builds a practically unique name for an uploaded file:
// unix-millis timestamp, a short random Base62 suffix, and the original
// name with whitespace collapsed to dashes. No coordination between
// concurrent uploaders is needed beyond this.
func Filename(original string) (string, error) {
	slug, err := shortener.GenerateSecureSlug(slugLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate filename suffix: %w", err)
	}
	sanitized := whitespacePattern.ReplaceAllString(strings.TrimSpace(original), "-")
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), slug, sanitized), nil
}
