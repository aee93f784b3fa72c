// Package upload sends receipt images to the ingestion webhook.
package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/receipts/internal/common"
	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize is the largest image accepted for upload.
const MaxImageSize = 10 << 20

// User-facing validation messages.
const (
	NotImageMessage = "Please select a valid image file"
	TooLargeMessage = "Image size must be less than 10MB"
)

// File describes a local image picked for upload.
type File struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
}

// Inspect stats path and determines its content type from the first bytes of
// the file, falling back to the extension when the content is not a known image.
func Inspect(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, common.NewValidationError("file", NotImageMessage)
	}

	f := File{
		Path: path,
		Name: filepath.Base(path),
		Size: info.Size(),
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	f.ContentType = detected.String()
	if !isImage(f.ContentType) {
		if byExt := TypeByExtension(f.Name); byExt != "" {
			f.ContentType = byExt
		}
	}
	return f, nil
}

// TypeByExtension returns the media type for name's extension, or "" when unknown.
func TypeByExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	return mime.TypeByExtension(ext)
}

// detectReader reports the media type of body and returns a reader that
// still yields every byte of it.
func detectReader(body io.Reader) (string, io.Reader, error) {
	var head bytes.Buffer
	detected, err := mimetype.DetectReader(io.TeeReader(body, &head))
	if err != nil {
		return "", nil, err
	}
	return detected.String(), io.MultiReader(&head, body), nil
}

func isImage(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && strings.HasPrefix(mediaType, "image/")
}

// Validate rejects anything that is not an image or is larger than MaxImageSize.
func Validate(f File) error {
	if !isImage(f.ContentType) {
		return common.NewValidationError("file", NotImageMessage)
	}
	if f.Size > MaxImageSize {
		return common.NewValidationError("file", TooLargeMessage)
	}
	return nil
}
