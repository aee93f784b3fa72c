// Package storage provides the local persistence layer for the receipts client.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/receipts/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidStatus    = errors.New("invalid upload status")
	ErrInvalidUpload    = errors.New("invalid upload record")
	ErrNegativeFileSize = errors.New("file size cannot be negative")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateUploadRecord validates a journal entry before it is written.
func validateUploadRecord(rec *model.UploadRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: upload record", ErrNilParameter)
	}
	if strings.TrimSpace(rec.FileName) == "" {
		return fmt.Errorf("%w: file name is required", ErrInvalidUpload)
	}
	if rec.SizeBytes < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidUpload, ErrNegativeFileSize)
	}
	switch rec.Status {
	case model.UploadSucceeded, model.UploadFailed, model.UploadRejected:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, rec.Status)
	}
	return nil
}
