package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/receipts/internal/common"
	"github.com/Veraticus/receipts/internal/model"
	"github.com/Veraticus/receipts/internal/service"
)

// ReaderWrapper decorates the file body, e.g. with a progress bar. size is the file size.
type ReaderWrapper func(r io.Reader, size int64) io.Reader

// Service validates local images, uploads them, and journals each attempt.
type Service struct {
	uploader service.Uploader
	journal  service.UploadJournal
}

// NewService creates an upload service. journal may be nil.
func NewService(uploader service.Uploader, journal service.UploadJournal) *Service {
	return &Service{
		uploader: uploader,
		journal:  journal,
	}
}

// UploadFile validates and uploads the image at path. Invalid files are rejected
// without touching the network.
func (s *Service) UploadFile(ctx context.Context, path string, wrap ReaderWrapper) (File, error) {
	f, err := Inspect(path)
	if err != nil {
		return f, err
	}

	if err := Validate(f); err != nil {
		s.record(ctx, f, model.UploadRejected, err)
		return f, err
	}

	fh, err := os.Open(f.Path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return f, fmt.Errorf("failed to open %s: %w", f.Path, err)
	}
	defer func() { _ = fh.Close() }()

	var body io.Reader = fh
	if wrap != nil {
		body = wrap(fh, f.Size)
	}

	if err := s.uploader.Upload(ctx, f.Name, body); err != nil {
		s.record(ctx, f, model.UploadFailed, err)
		return f, err
	}

	s.record(ctx, f, model.UploadSucceeded, nil)
	slog.Info("Uploaded receipt image", "file", f.Name, "size", f.Size)
	return f, nil
}

func (s *Service) record(ctx context.Context, f File, status model.UploadStatus, cause error) {
	if s.journal == nil {
		return
	}
	rec := &model.UploadRecord{
		CreatedAt:   time.Now(),
		FileName:    f.Name,
		ContentType: f.ContentType,
		SizeBytes:   f.Size,
		Status:      status,
	}
	switch {
	case cause == nil:
		rec.Message = SuccessMessage
	case errors.Is(cause, common.ErrValidation), errors.Is(cause, ErrMissingWebhook):
		rec.Message = cause.Error()
	default:
		rec.Message = common.UserMessage(cause, FailureMessage)
	}
	// Journal failures are logged, not returned.
	if err := s.journal.RecordUpload(context.WithoutCancel(ctx), rec); err != nil {
		slog.Warn("Failed to record upload", "file", f.Name, "error", err)
	}
}
