package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/Veraticus/receipts/internal/common"
	"github.com/google/uuid"
)

// Upload outcome messages.
const (
	SuccessMessage = "Receipt uploaded successfully!"
	FailureMessage = "Failed to upload receipt. Please try again."
)

// FormField is the multipart field carrying the image.
const FormField = "file"

// DefaultTimeout bounds one upload. The webhook parses the receipt before answering.
const DefaultTimeout = 2 * time.Minute

const maxResponseBody = 64 << 10

// ErrMissingWebhook means no ingestion webhook URL is configured.
var ErrMissingWebhook = fmt.Errorf("%w: upload webhook URL is not set", common.ErrMissingConfig)

// Client posts images to the ingestion webhook.
type Client struct {
	httpClient *http.Client
	webhookURL string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the upload timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient creates a client for webhookURL. An empty URL is accepted here and
// reported as ErrMissingWebhook on first use.
func NewClient(webhookURL string, opts ...Option) *Client {
	c := &Client{
		webhookURL: strings.TrimSpace(webhookURL),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a webhook URL is set.
func (c *Client) Configured() bool {
	return c.webhookURL != ""
}

// Upload streams body as a multipart form to the webhook.
func (c *Client) Upload(ctx context.Context, fileName string, body io.Reader) error {
	if !c.Configured() {
		return ErrMissingWebhook
	}

	pr, pw := io.Pipe()
	defer func() { _ = pr.Close() }()
	form := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeForm(form, fileName, body))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, pr)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return common.NewUserError(FailureMessage, fmt.Errorf("%w: %w", common.ErrNetwork, err))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))

	slog.Debug("Upload completed",
		"file", fileName,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	return checkResponse(resp.StatusCode, raw)
}

func writeForm(form *multipart.Writer, fileName string, body io.Reader) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FormField, fileName))
	contentType, body, err := detectReader(body)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", fileName, err)
	}
	header.Set("Content-Type", contentType)

	part, err := form.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return fmt.Errorf("failed to stream %s: %w", fileName, err)
	}
	return form.Close()
}

// responseBody is the webhook's reply shape. Every field is optional.
type responseBody struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorMessage extracts the pipeline's own error text from body, or "" when the
// body is not one of {success:false,error}, {error} or {message}.
func ErrorMessage(body []byte) string {
	var payload responseBody
	if err := json.Unmarshal(bytes.TrimSpace(body), &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

// Error is a rejected upload.
type Error struct {
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	return fmt.Sprintf("upload failed with status %d: %s", e.StatusCode, e.Message)
}

func checkResponse(status int, body []byte) error {
	if status >= 200 && status < 300 {
		var payload responseBody
		if json.Unmarshal(body, &payload) == nil && payload.Success != nil && !*payload.Success {
			msg := payload.Error
			if msg == "" {
				msg = payload.Message
			}
			if msg == "" {
				msg = FailureMessage
			}
			return common.NewUserError(msg, &Error{StatusCode: status, Message: msg})
		}
		return nil
	}

	msg := ErrorMessage(body)
	if msg == "" {
		msg = FailureMessage
	}
	slog.Error("Upload rejected", "status", status, "body", strings.TrimSpace(string(body)))
	return common.NewUserError(msg, &Error{StatusCode: status, Message: msg})
}
