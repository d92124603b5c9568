// Package upload posts profile photos to the image host and returns the
// hosted URL the resume stores as its photolink.
//
// The host accepts an unsigned multipart POST with three fields: the file,
// a preset naming the upload policy, and a caller-chosen public id. There
// are no retries; a failed upload is reported and the user tries again.
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
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zadnan82/newcv-sub002/internal/apperror"
)

// MaxImageBytes caps the size of an uploaded photo.
const MaxImageBytes = 10 << 20

// Client uploads to one endpoint with one preset.
type Client struct {
	endpoint string
	preset   string
	http     *http.Client
	logger   *slog.Logger
	now      func() time.Time
}

func New(endpoint, preset string, logger *slog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		preset:   preset,
		http:     &http.Client{Timeout: 60 * time.Second},
		logger:   logger,
		now:      time.Now,
	}
}

// Configured reports whether an endpoint and preset are set.
func (c *Client) Configured() bool {
	return c.endpoint != "" && c.preset != ""
}

// PublicID returns a unique id of the form resume_<unix-ms>_<random>.
func (c *Client) PublicID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("resume_%d_%s", c.now().UnixMilli(), suffix)
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the image read from r and returns its secure URL.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if !c.Configured() {
		return "", apperror.ValidationFailed("upload", "image upload is not configured")
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("upload: creating file part: %w", err)
	}
	n, err := io.Copy(part, io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("upload: reading image: %w", err)
	}
	if n > MaxImageBytes {
		return "", apperror.ValidationFailed("file", fmt.Sprintf("image must be %d MB or less", MaxImageBytes>>20))
	}
	if n == 0 {
		return "", apperror.ValidationFailed("file", "image is empty")
	}
	publicID := c.PublicID()
	if err := w.WriteField("upload_preset", c.preset); err != nil {
		return "", fmt.Errorf("upload: writing preset: %w", err)
	}
	if err := w.WriteField("public_id", publicID); err != nil {
		return "", fmt.Errorf("upload: writing public id: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload: closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("upload: building request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: posting image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var out uploadResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := ""
		if decodeErr == nil && out.Error != nil {
			detail = out.Error.Message
		}
		return "", apperror.Remote(resp.StatusCode, detail)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("upload: decoding response: %w", decodeErr)
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("upload: response has no secure_url")
	}

	c.logger.Info("photo uploaded",
		slog.String("public_id", publicID),
		slog.Int64("bytes", n),
	)
	return out.SecureURL, nil
}
