// Package remote is the HTTP half of the sync adapter: it issues the CRUD
// calls against the backend's resume resource and hands bodies to package
// wire for translation.
//
// ERROR CONTRACT:
//   - no usable token      → apperror.ErrUnauthenticated, before any request is built
//   - non-2xx response     → apperror.ErrRemote carrying the server's "detail"
//   - 204 / empty body     → success with a nil result
//
// Nothing is retried; retry is a user action.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/zadnan82/newcv-sub002/internal/apperror"
	"github.com/zadnan82/newcv-sub002/internal/model"
	"github.com/zadnan82/newcv-sub002/internal/wire"
)

// DefaultTimeout bounds one backend request.
const DefaultTimeout = 30 * time.Second

// Client talks to the resume resource rooted at baseURL, e.g.
// "https://api.example.com/api/resumes".
type Client struct {
	baseURL string
	tokens  oauth2.TokenSource
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client. Every request carries "Authorization: Bearer <token>",
// injected by oauth2.Transport from tokens.
func New(baseURL string, tokens oauth2.TokenSource, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &oauth2.Transport{
				Source: tokens,
				Base:   http.DefaultTransport,
			},
		},
		logger: logger,
	}
}

// List returns the authenticated user's resumes in the editor shape.
func (c *Client) List(ctx context.Context) ([]*model.Resume, error) {
	body, err := c.do(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return nil, fmt.Errorf("remote: listing resumes: %w", err)
	}
	resumes, err := wire.NormalizeList(body)
	if err != nil {
		return nil, fmt.Errorf("remote: listing resumes: %w", err)
	}
	return resumes, nil
}

// Get fetches one resume. A 204 yields (nil, nil).
func (c *Client) Get(ctx context.Context, id int64) (*model.Resume, error) {
	body, err := c.do(ctx, http.MethodGet, resumePath(id), nil)
	if err != nil {
		return nil, fmt.Errorf("remote: getting resume %d: %w", id, err)
	}
	return normalizeOrNil(body)
}

// Create POSTs r. fallback supplies the photo link when r has none.
func (c *Client) Create(ctx context.Context, r, fallback *model.Resume) (*model.Resume, error) {
	body, err := c.do(ctx, http.MethodPost, "/", wire.FromInternal(r, fallback))
	if err != nil {
		return nil, fmt.Errorf("remote: creating resume: %w", err)
	}
	return normalizeOrNil(body)
}

// Update PATCHes resume id with r.
func (c *Client) Update(ctx context.Context, id int64, r, fallback *model.Resume) (*model.Resume, error) {
	body, err := c.do(ctx, http.MethodPatch, resumePath(id), wire.FromInternal(r, fallback))
	if err != nil {
		return nil, fmt.Errorf("remote: updating resume %d: %w", id, err)
	}
	return normalizeOrNil(body)
}

// Delete removes resume id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, http.MethodDelete, resumePath(id), nil); err != nil {
		return fmt.Errorf("remote: deleting resume %d: %w", id, err)
	}
	return nil
}

// PutPhoto sets the photo sub-resource of resume id.
func (c *Client) PutPhoto(ctx context.Context, id int64, link string) error {
	if _, err := c.do(ctx, http.MethodPut, resumePath(id)+"/photo", wire.PhotoBody{Photolink: link}); err != nil {
		return fmt.Errorf("remote: setting photo of resume %d: %w", id, err)
	}
	return nil
}

// DeletePhoto clears the photo sub-resource of resume id.
func (c *Client) DeletePhoto(ctx context.Context, id int64) error {
	if _, err := c.do(ctx, http.MethodDelete, resumePath(id)+"/photo", nil); err != nil {
		return fmt.Errorf("remote: deleting photo of resume %d: %w", id, err)
	}
	return nil
}

func resumePath(id int64) string {
	return "/" + model.FormatServerID(id)
}

func normalizeOrNil(body []byte) (*model.Resume, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	return wire.Normalize(body)
}

// do performs one request and returns the response body of a 2xx reply.
// The body is nil for 204 and zero-length replies.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	// Fail before building the request so a missing token never reaches the network.
	if _, err := c.tokens.Token(); err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	c.logger.Debug("backend request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperror.Remote(resp.StatusCode, detailOf(body))
	}
	if resp.StatusCode == http.StatusNoContent || len(body) == 0 {
		return nil, nil
	}
	return body, nil
}

// detailOf extracts the "detail" member of an error body. The backend sends
// either a string or a list of {"msg": ...} validation entries.
func detailOf(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var entries []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &entries); err == nil {
		msgs := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.Msg != "" {
				msgs = append(msgs, e.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
