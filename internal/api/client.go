package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redjax/notefolio/internal/version"
	"github.com/rs/zerolog"
)

const maxBodySize = 4 << 20

// Client talks to the notes backend. It keeps no state between calls:
// there is no retry, de-duplication or cancellation beyond the caller's context.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Redirects are still not followed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		clone := *hc
		c.http = &clone
	}
}

// WithTimeout sets a per-request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: trimSlash(baseURL),
		http:    &http.Client{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	// create_folder answers with a redirect to the dashboard; the redirect
	// itself is the success signal.
	c.http.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListFolders returns all folders of the current user
func (c *Client) ListFolders(ctx context.Context) ([]Folder, error) {
	var folders []Folder
	if err := c.doJSON(ctx, http.MethodGet, "/get_folders", nil, &folders); err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return folders, nil
}

// CreateFolder submits the folder creation form
func (c *Client) CreateFolder(ctx context.Context, name string) error {
	form := url.Values{}
	form.Set("name", name)

	req, err := c.newRequest(ctx, http.MethodPost, "/create_folder", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create folder: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if _, err := c.do(req, true); err != nil {
		return fmt.Errorf("create folder: %w", err)
	}
	return nil
}

// DeleteFolder deletes a folder. The backend cascades to its notes.
func (c *Client) DeleteFolder(ctx context.Context, id ID) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/delete_folder/"+url.PathEscape(id.String()), nil, nil); err != nil {
		return fmt.Errorf("delete folder %s: %w", id, err)
	}
	return nil
}

// GetNotes returns every note in a folder
func (c *Client) GetNotes(ctx context.Context, folderID ID) ([]Note, error) {
	var notes []Note
	if err := c.doJSON(ctx, http.MethodGet, "/get_notes/"+url.PathEscape(folderID.String()), nil, &notes); err != nil {
		return nil, fmt.Errorf("get notes for folder %s: %w", folderID, err)
	}
	if notes == nil {
		notes = []Note{}
	}
	for _, n := range notes {
		if n.CreatedAt.Unparsed() {
			c.log.Warn().Str("note_id", n.ID.String()).Str("created_at", n.CreatedAt.Raw).Msg("unrecognized timestamp")
		}
	}
	return notes, nil
}

func (c *Client) CreateNote(ctx context.Context, in NoteInput) (Status, error) {
	var st Status
	if err := c.doJSON(ctx, http.MethodPost, "/create_note", in, &st); err != nil {
		return st, fmt.Errorf("create note: %w", err)
	}
	return st, nil
}

func (c *Client) UpdateNote(ctx context.Context, id ID, in NoteInput) (Status, error) {
	var st Status
	if err := c.doJSON(ctx, http.MethodPut, "/update_note/"+url.PathEscape(id.String()), in, &st); err != nil {
		return st, fmt.Errorf("update note %s: %w", id, err)
	}
	return st, nil
}

func (c *Client) DeleteNote(ctx context.Context, id ID) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/delete_note/"+url.PathEscape(id.String()), nil, nil); err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	return nil
}

// Summarize sends plain text to the summarizer. A 2xx body carrying an
// "error" field is reported as an *Error as well.
func (c *Client) Summarize(ctx context.Context, content string) (string, error) {
	var resp summarizeResponse
	if err := c.doJSON(ctx, http.MethodPost, "/summarize", summarizeRequest{Content: content}, &resp); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return "", err
		}
		return "", fmt.Errorf("summarize: %w", err)
	}

	if resp.Error != "" {
		return "", &Error{StatusCode: http.StatusOK, Message: resp.Error}
	}
	if strings.TrimSpace(resp.Summary) == "" {
		return "", &Error{StatusCode: http.StatusOK}
	}
	return resp.Summary, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	data, err := c.do(req, false)
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("User-Agent", version.UserAgent())
	return req, nil
}

// do sends the request and returns the body of a 2xx response. A 3xx counts
// as success only when allowRedirect is set.
func (c *Client) do(req *http.Request, allowRedirect bool) ([]byte, error) {
	start := time.Now()
	logger := c.log.With().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Logger()

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug().Err(err).Dur("elapsed", time.Since(start)).Msg("request failed")
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	logger.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("request done")

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return data, nil
	case resp.StatusCode >= 300 && resp.StatusCode < 400 && allowRedirect:
		return nil, nil
	}
	return nil, &Error{StatusCode: resp.StatusCode, Message: errorBody(data)}
}
