package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ytget/batch-uploader/internal/model"
	"github.com/ytget/batch-uploader/internal/platform"
)

// Endpoint and wire constants
const (
	ProcessPath  = "process"
	StatusPath   = "status"
	DownloadPath = "download"

	DefaultFieldName = "files[]"
	DefaultUserAgent = "batch-uploader"

	HeaderRequestID = "X-Request-ID"

	// maxErrorBody bounds how much of an error response is drained
	maxErrorBody = 4 << 10
)

var (
	ErrInvalidBaseURL = errors.New("invalid server URL")
	ErrNoFiles        = errors.New("no files to upload")
	ErrMissingTaskID  = errors.New("server response has no task id")
	ErrEmptyTaskID    = errors.New("task id is empty")
)

// HTTPError reports a non-2xx response from the server
type HTTPError struct {
	Op         string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: unexpected response %s", e.Op, e.Status)
}

// SubmitOptions tunes a single upload
type SubmitOptions struct {
	SubmissionID string       // sent as X-Request-ID when set
	OnProgress   ProgressFunc // called as the body is transferred; only when length is known
}

// SubmitResult is the decoded response of the processing endpoint
type SubmitResult struct {
	TaskID     model.TaskID
	StatusCode int
	BytesSent  int64
}

// StatusResponse is the decoded body of the status endpoint
type StatusResponse struct {
	State  model.TaskState `json:"state"`
	Status string          `json:"status,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

type submitResponse struct {
	TaskID model.TaskID `json:"task_id"`
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithFieldName sets the repeated multipart field name used for files
func WithFieldName(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.fieldName = name
		}
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// Client talks to the processing server
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	fieldName  string
	userAgent  string
}

var (
	_ Uploader   = (*Client)(nil)
	_ Downloader = (*Client)(nil)
)

// NewClient creates a client for the server rooted at baseURL
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: URL must start with http:// or https://", ErrInvalidBaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidBaseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
		fieldName:  DefaultFieldName,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the server root the client was created with
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Submit streams files as one multipart request and returns the task id
func (c *Client) Submit(ctx context.Context, files []model.SelectedFile, opts SubmitOptions) (*SubmitResult, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	boundary := multipart.NewWriter(io.Discard).Boundary()
	total, known := multipartLength(boundary, c.fieldName, files)

	pr, pw := io.Pipe()
	defer pr.Close()

	go func() {
		pw.CloseWithError(writeMultipart(pw, boundary, c.fieldName, files))
	}()

	body := &progressReader{r: pr}
	if known && opts.OnProgress != nil {
		body.total = total
		body.onProgress = opts.OnProgress
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.JoinPath(ProcessPath).String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if opts.SubmissionID != "" {
		req.Header.Set(HeaderRequestID, opts.SubmissionID)
	}
	if known {
		req.ContentLength = total
	} else {
		req.ContentLength = -1
	}

	log.Printf("Uploading %d file(s) to %s (length=%d known=%v)", len(files), req.URL, total, known)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		drain(resp.Body)
		return nil, &HTTPError{Op: "upload", StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var decoded submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	if decoded.TaskID.IsZero() {
		return nil, ErrMissingTaskID
	}

	return &SubmitResult{
		TaskID:     decoded.TaskID,
		StatusCode: resp.StatusCode,
		BytesSent:  body.sent.Load(),
	}, nil
}

// Status fetches the current processing state of a task
func (c *Client) Status(ctx context.Context, taskID model.TaskID) (*StatusResponse, error) {
	if taskID.IsZero() {
		return nil, ErrEmptyTaskID
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.taskURL(StatusPath, taskID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build status request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		drain(resp.Body)
		return nil, &HTTPError{Op: "status", StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var status StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	return &status, nil
}

// DownloadURL returns the absolute URL of a task's result
func (c *Client) DownloadURL(taskID model.TaskID) string {
	return c.taskURL(DownloadPath, taskID)
}

// Download saves a task's result into dir and returns the written path.
// The file name comes from Content-Disposition; existing files are never overwritten.
func (c *Client) Download(ctx context.Context, taskID model.TaskID, dir string) (string, error) {
	if taskID.IsZero() {
		return "", ErrEmptyTaskID
	}
	return c.Save(ctx, c.DownloadURL(taskID), dir)
}

// Save fetches rawURL into dir, named like Download does. Without a usable
// Content-Disposition the last path segment of rawURL names the result.
func (c *Client) Save(ctx context.Context, rawURL, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		drain(resp.Body)
		return "", &HTTPError{Op: "download", StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	name := attachmentName(resp.Header, path.Base(req.URL.Path))
	target, err := platform.UniquePath(dir, name)
	if err != nil {
		return "", err
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", target, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(target)
		return "", fmt.Errorf("failed to write %s: %w", target, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", target, err)
	}

	log.Printf("Downloaded %s to %s", rawURL, target)
	return target, nil
}

func (c *Client) taskURL(endpoint string, taskID model.TaskID) string {
	return c.baseURL.JoinPath(endpoint, taskID.String()).String()
}

// attachmentName picks a safe local file name for a download response
func attachmentName(h http.Header, fallback string) string {
	if cd := h.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := filepath.Base(filepath.Clean("/" + params["filename"])); name != "/" && name != "." {
				return name
			}
		}
	}

	ext := ".bin"
	if ct := h.Get("Content-Type"); ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
			if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
				ext = exts[0]
			}
		}
	}
	return "result-" + platform.SanitizeFileName(fallback) + ext
}

func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, maxErrorBody))
}
