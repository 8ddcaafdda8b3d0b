package httpapi

import (
	"context"
	"dfss-dashboard/auth"
	"dfss-dashboard/contract"
	"dfss-dashboard/domain"
	"dfss-dashboard/errors"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/lo"
)

var (
	_ contract.APIClient = (*Client)(nil)
	_ contract.Transport = (*Client)(nil)
)

const maxErrorBody = 4 << 10

// Client talks to the DFSS REST API on behalf of one session.
type Client struct {
	baseURL   string
	http      *http.Client
	tokens    *auth.TokenSource
	allOwners bool
	log       *slog.Logger
	now       func() time.Time
}

type Option func(c *Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithAllOwners lists the files of every user. The API honours it for admins only.
func WithAllOwners(all bool) Option {
	return func(c *Client) {
		c.allOwners = all
	}
}

func NewClient(baseURL string, tokens *auth.TokenSource, log *slog.Logger, opts ...Option) (*Client, error) {
	u, err := url.ParseRequestURI(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("api base url %q: %w", baseURL, errors.ErrInvalidConfig)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		log:     log.With("component", "api_client"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListFiles returns the records of the session owner, or of everyone with WithAllOwners.
// Records that fail validation are dropped and logged.
func (c *Client) ListFiles(ctx context.Context) ([]domain.FileRecord, error) {
	endpoint := c.baseURL + "/files"
	if c.allOwners {
		endpoint += "?all=true"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(req, resp)
	}

	var wires []wireRecord
	if err := json.NewDecoder(resp.Body).Decode(&wires); err != nil {
		return nil, fmt.Errorf("decode file list: %w: %w", errors.ErrBadResponse, err)
	}

	records := make([]domain.FileRecord, 0, len(wires))
	for _, w := range wires {
		record, err := w.toDomain()
		if err != nil {
			c.log.Warn("Skipping invalid file record", "id", w.ID, "error", err)
			continue
		}
		records = append(records, record)
	}
	c.log.Debug("Files listed", "count", len(records), "all_owners", c.allOwners)
	return records, nil
}

// GetFile fetches one record by id.
func (c *Client) GetFile(ctx context.Context, id domain.FileID) (domain.FileRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.fileURL(id), nil)
	if err != nil {
		return domain.FileRecord{}, fmt.Errorf("build get request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return domain.FileRecord{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.FileRecord{}, statusError(req, resp)
	}

	var w wireRecord
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		return domain.FileRecord{}, fmt.Errorf("decode file %s: %w: %w", id, errors.ErrBadResponse, err)
	}
	record, err := w.toDomain()
	if err != nil {
		return domain.FileRecord{}, fmt.Errorf("file %s: %w: %w", id, errors.ErrBadResponse, err)
	}
	return record, nil
}

// DeleteFile reports false when the API refused the deletion (unknown file or
// not owned by the session user).
func (c *Client) DeleteFile(ctx context.Context, id domain.FileID) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.fileURL(id), nil)
	if err != nil {
		return false, fmt.Errorf("build delete request: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.log.Info("File deleted", "id", id)
		return true, nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden:
		c.log.Warn("File deletion refused", "id", id, "status", resp.StatusCode, "message", apiMessage(resp))
		return false, nil
	default:
		return false, statusError(req, resp)
	}
}

// DownloadFile copies the content of a file into w. Like DeleteFile it reports
// false when the API refused the download.
func (c *Client) DownloadFile(ctx context.Context, id domain.FileID, w io.Writer) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/download/"+url.PathEscape(string(id)), nil)
	if err != nil {
		return false, fmt.Errorf("build download request: %w", err)
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		n, err := io.Copy(w, resp.Body)
		if err != nil {
			return false, fmt.Errorf("download file %s: %w", id, err)
		}
		c.log.Info("File downloaded", "id", id, "bytes", n)
		return true, nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden:
		c.log.Warn("File download refused", "id", id, "status", resp.StatusCode, "message", apiMessage(resp))
		return false, nil
	default:
		return false, statusError(req, resp)
	}
}

func (c *Client) fileURL(id domain.FileID) string {
	return c.baseURL + "/files/" + url.PathEscape(string(id))
}

// do authenticates the request and sends it. A 401 is turned into ErrUnauthorized
// and its body is closed.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %w", req.Method, req.URL.Path, errors.ErrUnreachable, err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		defer resp.Body.Close()
		return nil, fmt.Errorf("%s %s: %s: %w", req.Method, req.URL.Path, apiMessage(resp), errors.ErrUnauthorized)
	}
	return resp, nil
}

func statusError(req *http.Request, resp *http.Response) error {
	return fmt.Errorf("%s %s returned %d: %s: %w", req.Method, req.URL.Path, resp.StatusCode, apiMessage(resp), errors.ErrBadResponse)
}

// apiMessage reads the {"message": ...} body the API sends with its errors.
func apiMessage(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return lo.CoalesceOrEmpty(strings.TrimSpace(string(body)), http.StatusText(resp.StatusCode))
}
