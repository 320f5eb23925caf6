package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client handles communication with the external search/summarization service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new backend client. The base URL must not carry a
// trailing slash; one is trimmed if present.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// BaseURL returns the resolved backend base URL, surfaced in error payloads
// so operators can see which backend a failing route talked to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Search forwards a search request to the backend. A single attempt is made,
// no retry.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.postJSON(ctx, "/search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Summarize requests an on-demand summary for a single source.
func (c *Client) Summarize(ctx context.Context, req SummarizeRequest) (*SourceSummary, error) {
	var resp SourceSummary
	if err := c.postJSON(ctx, "/summarize", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health probes the backend's health endpoint.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	endpoint := c.baseURL + "/health"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(err, endpoint)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, newStatusError(httpResp)
	}

	var status HealthStatus
	if err := json.NewDecoder(httpResp.Body).Decode(&status); err != nil {
		return nil, &TransportError{Kind: KindMalformed, Endpoint: endpoint, Cause: err}
	}
	return &status, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	endpoint := c.baseURL + path

	reqBody, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		terr := classifyTransport(err, endpoint)
		c.logger.Warn("backend call failed",
			zap.String("endpoint", endpoint),
			zap.String("kind", terr.Kind.String()),
			zap.Error(err))
		return terr
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		serr := newStatusError(httpResp)
		c.logger.Warn("backend returned error status",
			zap.String("endpoint", endpoint),
			zap.Int("status", serr.Status),
			zap.String("detail", serr.Detail))
		return serr
	}

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return &TransportError{Kind: KindMalformed, Endpoint: endpoint, Cause: err}
	}

	c.logger.Debug("backend call ok",
		zap.String("endpoint", endpoint),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// newStatusError extracts the backend's {"detail": ...} message when the
// error body has one, and falls back to a generic message otherwise.
func newStatusError(resp *http.Response) *StatusError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	detail := fmt.Sprintf("backend returned status %d", resp.StatusCode)
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		detail = payload.Detail
	}

	return &StatusError{
		Status:  resp.StatusCode,
		Detail:  detail,
		RawBody: string(body),
	}
}
