package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/nutriplan/internal/domain/model"
	"github.com/okian/nutriplan/pkg/logger"
)

const headerRequestID = "X-Request-ID"

// APIError is a non-2xx response from the planner API. Estimate is set when a
// plan failed after the estimate was computed.
type APIError struct {
	Status   int             `json:"-"`
	Code     string          `json:"code"`
	Message  string          `json:"message"`
	Estimate *model.Estimate `json:"estimate,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("planner returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("planner returned %d %s: %s", e.Status, e.Code, e.Message)
}

// HTTPClient wraps http.Client with a base URL and timeout.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	logger  logger.Logger
}

// newHTTPClient creates a client for the planner at baseURL.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.Named("cli"),
	}
}

// Get performs a GET request and decodes the JSON response into out.
func (c *HTTPClient) Get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(ctx, req, out)
}

// Post performs a POST request with a JSON body and decodes the response into out.
func (c *HTTPClient) Post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, req, out)
}

func (c *HTTPClient) do(ctx context.Context, req *http.Request, out any) error {
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, reqID)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	c.logger.Debug(ctx, "planner responded",
		logger.String("method", req.Method),
		logger.String("path", req.URL.Path),
		logger.String("request_id", reqID),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(body, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return apiErr
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
