// Package recommender is the HTTP client for the external meal
// recommendation service. One query vector in, one meal out.
package recommender

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
	"github.com/okian/nutriplan/internal/domain/nutrition"
	"github.com/okian/nutriplan/pkg/logger"
	"github.com/okian/nutriplan/pkg/metrics"
)

// HeaderRequestID carries a per-request correlation id.
const HeaderRequestID = "X-Request-ID"

const (
	// maxErrorBody caps how much of a failed response is quoted in errors.
	maxErrorBody = 512
	// maxResponseBytes caps how much of any response is read.
	maxResponseBytes = 1 << 20
)

// Client posts nutrition queries to the recommendation endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	logger     logger.Logger
}

// New creates a Client for endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Named("recommender")
	}
	return c
}

type predictRequest struct {
	Nutrition []float64 `json:"nutrition"`
}

type predictResponse struct {
	Output *predictOutput `json:"output"`
}

type predictOutput struct {
	Name         string   `json:"name"`
	ImageLink    string   `json:"image_link"`
	Calories     float64  `json:"calories"`
	Ingredients  []string `json:"ingredients"`
	Instructions text     `json:"instructions"`
}

// text decodes either a JSON string or a list of strings.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var steps []string
		if err := json.Unmarshal(b, &steps); err != nil {
			return err
		}
		*t = text(strings.Join(steps, "\n"))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = text(s)
	return nil
}

// Recommend sends one query and returns the suggested meal.
// Every failure wraps ErrRecommendationFetchFailed.
func (c *Client) Recommend(ctx context.Context, query nutrition.NutritionQuery) (model.Recommendation, error) {
	start := time.Now()
	rec, err := c.recommend(ctx, query)
	latency := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		metrics.RecordRecommendationRequest(metrics.StatusFailed, latency)
		metrics.RecordErrorByComponent("recommender", "fetch_failed")
		c.logger.Warn(ctx, "recommendation request failed",
			logger.Float64("calories", query.Calories()),
			logger.Error(err),
		)
		return model.Recommendation{}, err
	}
	metrics.RecordRecommendationRequest(metrics.StatusOK, latency)
	c.logger.Debug(ctx, "recommendation received",
		logger.String("name", rec.Name),
		logger.Float64("latency_ms", latency),
	)
	return rec, nil
}

func (c *Client) recommend(ctx context.Context, query nutrition.NutritionQuery) (model.Recommendation, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(predictRequest{Nutrition: query[:]})
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("%w: marshal request: %w", ErrRecommendationFetchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("%w: create request: %w", ErrRecommendationFetchFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("%w: http request: %w", ErrRecommendationFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("%w: read response: %w", ErrRecommendationFetchFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := respBytes
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return model.Recommendation{}, fmt.Errorf("%w: service returned status %d: %s",
			ErrRecommendationFetchFailed, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded predictResponse
	if err := json.Unmarshal(respBytes, &decoded); err != nil {
		return model.Recommendation{}, fmt.Errorf("%w: unmarshal response: %w", ErrRecommendationFetchFailed, err)
	}
	if decoded.Output == nil || strings.TrimSpace(decoded.Output.Name) == "" {
		return model.Recommendation{}, fmt.Errorf("%w: response has no output", ErrRecommendationFetchFailed)
	}

	out := decoded.Output
	return model.Recommendation{
		Name:         out.Name,
		ImageLink:    out.ImageLink,
		Calories:     out.Calories,
		Ingredients:  out.Ingredients,
		Instructions: string(out.Instructions),
	}, nil
}
