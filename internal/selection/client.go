package selection

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"mood-recommender/internal/domain"
)

const (
	pathRecommendation = "/api/recommendation"
	pathMoods          = "/api/moods"
	pathLanguages      = "/api/languages"

	defaultTimeout = 45 * time.Second
)

// APIError is a non-2xx reply from the service. Message is the server's
// "message" field, or the raw body when that is missing.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("selection: service returned %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("selection: invalid base URL %q: %w", baseURL, err)
	}
	c := &Client{baseURL: baseURL, httpClient: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Recommend submits the current selections once. The state is left as is
// whatever the outcome.
func (c *Client) Recommend(ctx context.Context, s *State) (domain.Recommendation, error) {
	if s == nil {
		return domain.Recommendation{}, errors.New("selection: state is nil")
	}
	req, err := s.Request()
	if err != nil {
		return domain.Recommendation{}, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return domain.Recommendation{}, fmt.Errorf("selection: marshal request: %w", err)
	}

	var rec domain.Recommendation
	if err := c.do(ctx, http.MethodPost, pathRecommendation, body, &rec); err != nil {
		return domain.Recommendation{}, err
	}
	return rec, nil
}

// TryAnother asks again with identical selections.
func (c *Client) TryAnother(ctx context.Context, s *State) (domain.Recommendation, error) {
	return c.Recommend(ctx, s)
}

func (c *Client) Moods(ctx context.Context) ([]domain.Mood, error) {
	var moods []domain.Mood
	if err := c.do(ctx, http.MethodGet, pathMoods, nil, &moods); err != nil {
		return nil, err
	}
	return moods, nil
}

func (c *Client) Languages(ctx context.Context) ([]string, error) {
	var languages []string
	if err := c.do(ctx, http.MethodGet, pathLanguages, nil, &languages); err != nil {
		return nil, err
	}
	return languages, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("selection: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("selection: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("selection: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("selection: decode response: %w", err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(raw))
}
