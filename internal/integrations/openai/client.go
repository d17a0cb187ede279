package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"mood-recommender/internal/domain"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultTimeout = 30 * time.Second
)

// HTTPStatusError captures non-2xx upstream responses with status-aware context.
type HTTPStatusError struct {
	StatusCode int
	Message    string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("openai: unexpected status %d: %s", e.StatusCode, e.Message)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client is a focused OpenAI-compatible client for JSON chat completions.
// Each Chat call reaches the API at most once.
type Client struct {
	api sdk.Client
}

type settings struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

type Option func(*settings)

func WithBaseURL(baseURL string) Option {
	return func(s *settings) {
		s.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *settings) {
		s.httpClient = httpClient
	}
}

// WithTimeout bounds a single completion. Ignored when WithHTTPClient is set.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.timeout = d
	}
}

// NewClient builds a client for apiKey. The key is not checked here; a
// missing key surfaces as an authentication failure on the first call.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	s := settings{baseURL: DefaultBaseURL, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&s)
	}
	if s.baseURL == "" {
		s.baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(s.baseURL); err != nil {
		return nil, fmt.Errorf("openai: invalid base URL %q: %w", s.baseURL, err)
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	httpClient := s.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: s.timeout}
	}

	return &Client{
		api: sdk.NewClient(
			option.WithAPIKey(strings.TrimSpace(apiKey)),
			option.WithBaseURL(s.baseURL),
			option.WithHTTPClient(httpClient),
			option.WithMaxRetries(0),
		),
	}, nil
}

// Chat sends messages with a JSON-object response format and returns the
// content of the first choice, or "" when the model returned no choices.
func (c *Client) Chat(ctx context.Context, model string, messages []domain.ChatMessage) (string, error) {
	if model == "" {
		return "", errors.New("openai: model must not be empty")
	}
	params, err := toMessageParams(messages)
	if err != nil {
		return "", err
	}

	completion, err := c.api.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: params,
		ResponseFormat: sdk.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		var apiErr *sdk.Error
		if errors.As(err, &apiErr) {
			msg := strings.TrimSpace(apiErr.Message)
			if msg == "" {
				msg = http.StatusText(apiErr.StatusCode)
			}
			return "", &HTTPStatusError{StatusCode: apiErr.StatusCode, Message: msg}
		}
		return "", fmt.Errorf("openai: request failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}

func toMessageParams(messages []domain.ChatMessage) ([]sdk.ChatCompletionMessageParamUnion, error) {
	out := make([]sdk.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			out = append(out, sdk.SystemMessage(m.Content))
		case domain.RoleUser:
			out = append(out, sdk.UserMessage(m.Content))
		case domain.RoleAssistant:
			out = append(out, sdk.AssistantMessage(m.Content))
		default:
			return nil, fmt.Errorf("openai: unsupported message role %q", m.Role)
		}
	}
	return out, nil
}
