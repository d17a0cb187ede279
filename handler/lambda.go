package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"mood-recommender/internal/logging"
)

// Handle serves API Gateway proxy events. Failures are always encoded in the
// response; the returned error is reserved for the Lambda runtime.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	start := time.Now()
	correlationID := headerValue(event.Headers, headerCorrelationID)
	if correlationID == "" {
		correlationID = newCorrelationID()
	}
	ctx, logger := logging.WithCorrelationID(ctx, correlationID)

	path := normalizePath(event.Path)
	out := h.route(ctx, event.HTTPMethod, path, event)

	route := path
	if out.status == http.StatusNotFound {
		route = ""
	}
	h.metrics.ObserveHTTP(event.HTTPMethod, route, out.status, time.Since(start))
	logger.Info().
		Str("method", event.HTTPMethod).
		Str("path", path).
		Int("status", out.status).
		Dur("duration", time.Since(start)).
		Msg("lambda request served")

	return events.APIGatewayProxyResponse{
		StatusCode: out.status,
		Headers: map[string]string{
			"Content-Type":      "application/json",
			headerCorrelationID: correlationID,
		},
		Body: string(out.body),
	}, nil
}

func (h *Handler) route(ctx context.Context, method, path string, event events.APIGatewayProxyRequest) reply {
	switch path {
	case routeRecommendation:
		if method != http.MethodPost {
			return errorReply(http.StatusMethodNotAllowed, messageMethodNotAllowed)
		}
		body, err := eventBody(event)
		if err != nil {
			return errorReply(http.StatusBadRequest, messageInvalidBody)
		}
		return h.recommend(ctx, body)
	case routeMoods, routeLanguages, routeContentTypes:
		if method != http.MethodGet {
			return errorReply(http.StatusMethodNotAllowed, messageMethodNotAllowed)
		}
		return h.catalog(path)
	case routeHealth:
		return health()
	default:
		return errorReply(http.StatusNotFound, messageNotFound)
	}
}

func eventBody(event events.APIGatewayProxyRequest) ([]byte, error) {
	if !event.IsBase64Encoded {
		return []byte(event.Body), nil
	}
	return base64.StdEncoding.DecodeString(event.Body)
}

// headerValue looks a header up case-insensitively; API Gateway preserves
// whatever casing the client sent.
func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
