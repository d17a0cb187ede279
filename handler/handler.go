package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"mood-recommender/internal/domain"
	"mood-recommender/internal/metrics"
	"mood-recommender/internal/usecase"
)

const (
	routeRecommendation = "/api/recommendation"
	routeMoods          = "/api/moods"
	routeLanguages      = "/api/languages"
	routeContentTypes   = "/api/content-types"
	routeHealth         = "/healthz"

	headerCorrelationID = "X-Correlation-Id"
	maxBodyBytes        = 1 << 20

	messageInvalidBody      = "Invalid request body"
	messageNotFound         = "Not found"
	messageMethodNotAllowed = "Method not allowed"
	messageFallback         = "Failed to get recommendation"
)

type Recommender interface {
	Recommend(ctx context.Context, in usecase.RecommendInput) (usecase.RecommendOutput, error)
}

type errorResponse struct {
	Message string `json:"message"`
}

type contentTypeView struct {
	ID       domain.ContentType `json:"id"`
	Singular string             `json:"singular"`
	Plural   string             `json:"plural"`
}

// reply is a transport-neutral response shared by the Lambda and HTTP paths.
type reply struct {
	status int
	body   []byte
}

type Handler struct {
	recommender Recommender
	metrics     *metrics.Metrics
	catalogs    map[string][]byte
}

type Option func(*Handler)

// WithMetrics records request and recommendation metrics into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

func NewHandler(r Recommender, opts ...Option) (*Handler, error) {
	if r == nil {
		return nil, errors.New("handler: recommender must not be nil")
	}
	h := &Handler{recommender: r}
	for _, opt := range opts {
		opt(h)
	}
	catalogs, err := renderCatalogs()
	if err != nil {
		return nil, err
	}
	h.catalogs = catalogs
	return h, nil
}

func renderCatalogs() (map[string][]byte, error) {
	contentTypes := make([]contentTypeView, 0, len(domain.ContentTypes))
	for _, c := range domain.ContentTypes {
		contentTypes = append(contentTypes, contentTypeView{ID: c, Singular: c.Singular(), Plural: c.Plural()})
	}
	sources := map[string]any{
		routeMoods:        domain.Moods,
		routeLanguages:    domain.Languages,
		routeContentTypes: contentTypes,
	}
	out := make(map[string][]byte, len(sources))
	for route, v := range sources {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out[route] = b
	}
	return out, nil
}

func (h *Handler) recommend(ctx context.Context, body []byte) reply {
	start := time.Now()
	logger := zerolog.Ctx(ctx)

	var req domain.RecommendationRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			logger.Warn().Err(err).Msg("undecodable recommendation body")
			h.metrics.ObserveRecommendation(metricContentType(""), "invalid_input", time.Since(start))
			return errorReply(http.StatusBadRequest, messageInvalidBody)
		}
	}

	out, err := h.recommender.Recommend(ctx, usecase.InputFromRequest(req))
	if err != nil {
		status, message, outcome := classify(err)
		logger.Warn().Err(err).Int("status", status).Msg("recommendation failed")
		h.metrics.ObserveRecommendation(metricContentType(req.ContentType), outcome, time.Since(start))
		return errorReply(status, message)
	}

	h.metrics.ObserveRecommendation(metricContentType(string(out.ContentType)), "success", time.Since(start))
	return reply{status: http.StatusOK, body: out.Recommendation}
}

func (h *Handler) catalog(route string) reply {
	return reply{status: http.StatusOK, body: h.catalogs[route]}
}

func health() reply {
	return reply{status: http.StatusOK, body: []byte(`{"status":"ok"}`)}
}

// classify maps a usecase failure to status, client message and metric outcome.
// Every failure that is not the caller's fault is a 500.
func classify(err error) (int, string, string) {
	var usecaseErr *usecase.Error
	if !errors.As(err, &usecaseErr) {
		return http.StatusInternalServerError, messageFallback, "internal_error"
	}
	message := usecaseErr.Message
	if message == "" {
		message = messageFallback
	}
	switch usecaseErr.Code {
	case usecase.ErrorInvalidInput:
		return http.StatusBadRequest, message, "invalid_input"
	case usecase.ErrorUpstream:
		return http.StatusInternalServerError, message, "upstream_error"
	default:
		return http.StatusInternalServerError, message, "internal_error"
	}
}

// metricContentType bounds label cardinality to the known categories.
func metricContentType(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return string(domain.DefaultContentType)
	}
	for _, c := range domain.ContentTypes {
		if string(c) == raw {
			return raw
		}
	}
	return "other"
}

func errorReply(status int, message string) reply {
	b, err := json.Marshal(errorResponse{Message: message})
	if err != nil {
		b = []byte(`{"message":"` + messageFallback + `"}`)
	}
	return reply{status: status, body: b}
}

var newCorrelationID = func() string {
	return uuid.NewString()
}
