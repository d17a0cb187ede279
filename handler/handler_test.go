package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"mood-recommender/internal/domain"
	"mood-recommender/internal/metrics"
	"mood-recommender/internal/usecase"
)

const recommendationJSON = `{"title":"Paddington 2","description":"A bear is framed.","rating":"7.8","language":"English","genres":["Comedy","Family"],"streamingOn":["Netflix","Prime Video"]}`

type stubRecommender struct {
	out   usecase.RecommendOutput
	err   error
	in    usecase.RecommendInput
	calls int
}

func (s *stubRecommender) Recommend(_ context.Context, in usecase.RecommendInput) (usecase.RecommendOutput, error) {
	s.calls++
	s.in = in
	return s.out, s.err
}

func okRecommender() *stubRecommender {
	return &stubRecommender{out: usecase.RecommendOutput{
		Recommendation: []byte(recommendationJSON),
		ContentType:    domain.ContentMovie,
	}}
}

func makeEvent(method, path, body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		HTTPMethod: method,
		Path:       path,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       body,
	}
}

func parseBody[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

func newTestHandler(t *testing.T, r Recommender) *Handler {
	t.Helper()
	h, err := NewHandler(r, WithMetrics(metrics.New()))
	require.NoError(t, err)
	return h
}

func TestNewHandler_ValidatesDependency(t *testing.T) {
	_, err := NewHandler(nil)
	require.Error(t, err)
}

func TestHandle_HappyPath(t *testing.T) {
	uc := okRecommender()
	h := newTestHandler(t, uc)

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/recommendation",
		`{"mood":"funny","language":"English","minRating":7.5,"contentType":"tv"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, recommendationJSON, resp.Body)
	require.Equal(t, "application/json", resp.Headers["Content-Type"])
	require.NotEmpty(t, resp.Headers["X-Correlation-Id"])

	require.Equal(t, 1, uc.calls)
	require.Equal(t, "funny", uc.in.Mood)
	require.Equal(t, "English", uc.in.Language)
	require.Equal(t, 7.5, *uc.in.MinRating)
	require.Equal(t, "tv", uc.in.ContentType)
}

func TestHandle_OmittedOptionalFieldsStayUnset(t *testing.T) {
	uc := okRecommender()
	h := newTestHandler(t, uc)

	_, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/recommendation", `{"mood":"funny","language":"English"}`))
	require.NoError(t, err)
	require.Nil(t, uc.in.MinRating)
	require.Empty(t, uc.in.ContentType)
}

func TestHandle_Base64Body(t *testing.T) {
	uc := okRecommender()
	h := newTestHandler(t, uc)

	event := makeEvent(http.MethodPost, "/api/recommendation/", base64.StdEncoding.EncodeToString([]byte(`{"mood":"horror","language":"Tamil"}`)))
	event.IsBase64Encoded = true
	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Tamil", uc.in.Language)
}

func TestHandle_InvalidBody(t *testing.T) {
	uc := okRecommender()
	h := newTestHandler(t, uc)

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/recommendation", `not-json`))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, messageInvalidBody, parseBody[errorResponse](t, resp.Body).Message)
	require.Zero(t, uc.calls)

	event := makeEvent(http.MethodPost, "/api/recommendation", "%%%")
	event.IsBase64Encoded = true
	resp, err = h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandle_MistypedFieldsDoNotFailDecode(t *testing.T) {
	missing := &stubRecommender{err: &usecase.Error{Code: usecase.ErrorInvalidInput, Reason: "missing_required_field", Message: usecase.MessageMissingRequired}}
	h := newTestHandler(t, missing)

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/recommendation", `{"language":"English","minRating":"7"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Mood and language are required", parseBody[errorResponse](t, resp.Body).Message)
	require.Empty(t, missing.in.Mood)

	uc := okRecommender()
	h = newTestHandler(t, uc)

	resp, err = h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/recommendation", `{"mood":"funny","language":"English","minRating":"7"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, uc.calls)
	require.Equal(t, 7.0, *uc.in.MinRating)

	resp, err = h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/recommendation", `{"mood":"funny","language":"English","minRating":{},"contentType":["tv"]}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 2, uc.calls)
	require.Nil(t, uc.in.MinRating)
	require.Empty(t, uc.in.ContentType)
}

func TestHandle_NonObjectBodyIsInvalid(t *testing.T) {
	uc := okRecommender()
	h := newTestHandler(t, uc)

	for _, body := range []string{`["funny","English"]`, `"funny"`} {
		resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/recommendation", body))
		require.NoError(t, err)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Equal(t, messageInvalidBody, parseBody[errorResponse](t, resp.Body).Message)
	}
	require.Zero(t, uc.calls)
}

func TestHandle_EmptyBodyReachesValidation(t *testing.T) {
	uc := &stubRecommender{err: &usecase.Error{Code: usecase.ErrorInvalidInput, Reason: "missing_required_field", Message: usecase.MessageMissingRequired}}
	h := newTestHandler(t, uc)

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/recommendation", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Mood and language are required", parseBody[errorResponse](t, resp.Body).Message)
	require.Equal(t, 1, uc.calls)
}

func TestHandle_MapsUseCaseErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "invalid input",
			err:     &usecase.Error{Code: usecase.ErrorInvalidInput, Reason: "missing_required_field", Message: usecase.MessageMissingRequired},
			status:  http.StatusBadRequest,
			message: "Mood and language are required",
		},
		{
			name:    "upstream",
			err:     &usecase.Error{Code: usecase.ErrorUpstream, Reason: "llm_empty_content", Message: "Failed to generate movie recommendation: no content received from model"},
			status:  http.StatusInternalServerError,
			message: "Failed to generate movie recommendation: no content received from model",
		},
		{
			name:    "internal without message",
			err:     &usecase.Error{Code: usecase.ErrorInternal, Reason: "unexpected"},
			status:  http.StatusInternalServerError,
			message: messageFallback,
		},
		{
			name:    "unexpected",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			message: messageFallback,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(t, &stubRecommender{err: tc.err})

			resp, err := h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/recommendation", `{"mood":"funny","language":"English"}`))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
			require.Equal(t, tc.message, parseBody[errorResponse](t, resp.Body).Message)
		})
	}
}

func TestHandle_UsesProvidedCorrelationID_CaseInsensitive(t *testing.T) {
	h := newTestHandler(t, okRecommender())

	event := makeEvent(http.MethodPost, "/api/recommendation", `{"mood":"funny","language":"English"}`)
	event.Headers["x-correlation-id"] = "corr-123"
	resp, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, "corr-123", resp.Headers["X-Correlation-Id"])
}

func TestHandle_Catalogs(t *testing.T) {
	h := newTestHandler(t, okRecommender())

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodGet, "/api/moods", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	moods := parseBody[[]domain.Mood](t, resp.Body)
	require.Equal(t, domain.Moods, moods)

	resp, err = h.Handle(context.Background(), makeEvent(http.MethodGet, "/api/languages", ""))
	require.NoError(t, err)
	require.Equal(t, domain.Languages, parseBody[[]string](t, resp.Body))

	resp, err = h.Handle(context.Background(), makeEvent(http.MethodGet, "/api/content-types", ""))
	require.NoError(t, err)
	types := parseBody[[]contentTypeView](t, resp.Body)
	require.Len(t, types, 3)
	require.Equal(t, contentTypeView{ID: domain.ContentTV, Singular: "TV show", Plural: "TV shows"}, types[1])
}

func TestHandle_RoutingErrors(t *testing.T) {
	uc := okRecommender()
	h := newTestHandler(t, uc)

	resp, err := h.Handle(context.Background(), makeEvent(http.MethodGet, "/api/recommendation", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = h.Handle(context.Background(), makeEvent(http.MethodPost, "/api/moods", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = h.Handle(context.Background(), makeEvent(http.MethodGet, "/api/unknown", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, messageNotFound, parseBody[errorResponse](t, resp.Body).Message)

	resp, err = h.Handle(context.Background(), makeEvent(http.MethodGet, "/healthz", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Zero(t, uc.calls)
}

func TestMetricContentType(t *testing.T) {
	require.Equal(t, "movie", metricContentType(""))
	require.Equal(t, "anime", metricContentType(" Anime "))
	require.Equal(t, "other", metricContentType("podcast"))
}
