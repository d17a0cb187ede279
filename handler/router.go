package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"mood-recommender/internal/logging"
)

type RouterConfig struct {
	CORSAllowedOrigins []string
}

// NewRouter exposes the handler over plain HTTP for the standalone server.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	origins := cfg.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(correlationID)
	r.Use(h.requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", headerCorrelationID},
		ExposedHeaders: []string{headerCorrelationID},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeReply(w, errorReply(http.StatusNotFound, messageNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeReply(w, errorReply(http.StatusMethodNotAllowed, messageMethodNotAllowed))
	})

	r.Post(routeRecommendation, h.ServeRecommendation)
	for _, route := range []string{routeMoods, routeLanguages, routeContentTypes} {
		r.Get(route, func(w http.ResponseWriter, _ *http.Request) {
			writeReply(w, h.catalog(route))
		})
	}
	r.Get(routeHealth, func(w http.ResponseWriter, _ *http.Request) {
		writeReply(w, health())
	})
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}
	return r
}

// ServeRecommendation handles POST /api/recommendation. The model call is not
// cancelled when the client goes away; the upstream timeout bounds it.
func (h *Handler) ServeRecommendation(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeReply(w, errorReply(http.StatusBadRequest, messageInvalidBody))
		return
	}
	writeReply(w, h.recommend(context.WithoutCancel(r.Context()), body))
}

func writeReply(w http.ResponseWriter, out reply) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(out.status)
	_, _ = w.Write(out.body)
}

func correlationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerCorrelationID)
		if id == "" {
			id = newCorrelationID()
		}
		w.Header().Set(headerCorrelationID, id)
		ctx, _ := logging.WithCorrelationID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		h.metrics.ObserveHTTP(r.Method, route, status, duration)

		var event *zerolog.Event
		if status >= http.StatusInternalServerError {
			event = zerolog.Ctx(r.Context()).Error()
		} else {
			event = zerolog.Ctx(r.Context()).Info()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_ip", r.RemoteAddr).
			Str("user_agent", r.UserAgent()).
			Int("status", status).
			Dur("duration", duration).
			Msg("http request served")
	})
}
