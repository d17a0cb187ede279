package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"mood-recommender/internal/domain"
)

const defaultModel = "gpt-4o"

// LLMClient runs one chat completion and returns the raw content of the
// first choice. An empty string means the model produced nothing.
type LLMClient interface {
	Chat(ctx context.Context, model string, messages []domain.ChatMessage) (string, error)
}

type RecommendService struct {
	llm      LLMClient
	model    string
	validate *validator.Validate
}

type RecommendInput struct {
	Mood        string `validate:"required"`
	Language    string `validate:"required"`
	MinRating   *float64
	ContentType string
}

type RecommendOutput struct {
	// Recommendation is the model's JSON object, returned verbatim.
	Recommendation []byte
	// ContentType is the normalized category the prompt asked for.
	ContentType domain.ContentType
}

// NewRecommendService wires the service to an LLM. An empty model selects gpt-4o.
func NewRecommendService(llm LLMClient, model string) (*RecommendService, error) {
	if llm == nil {
		return nil, errors.New("usecase: llm client must not be nil")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = defaultModel
	}
	return &RecommendService{
		llm:      llm,
		model:    model,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// InputFromRequest maps the wire body onto the service input.
func InputFromRequest(req domain.RecommendationRequest) RecommendInput {
	return RecommendInput{
		Mood:        req.Mood,
		Language:    req.Language,
		MinRating:   req.MinRating,
		ContentType: req.ContentType,
	}
}

// Recommend validates the input, asks the model once and returns its answer.
// Nothing is retried or cached.
func (s *RecommendService) Recommend(ctx context.Context, in RecommendInput) (RecommendOutput, error) {
	if s == nil || s.llm == nil || s.validate == nil {
		return RecommendOutput{}, newError(ErrorInternal, "service_not_configured", "", errors.New("usecase: recommend service is not configured"))
	}
	if err := s.validate.Struct(in); err != nil {
		return RecommendOutput{}, newError(ErrorInvalidInput, "missing_required_field", MessageMissingRequired, err)
	}
	p := resolveParams(in)
	logger := zerolog.Ctx(ctx).With().
		Str("mood", p.mood).
		Str("language", p.language).
		Str("content_type", p.label).
		Float64("min_rating", p.minRating).
		Logger()

	raw, err := s.llm.Chat(ctx, s.model, buildPromptMessages(p))
	if err != nil {
		logger.Error().Err(err).Msg("recommendation request to model failed")
		return RecommendOutput{}, upstreamError(p.label, "llm_error", err)
	}

	body, err := parseRecommendation(raw)
	if err != nil {
		reason := "llm_malformed_response"
		if errors.Is(err, errNoContent) {
			reason = "llm_empty_content"
		}
		logger.Error().Err(err).Str("reason", reason).Msg("model response rejected")
		return RecommendOutput{}, upstreamError(p.label, reason, err)
	}

	if issues := auditRecommendation(p, body); len(issues) > 0 {
		logger.Warn().Strs("issues", issues).Msg("recommendation does not follow the prompt")
	}
	return RecommendOutput{Recommendation: body, ContentType: p.contentType}, nil
}
