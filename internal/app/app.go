// Package app wires configuration into the recommendation handler. Both
// entrypoints build their handler here so they behave identically.
package app

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog"

	"mood-recommender/handler"
	"mood-recommender/internal/config"
	"mood-recommender/internal/integrations/openai"
	"mood-recommender/internal/integrations/paramstore"
	"mood-recommender/internal/usecase"
)

// SecretLoader resolves a named parameter to a credential.
type SecretLoader func(ctx context.Context, name string) (string, error)

// SSMSecretLoader reads parameters through the default AWS credential chain.
func SSMSecretLoader(ctx context.Context, name string) (string, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("load AWS config: %w", err)
	}
	client, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		return "", err
	}
	return paramstore.Secret(ctx, client, name)
}

// APIKey returns the configured key, falling back to the parameter store.
// It is read once; an empty key is passed through and rejected upstream.
func APIKey(ctx context.Context, cfg config.Config, load SecretLoader) (string, error) {
	if !cfg.NeedsParamStore() {
		return cfg.OpenAI.APIKey, nil
	}
	if load == nil {
		load = SSMSecretLoader
	}
	key, err := load(ctx, cfg.OpenAI.APIKeyParam)
	if err != nil {
		return "", fmt.Errorf("read API key from %q: %w", cfg.OpenAI.APIKeyParam, err)
	}
	return key, nil
}

// NewHandler builds the OpenAI client, recommendation service and handler.
func NewHandler(ctx context.Context, cfg config.Config, load SecretLoader, opts ...handler.Option) (*handler.Handler, error) {
	apiKey, err := APIKey(ctx, cfg, load)
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		zerolog.Ctx(ctx).Warn().Msg("OPENAI_API_KEY is not set; upstream calls will fail")
	}

	llm, err := openai.NewClient(apiKey,
		openai.WithBaseURL(cfg.OpenAI.BaseURL),
		openai.WithTimeout(cfg.OpenAI.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create OpenAI client: %w", err)
	}

	svc, err := usecase.NewRecommendService(llm, cfg.OpenAI.Model)
	if err != nil {
		return nil, fmt.Errorf("create recommend service: %w", err)
	}

	h, err := handler.NewHandler(svc, opts...)
	if err != nil {
		return nil, fmt.Errorf("create handler: %w", err)
	}
	return h, nil
}
