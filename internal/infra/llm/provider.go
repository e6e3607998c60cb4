// Package llm talks to OpenAI compatible chat-completion APIs.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"patshala-server/internal/domain"
	apperrors "patshala-server/pkg/errors"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// Provider is a domain.LLMProvider backed by one hosted endpoint.
type Provider struct {
	platform domain.Platform
	model    string
	hasKey   bool
	client   openai.Client
	logger   domain.Logger
}

// NewProvider builds a client for the platform. Retries are disabled: every
// Complete call is exactly one HTTP request.
func NewProvider(platform domain.Platform, settings domain.ProviderSettings, logger domain.Logger) *Provider {
	opts := []option.RequestOption{
		option.WithAPIKey(settings.APIKey),
		option.WithMaxRetries(0),
		option.WithBaseURL(normalizeBaseURL(settings.BaseURL)),
		option.WithHTTPClient(&http.Client{Timeout: settings.Timeout}),
	}
	if platform == domain.PlatformOpenRouter {
		opts = append(opts,
			option.WithHeader("HTTP-Referer", "https://patshala.ai"),
			option.WithHeader("X-Title", "Patshal.ai"),
		)
	}

	return &Provider{
		platform: platform,
		model:    settings.Model,
		hasKey:   strings.TrimSpace(settings.APIKey) != "",
		client:   openai.NewClient(opts...),
		logger:   logger,
	}
}

// NewProviders builds one provider per supported platform.
func NewProviders(cfg domain.Config, logger domain.Logger) []domain.LLMProvider {
	providers := make([]domain.LLMProvider, 0, len(domain.Platforms))
	for _, p := range domain.Platforms {
		providers = append(providers, NewProvider(p, cfg.GetProviderSettings(p), logger))
	}
	return providers
}

func (p *Provider) Platform() domain.Platform { return p.platform }

func (p *Provider) Model() string { return p.model }

// Complete sends a system and a user message and returns the reply text.
func (p *Provider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !p.hasKey {
		return "", apperrors.NewProviderAuthError(
			fmt.Sprintf("%s API key is not configured", p.platform), nil)
	}

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		return "", p.classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.NewProviderRequestError(
			fmt.Sprintf("%s returned no choices", p.platform), nil)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", apperrors.NewProviderRequestError(
			fmt.Sprintf("%s returned an empty summary", p.platform), nil)
	}
	return content, nil
}

// classify maps transport and API failures onto the provider error kinds.
func (p *Provider) classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		p.logger.Warn("LLM request rejected", "platform", p.platform, "status", apiErr.StatusCode)
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.NewProviderAuthError(
				fmt.Sprintf("%s rejected the API key", p.platform), err)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return apperrors.NewProviderTimeoutError(
				fmt.Sprintf("%s timed out", p.platform), err)
		default:
			return apperrors.NewProviderRequestError(
				fmt.Sprintf("%s request failed with status %d", p.platform, apiErr.StatusCode), err)
		}
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperrors.NewProviderTimeoutError(fmt.Sprintf("%s timed out", p.platform), err)
	}
	return apperrors.NewProviderRequestError(fmt.Sprintf("%s request failed", p.platform), err)
}

func normalizeBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}
