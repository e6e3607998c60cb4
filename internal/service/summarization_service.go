package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"patshala-server/internal/domain"
	apperrors "patshala-server/pkg/errors"
	"patshala-server/pkg/metrics"
)

const (
	summarySystemPrompt = "You are an expert document summarizer. Provide a clear, concise, and " +
		"well-structured summary of the given text. Highlight the key points, main arguments, " +
		"and important findings. Use bullet points for clarity when appropriate."
	summaryUserPrompt = "Please summarize the following document text:"

	chatSystemPrompt = "You are an AI study assistant. Answer the student's question using only " +
		"the document provided. If the answer is not in the document, say so plainly. " +
		"Keep answers clear and concise."
	chatDocumentChars = 12000
	chatTruncationTag = "[... document truncated ...]"
)

// SummarizationService dispatches one summarization call to the selected provider.
type SummarizationService struct {
	providers       map[domain.Platform]domain.LLMProvider
	defaultPlatform domain.Platform
	maxInputChars   int
	metrics         *metrics.Metrics
	logger          domain.Logger
}

// NewSummarizationService registers the providers by platform. An unknown
// default platform falls back to Groq.
func NewSummarizationService(
	providers []domain.LLMProvider,
	defaultPlatform string,
	maxInputChars int,
	m *metrics.Metrics,
	logger domain.Logger,
) *SummarizationService {
	byPlatform := make(map[domain.Platform]domain.LLMProvider, len(providers))
	for _, p := range providers {
		byPlatform[p.Platform()] = p
	}

	def, err := domain.ParsePlatform(defaultPlatform)
	if err != nil {
		logger.Warn("Unknown default LLM platform, using groq", "value", defaultPlatform)
		def = domain.PlatformGroq
	}

	return &SummarizationService{
		providers:       byPlatform,
		defaultPlatform: def,
		maxInputChars:   maxInputChars,
		metrics:         m,
		logger:          logger,
	}
}

func (s *SummarizationService) DefaultPlatform() domain.Platform {
	return s.defaultPlatform
}

// Summarize sends text to the platform's model. An empty platform selects the default.
func (s *SummarizationService) Summarize(ctx context.Context, text string, platform domain.Platform) (*domain.SummaryResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewEmptyInputError("No text to summarize")
	}
	if platform == "" {
		platform = s.defaultPlatform
	}
	provider, ok := s.providers[platform]
	if !ok {
		return nil, apperrors.NewValidationError("Unsupported platform", string(platform))
	}

	input, truncated := truncateAtParagraph(text, s.maxInputChars)
	if truncated {
		s.logger.Info("Summary input truncated",
			"platform", platform,
			"original_chars", len([]rune(text)),
			"sent_chars", len([]rune(input)),
		)
	}

	start := time.Now()
	summary, err := provider.Complete(ctx, summarySystemPrompt, summaryUserPrompt+"\n\n"+input)
	s.metrics.ObserveSummarization(string(platform), time.Since(start), err)
	if err != nil {
		s.logger.Error("Summarization failed", err, "platform", platform, "model", provider.Model())
		return nil, err
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return nil, apperrors.NewProviderRequestError("Provider returned an empty summary", nil)
	}

	s.logger.Info("Summary generated",
		"platform", platform,
		"model", provider.Model(),
		"input_chars", len([]rune(text)),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return &domain.SummaryResult{
		Summary:    summary,
		Platform:   platform,
		Model:      provider.Model(),
		InputChars: len([]rune(text)),
		WordCount:  countWords(text),
		Truncated:  truncated,
	}, nil
}

// Answer asks the platform's model a question grounded in one document.
func (s *SummarizationService) Answer(ctx context.Context, title, document, question string, platform domain.Platform) (*domain.ChatAnswer, error) {
	if strings.TrimSpace(document) == "" {
		return nil, apperrors.NewEmptyInputError("Note has no text to discuss")
	}
	if platform == "" {
		platform = s.defaultPlatform
	}
	provider, ok := s.providers[platform]
	if !ok {
		return nil, apperrors.NewValidationError("Unsupported platform", string(platform))
	}

	body, truncated := truncateAtParagraph(document, chatDocumentChars)
	if truncated {
		body += "\n\n" + chatTruncationTag
	}
	prompt := fmt.Sprintf("Document title: %s\n\nDocument:\n---\n%s\n---\n\nQuestion: %s", title, body, question)

	start := time.Now()
	reply, err := provider.Complete(ctx, chatSystemPrompt, prompt)
	s.metrics.ObserveSummarization(string(platform), time.Since(start), err)
	if err != nil {
		s.logger.Error("Chat completion failed", err, "platform", platform, "model", provider.Model())
		return nil, err
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return nil, apperrors.NewProviderRequestError("Provider returned an empty answer", nil)
	}

	s.logger.Info("Chat answered", "platform", platform, "model", provider.Model(), "truncated", truncated)
	return &domain.ChatAnswer{
		Response:  reply,
		Platform:  platform,
		Model:     provider.Model(),
		Truncated: truncated,
	}, nil
}

// truncateAtParagraph cuts text to at most limit runes, preferring the last
// paragraph break before the limit. A non-positive limit disables truncation.
func truncateAtParagraph(text string, limit int) (string, bool) {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text, false
	}
	cut := string(runes[:limit])
	if i := strings.LastIndex(cut, "\n\n"); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut), true
}
