package domain

import (
	"strings"
	"time"
)

// Platform selects the hosted LLM API used for summarization.
type Platform string

const (
	PlatformGroq       Platform = "groq"
	PlatformOpenRouter Platform = "openrouter"
)

// Platforms lists every supported provider.
var Platforms = []Platform{PlatformGroq, PlatformOpenRouter}

// ParsePlatform maps a user supplied name onto a Platform.
func ParsePlatform(raw string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(raw))) {
	case PlatformGroq:
		return PlatformGroq, nil
	case PlatformOpenRouter:
		return PlatformOpenRouter, nil
	}
	return "", &ValidationError{
		Field:   "platform",
		Message: "unsupported platform " + `"` + raw + `"` + ", expected groq or openrouter",
	}
}

func (p Platform) String() string {
	return string(p)
}

// ProviderSettings is the per-platform part of the configuration.
type ProviderSettings struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// SummaryResult is what a single summarization call produced.
type SummaryResult struct {
	Summary    string   `json:"summary"`
	Platform   Platform `json:"platform"`
	Model      string   `json:"model"`
	InputChars int      `json:"original_text_length"`
	WordCount  int      `json:"word_count"`
	Truncated  bool     `json:"truncated,omitempty"`
}
