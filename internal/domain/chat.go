package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const maxChatMessageRunes = 4000

// ChatInput is a question about one note.
type ChatInput struct {
	Message  string   `json:"message"`
	Platform Platform `json:"platform,omitempty"`
}

func (in *ChatInput) Validate() error {
	in.Message = strings.TrimSpace(in.Message)
	if in.Message == "" {
		return &ValidationError{Field: "message", Message: "is required"}
	}
	if utf8.RuneCountInString(in.Message) > maxChatMessageRunes {
		return &ValidationError{Field: "message", Message: "must be at most 4000 characters"}
	}
	if in.Platform != "" {
		p, err := ParsePlatform(string(in.Platform))
		if err != nil {
			return err
		}
		in.Platform = p
	}
	return nil
}

// ChatAnswer is the model's reply to a ChatInput.
type ChatAnswer struct {
	Response  string   `json:"response"`
	Platform  Platform `json:"platform"`
	Model     string   `json:"model"`
	Truncated bool     `json:"truncated,omitempty"`
}

// ChatLog records that a question was asked about a note.
type ChatLog struct {
	ID        string
	UserID    string
	NoteID    string
	Question  string
	Platform  Platform
	CreatedAt time.Time
}
