package domain

// RawDocument is what an extraction engine returns before cleanup.
type RawDocument struct {
	Pages     []string
	PageCount int
	Title     string
	Author    string
}

// ExtractedText is the cleaned result of a PDF extraction.
type ExtractedText struct {
	Text           string `json:"text"`
	PageCount      int    `json:"page_count"`
	CharCount      int    `json:"character_count"`
	WordCount      int    `json:"word_count"`
	ParagraphCount int    `json:"paragraph_count"`
	Title          string `json:"title,omitempty"`
	Author         string `json:"author,omitempty"`
}
