package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"patshala-server/internal/domain"
	apperrors "patshala-server/pkg/errors"
	"patshala-server/pkg/metrics"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

const (
	EngineMuPDF  = "mupdf"
	EngineNative = "native"
)

var pdfMagic = []byte("%PDF-")

// PDFProcessor handles PDF text extraction
type PDFProcessor struct {
	extractor domain.TextExtractor
	cleaner   *TextCleaner
	metrics   *metrics.Metrics
	logger    domain.Logger
}

// NewPDFProcessor creates a new PDF processor
func NewPDFProcessor(extractor domain.TextExtractor, m *metrics.Metrics, logger domain.Logger) *PDFProcessor {
	return &PDFProcessor{
		extractor: extractor,
		cleaner:   NewTextCleaner(),
		metrics:   m,
		logger:    logger,
	}
}

// NewTextExtractor picks the extraction engine by name.
func NewTextExtractor(engine string, logger domain.Logger) domain.TextExtractor {
	switch engine {
	case EngineNative:
		return &NativeExtractor{}
	default:
		return &MuPDFExtractor{logger: logger}
	}
}

// ExtractText extracts and cleans the text layer of a PDF. It never returns
// an empty text on success.
func (p *PDFProcessor) ExtractText(ctx context.Context, data []byte) (*domain.ExtractedText, error) {
	start := time.Now()
	result, err := p.extract(data)

	p.metrics.ObserveExtraction(p.extractor.Name(), pageCount(result), err)
	if err != nil {
		p.logger.Warn("PDF extraction failed", "engine", p.extractor.Name(), "size", len(data), "error", err)
		return nil, err
	}
	p.logger.Debug("PDF extracted",
		"engine", p.extractor.Name(),
		"pages", result.PageCount,
		"chars", result.CharCount,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (p *PDFProcessor) extract(data []byte) (*domain.ExtractedText, error) {
	if len(data) == 0 {
		return nil, apperrors.NewExtractionError("PDF file is empty", nil)
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), pdfMagic) {
		return nil, apperrors.NewExtractionError("File is not a valid PDF", nil)
	}

	raw, err := p.extractor.Extract(data)
	if err != nil {
		return nil, apperrors.NewExtractionError("Failed to read PDF", err)
	}

	nonEmpty := make([]string, 0, len(raw.Pages))
	for _, page := range raw.Pages {
		if strings.TrimSpace(page) != "" {
			nonEmpty = append(nonEmpty, page)
		}
	}

	text := p.cleaner.Clean(strings.Join(nonEmpty, "\n\n"))
	if text == "" {
		return nil, apperrors.NewExtractionError("PDF contains no extractable text", nil)
	}

	return &domain.ExtractedText{
		Text:           text,
		PageCount:      raw.PageCount,
		CharCount:      len([]rune(text)),
		WordCount:      countWords(text),
		ParagraphCount: countParagraphs(text),
		Title:          strings.TrimSpace(raw.Title),
		Author:         strings.TrimSpace(raw.Author),
	}, nil
}

func pageCount(r *domain.ExtractedText) int {
	if r == nil {
		return 0
	}
	return r.PageCount
}

// MuPDFExtractor reads PDFs through MuPDF.
type MuPDFExtractor struct {
	logger domain.Logger
}

func (e *MuPDFExtractor) Name() string { return EngineMuPDF }

func (e *MuPDFExtractor) Extract(data []byte) (*domain.RawDocument, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	meta := doc.Metadata()
	raw := &domain.RawDocument{
		PageCount: doc.NumPage(),
		Title:     meta["title"],
		Author:    meta["author"],
	}
	raw.Pages = make([]string, 0, raw.PageCount)

	for i := 0; i < raw.PageCount; i++ {
		text, err := doc.Text(i)
		if err != nil {
			e.logger.Warn("Failed to extract text from page", "page_num", i+1, "total", raw.PageCount, "error", err)
			continue
		}
		raw.Pages = append(raw.Pages, text)
	}
	return raw, nil
}

// NativeExtractor is a pure Go engine for hosts without MuPDF.
type NativeExtractor struct{}

func (e *NativeExtractor) Name() string { return EngineNative }

func (e *NativeExtractor) Extract(data []byte) (raw *domain.RawDocument, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			raw, err = nil, fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	raw = &domain.RawDocument{PageCount: reader.NumPage()}
	raw.Pages = make([]string, 0, raw.PageCount)

	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= raw.PageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		raw.Pages = append(raw.Pages, text)
	}
	return raw, nil
}
