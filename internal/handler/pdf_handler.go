package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"patshala-server/internal/domain"
	apperrors "patshala-server/pkg/errors"
)

const multipartMemory = 32 << 20

var allowedPDFContentTypes = map[string]bool{
	"":                         true,
	"application/pdf":          true,
	"application/octet-stream": true,
}

// readPDFUpload validates the multipart "file" field and returns its bytes.
func readPDFUpload(w http.ResponseWriter, r *http.Request, maxSize int64) ([]byte, string, error) {
	// Leave room for the other form fields.
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return nil, "", apperrors.NewValidationError("File exceeds the maximum upload size")
		}
		return nil, "", apperrors.NewValidationError("Expected a multipart form upload", err.Error())
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", apperrors.NewValidationError("File is required")
	}
	defer file.Close()

	// Sanitize filename (strip any path components)
	filename := strings.TrimSpace(filepath.Base(header.Filename))
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return nil, "", apperrors.NewValidationError("Only PDF files are supported", filename)
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(header.Header.Get("Content-Type"), ";")[0]))
	if !allowedPDFContentTypes[contentType] {
		return nil, "", apperrors.NewValidationError("Invalid content type, expected application/pdf", contentType)
	}
	if header.Size > maxSize {
		return nil, "", apperrors.NewValidationError("File exceeds the maximum upload size")
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, "", apperrors.NewValidationError("Failed to read uploaded file", err.Error())
	}
	if int64(len(data)) > maxSize {
		return nil, "", apperrors.NewValidationError("File exceeds the maximum upload size")
	}
	if len(data) == 0 {
		return nil, "", apperrors.NewValidationError("Empty file uploaded")
	}
	return data, filename, nil
}

// PDFHandler handles HTTP requests for PDF operations
type PDFHandler struct {
	base
	processor   domain.PDFProcessor
	summarizer  domain.Summarizer
	notes       domain.NoteService
	maxFileSize int64
}

// NewPDFHandler creates a new PDF handler instance. notes may be nil when
// persistence is disabled.
func NewPDFHandler(
	processor domain.PDFProcessor,
	summarizer domain.Summarizer,
	notes domain.NoteService,
	maxFileSize int64,
	logger domain.Logger,
	debug bool,
) *PDFHandler {
	return &PDFHandler{
		base:        base{logger: logger, debug: debug},
		processor:   processor,
		summarizer:  summarizer,
		notes:       notes,
		maxFileSize: maxFileSize,
	}
}

type extractResponse struct {
	*domain.ExtractedText
	Filename string `json:"filename"`
}

type summarizeResponse struct {
	*domain.SummaryResult
	Filename  string `json:"filename"`
	SummaryID string `json:"summary_id,omitempty"`
}

// Extract returns the cleaned text of an uploaded PDF.
func (h *PDFHandler) Extract(w http.ResponseWriter, r *http.Request) {
	data, filename, err := readPDFUpload(w, r, h.maxFileSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info("Extracting PDF", "filename", filename, "size", len(data))
	extracted, err := h.processor.ExtractText(r.Context(), data)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, extractResponse{ExtractedText: extracted, Filename: filename})
}

// Summarize extracts an uploaded PDF and summarizes it with the requested
// platform. With note_id set the summary is also stored against that note.
func (h *PDFHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var platform domain.Platform
	if raw := r.URL.Query().Get("platform"); raw != "" {
		p, err := domain.ParsePlatform(raw)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		platform = p
	}

	noteID := strings.TrimSpace(r.URL.Query().Get("note_id"))
	if noteID != "" {
		if h.notes == nil {
			h.logger.Warn("note_id ignored, persistence is disabled", "note_id", noteID)
			noteID = ""
		} else if _, err := h.notes.Get(r.Context(), noteID); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	data, filename, err := readPDFUpload(w, r, h.maxFileSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info("Summarizing PDF", "filename", filename, "size", len(data), "platform", platform)
	extracted, err := h.processor.ExtractText(r.Context(), data)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.summarizer.Summarize(r.Context(), extracted.Text, platform)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := summarizeResponse{SummaryResult: result, Filename: filename}
	if noteID != "" {
		summary, err := h.notes.RecordSummary(r.Context(), noteID, callerID(r), filename, result)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		resp.SummaryID = summary.ID
	}

	h.writeJSON(w, http.StatusOK, resp)
}
