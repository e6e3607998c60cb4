package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"patshala-server/internal/domain"
	apperrors "patshala-server/pkg/errors"

	"github.com/gorilla/mux"
)

// NoteHandler handles note upload, browsing and note summaries.
type NoteHandler struct {
	base
	notes       domain.NoteService
	maxFileSize int64
}

func NewNoteHandler(notes domain.NoteService, maxFileSize int64, logger domain.Logger, debug bool) *NoteHandler {
	return &NoteHandler{
		base:        base{logger: logger, debug: debug},
		notes:       notes,
		maxFileSize: maxFileSize,
	}
}

func optionalForm(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return nil
	}
	return &v
}

// Upload stores a PDF note for a subject. Admin only.
func (h *NoteHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r)
	if !ok {
		h.writeError(w, r, apperrors.NewUnauthorizedError("Unauthorized"))
		return
	}

	data, filename, err := readPDFUpload(w, r, h.maxFileSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	input := domain.NoteUploadInput{
		Title:       r.FormValue("title"),
		SubjectID:   strings.TrimSpace(r.FormValue("subject_id")),
		Description: optionalForm(r, "description"),
		Tags:        domain.ParseTags(r.FormValue("tags")),
		FileName:    filename,
		FileSize:    int64(len(data)),
	}

	note, err := h.notes.Upload(r.Context(), claims.UserID, input, bytes.NewReader(data))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.NoteFilter{SubjectID: r.URL.Query().Get("subject_id")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 100 {
			h.writeError(w, r, apperrors.NewValidationError("limit must be between 1 and 100", raw))
			return
		}
		filter.Limit = limit
	}

	notes, err := h.notes.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	note, err := h.notes.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, note)
}

// Summarize summarizes a stored note and records the result for the caller.
func (h *NoteHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var platform domain.Platform
	if raw := r.URL.Query().Get("platform"); raw != "" {
		p, err := domain.ParsePlatform(raw)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		platform = p
	}

	summary, err := h.notes.Summarize(r.Context(), mux.Vars(r)["id"], callerID(r), platform)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

func (h *NoteHandler) ListSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.notes.ListSummaries(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

// Chat answers a question about a stored note. ?platform= overrides the body.
func (h *NoteHandler) Chat(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r)
	if !ok {
		h.writeError(w, r, apperrors.NewUnauthorizedError("User not found in context"))
		return
	}

	var input domain.ChatInput
	if err := h.decodeJSON(r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}
	if raw := r.URL.Query().Get("platform"); raw != "" {
		input.Platform = domain.Platform(raw)
	}

	answer, err := h.notes.Chat(r.Context(), mux.Vars(r)["id"], claims.UserID, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, answer)
}
