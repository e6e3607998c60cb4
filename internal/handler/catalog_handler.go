package handler

import (
	"net/http"

	"patshala-server/internal/domain"

	"github.com/gorilla/mux"
)

// CatalogHandler serves colleges, programs, subjects and the landing stats.
type CatalogHandler struct {
	base
	catalog domain.CatalogService
}

func NewCatalogHandler(catalog domain.CatalogService, logger domain.Logger, debug bool) *CatalogHandler {
	return &CatalogHandler{
		base:    base{logger: logger, debug: debug},
		catalog: catalog,
	}
}

func (h *CatalogHandler) CreateCollege(w http.ResponseWriter, r *http.Request) {
	var input domain.CollegeInput
	if err := h.decodeJSON(r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}
	college, err := h.catalog.CreateCollege(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, college)
}

func (h *CatalogHandler) ListColleges(w http.ResponseWriter, r *http.Request) {
	colleges, err := h.catalog.ListColleges(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, colleges)
}

func (h *CatalogHandler) GetCollege(w http.ResponseWriter, r *http.Request) {
	college, err := h.catalog.GetCollege(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, college)
}

func (h *CatalogHandler) CreateProgram(w http.ResponseWriter, r *http.Request) {
	var input domain.ProgramInput
	if err := h.decodeJSON(r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}
	program, err := h.catalog.CreateProgram(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, program)
}

func (h *CatalogHandler) ListPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := h.catalog.ListPrograms(r.Context(), r.URL.Query().Get("college_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, programs)
}

func (h *CatalogHandler) GetProgram(w http.ResponseWriter, r *http.Request) {
	program, err := h.catalog.GetProgram(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, program)
}

func (h *CatalogHandler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	var input domain.SubjectInput
	if err := h.decodeJSON(r, &input); err != nil {
		h.writeError(w, r, err)
		return
	}
	subject, err := h.catalog.CreateSubject(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, subject)
}

func (h *CatalogHandler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.catalog.ListSubjects(r.Context(), r.URL.Query().Get("program_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, subjects)
}

func (h *CatalogHandler) GetSubject(w http.ResponseWriter, r *http.Request) {
	subject, err := h.catalog.GetSubject(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, subject)
}

func (h *CatalogHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.catalog.Stats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}
