package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/hugh/ritum/internal/api/validation"
	"github.com/hugh/ritum/internal/caselaw"
	"github.com/hugh/ritum/internal/database/models"
	"github.com/hugh/ritum/internal/jurisprudence"
)

type JurisprudenceHandler struct {
	service  *jurisprudence.Service
	searcher caselaw.Searcher
	logger   *slog.Logger
}

func NewJurisprudenceHandler(service *jurisprudence.Service, searcher caselaw.Searcher, logger *slog.Logger) *JurisprudenceHandler {
	return &JurisprudenceHandler{service: service, searcher: searcher, logger: logger}
}

type CaseLawSearchRequest struct {
	Q string `json:"q"`
}

type CaseLawSearchResponse struct {
	Results []caselaw.Result `json:"results"`
}

// Documents handles GET /api/v1/jurisprudence/documents
func (h *JurisprudenceHandler) Documents(w http.ResponseWriter, r *http.Request) {
	query, errs := parseJurisprudenceQuery(r)
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	docs, err := h.service.Search(r.Context(), query)
	if err != nil {
		h.logger.Error("searching jurisprudence", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to search jurisprudence")
		return
	}
	if docs == nil {
		docs = []models.JurisprudenceDocument{}
	}

	writeJSON(w, http.StatusOK, docs)
}

func parseJurisprudenceQuery(r *http.Request) (jurisprudence.Query, map[string]string) {
	values := r.URL.Query()
	errs := make(map[string]string)

	q := jurisprudence.Query{
		Text:   values.Get("q"),
		Courts: values["court"],
		Mode:   values.Get("mode"),
	}
	if !jurisprudence.ValidMode(q.Mode) {
		errs["mode"] = "mode must be substring or relevance"
	}

	if s := values.Get("start_date"); s != "" {
		if t, ok := validation.ParseDate(s); ok {
			q.StartDate = &t
		} else {
			errs["start_date"] = "start_date must be YYYY-MM-DD"
		}
	}
	if s := values.Get("end_date"); s != "" {
		if t, ok := validation.ParseDate(s); ok {
			q.EndDate = &t
		} else {
			errs["end_date"] = "end_date must be YYYY-MM-DD"
		}
	}
	if q.StartDate != nil && q.EndDate != nil && q.EndDate.Before(*q.StartDate) {
		errs["end_date"] = "end_date must not be before start_date"
	}

	for name, dst := range map[string]*int{"skip": &q.Skip, "limit": &q.Limit} {
		s := values.Get(name)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			errs[name] = name + " must be an integer"
			continue
		}
		*dst = n
	}

	q.Normalize()
	return q, errs
}

// SearchCaseLaw handles POST /api/v1/jurisprudence/search against DataJud.
func (h *JurisprudenceHandler) SearchCaseLaw(w http.ResponseWriter, r *http.Request) {
	var req CaseLawSearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	query := strings.TrimSpace(req.Q)
	if query == "" {
		writeValidation(w, map[string]string{"q": "Query is required"})
		return
	}

	results, err := h.searcher.Search(r.Context(), query)
	if err != nil {
		var upstream *caselaw.UpstreamError
		switch {
		case errors.Is(err, caselaw.ErrNotConfigured):
			writeError(w, http.StatusServiceUnavailable, "Case-law search is not configured")
		case errors.As(err, &upstream):
			h.logger.Warn("datajud rejected query", "status", upstream.StatusCode)
			writeError(w, upstream.StatusCode, "DataJud API error: "+upstream.Detail)
		default:
			h.logger.Error("searching case law", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to search case law")
		}
		return
	}
	if results == nil {
		results = []caselaw.Result{}
	}

	writeJSON(w, http.StatusOK, CaseLawSearchResponse{Results: results})
}
