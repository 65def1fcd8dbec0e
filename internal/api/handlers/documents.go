package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hugh/ritum/internal/api/middleware"
	"github.com/hugh/ritum/internal/database/models"
	"github.com/hugh/ritum/internal/documents"
)

type DocumentHandler struct {
	generator *documents.Generator
	logger    *slog.Logger
}

func NewDocumentHandler(generator *documents.Generator, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{generator: generator, logger: logger}
}

// Templates handles GET /api/v1/document-templates
func (h *DocumentHandler) Templates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, documents.Templates())
}

// Generate handles POST /api/v1/documents/generate
func (h *DocumentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req documents.Request
	if !decodeJSON(w, r, &req) {
		return
	}

	errs := make(map[string]string)
	if strings.TrimSpace(req.TemplateID) == "" {
		errs["templateId"] = "Template is required"
	}
	if strings.TrimSpace(req.ClientData.FullName) == "" {
		errs["clientData.fullName"] = "Client full name is required"
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	result, err := h.generator.Generate(r.Context(), req, lawyerData(middleware.GetUser(r.Context())))
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrTemplateNotFound):
			writeError(w, http.StatusNotFound, "Template not found")
			return
		case errors.Is(err, documents.ErrRendererUnavailable):
			writeError(w, http.StatusServiceUnavailable, "PDF rendering is not available")
			return
		}
		h.logger.Error("generating document", "template", req.TemplateID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate document")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func lawyerData(u *models.User) documents.LawyerData {
	if u == nil {
		return documents.LawyerData{}
	}
	return documents.LawyerData{
		Name:      u.Name,
		Email:     u.Email,
		OABNumber: u.OABNumber,
		OABState:  u.OABState,
		CPF:       u.CPF,
		Phone:     u.Phone,
		Address:   u.Address.Data().Ptr(),
	}
}
