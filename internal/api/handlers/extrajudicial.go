package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hugh/ritum/internal/api/middleware"
	"github.com/hugh/ritum/internal/database/models"
	"github.com/hugh/ritum/pkg/crypto"
)

type ExtrajudicialHandler struct {
	db        *gorm.DB
	encryptor *crypto.Encryptor
	logger    *slog.Logger
}

func NewExtrajudicialHandler(db *gorm.DB, encryptor *crypto.Encryptor, logger *slog.Logger) *ExtrajudicialHandler {
	return &ExtrajudicialHandler{db: db, encryptor: encryptor, logger: logger}
}

type CreateCaseRequest struct {
	CaseType string         `json:"caseType"`
	CaseName string         `json:"caseName"`
	Status   string         `json:"status,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

func (r CreateCaseRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.CaseType) == "" {
		errors["caseType"] = "Case type is required"
	}
	if strings.TrimSpace(r.CaseName) == "" {
		errors["caseName"] = "Case name is required"
	}

	return errors
}

// UpdateCaseRequest replaces the data blob and optionally the status.
type UpdateCaseRequest struct {
	Data   map[string]any `json:"data"`
	Status *string        `json:"status,omitempty"`
}

func (r UpdateCaseRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Data == nil {
		errors["data"] = "Data is required"
	}
	if r.Status != nil && strings.TrimSpace(*r.Status) == "" {
		errors["status"] = "Status cannot be empty"
	}

	return errors
}

type CaseResponse struct {
	ID        string         `json:"id"`
	OwnerID   string         `json:"owner_id"`
	CaseType  string         `json:"caseType"`
	CaseName  string         `json:"caseName"`
	Status    string         `json:"status"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (h *ExtrajudicialHandler) toResponse(c *models.ExtrajudicialCase) (CaseResponse, error) {
	data := map[string]any{}
	if c.SealedData != "" {
		if err := h.encryptor.OpenJSON(c.SealedData, &data); err != nil {
			return CaseResponse{}, err
		}
	}
	return CaseResponse{
		ID:        c.ID.String(),
		OwnerID:   c.OwnerID.String(),
		CaseType:  c.CaseType,
		CaseName:  c.CaseName,
		Status:    c.Status,
		Data:      data,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}, nil
}

func (h *ExtrajudicialHandler) seal(data map[string]any) (string, error) {
	if data == nil {
		data = map[string]any{}
	}
	return h.encryptor.SealJSON(data)
}

// List handles GET /api/v1/extrajudicial-cases
func (h *ExtrajudicialHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := pagination(w, r)
	if !ok {
		return
	}

	var cases []models.ExtrajudicialCase
	if err := h.db.WithContext(r.Context()).
		Where("owner_id = ?", middleware.GetUserID(r.Context())).
		Order("created_at ASC, id ASC").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&cases).Error; err != nil {
		h.logger.Error("listing extrajudicial cases", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list cases")
		return
	}

	response := make([]CaseResponse, len(cases))
	for i := range cases {
		resp, err := h.toResponse(&cases[i])
		if err != nil {
			h.logger.Error("opening case data", "case_id", cases[i].ID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to read case data")
			return
		}
		response[i] = resp
	}
	writeJSON(w, http.StatusOK, response)
}

// Create handles POST /api/v1/extrajudicial-cases
func (h *ExtrajudicialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	sealed, err := h.seal(req.Data)
	if err != nil {
		h.logger.Error("sealing case data", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create case")
		return
	}

	c := models.ExtrajudicialCase{
		OwnerID:    middleware.GetUserID(r.Context()),
		CaseType:   strings.TrimSpace(req.CaseType),
		CaseName:   strings.TrimSpace(req.CaseName),
		Status:     models.ExtrajudicialStatusInProgress,
		SealedData: sealed,
	}
	if req.Status != "" {
		c.Status = req.Status
	}

	if err := h.db.WithContext(r.Context()).Create(&c).Error; err != nil {
		h.logger.Error("creating extrajudicial case", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create case")
		return
	}

	h.respond(w, http.StatusCreated, &c)
}

// Get handles GET /api/v1/extrajudicial-cases/{id}
func (h *ExtrajudicialHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.owned(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, c)
}

// Update handles PUT /api/v1/extrajudicial-cases/{id}
func (h *ExtrajudicialHandler) Update(w http.ResponseWriter, r *http.Request) {
	c, ok := h.owned(w, r)
	if !ok {
		return
	}

	var req UpdateCaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	sealed, err := h.seal(req.Data)
	if err != nil {
		h.logger.Error("sealing case data", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update case")
		return
	}
	c.SealedData = sealed
	if req.Status != nil {
		c.Status = strings.TrimSpace(*req.Status)
	}

	if err := h.db.WithContext(r.Context()).Save(c).Error; err != nil {
		h.logger.Error("updating extrajudicial case", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update case")
		return
	}

	h.respond(w, http.StatusOK, c)
}

// Delete handles DELETE /api/v1/extrajudicial-cases/{id}
func (h *ExtrajudicialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.owned(w, r)
	if !ok {
		return
	}

	if err := h.db.WithContext(r.Context()).Delete(c).Error; err != nil {
		h.logger.Error("deleting extrajudicial case", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete case")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ExtrajudicialHandler) respond(w http.ResponseWriter, status int, c *models.ExtrajudicialCase) {
	resp, err := h.toResponse(c)
	if err != nil {
		h.logger.Error("opening case data", "case_id", c.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read case data")
		return
	}
	writeJSON(w, status, resp)
}

func (h *ExtrajudicialHandler) owned(w http.ResponseWriter, r *http.Request) (*models.ExtrajudicialCase, bool) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return nil, false
	}

	var c models.ExtrajudicialCase
	if err := h.db.WithContext(r.Context()).
		Where("id = ? AND owner_id = ?", id, middleware.GetUserID(r.Context())).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Case not found")
		} else {
			h.logger.Error("loading extrajudicial case", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get case")
		}
		return nil, false
	}
	return &c, true
}
