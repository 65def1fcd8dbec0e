package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hugh/ritum/internal/api/dto"
	"github.com/hugh/ritum/internal/api/middleware"
	"github.com/hugh/ritum/internal/api/validation"
	"github.com/hugh/ritum/internal/database/models"
)

type ProcessHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewProcessHandler(db *gorm.DB, logger *slog.Logger) *ProcessHandler {
	return &ProcessHandler{db: db, logger: logger}
}

type ProcessRequest struct {
	Number     *string `json:"number"`
	ClientName *string `json:"client_name"`
	Type       *string `json:"type"`
	Status     *string `json:"status"`
}

func (r ProcessRequest) Validate(create bool) map[string]string {
	errors := make(map[string]string)

	required := func(field string, v *string) {
		if create && v == nil {
			errors[field] = "Field is required"
		} else if v != nil && strings.TrimSpace(*v) == "" {
			errors[field] = "Field cannot be empty"
		}
	}
	required("number", r.Number)
	required("client_name", r.ClientName)
	if r.Status != nil && strings.TrimSpace(*r.Status) == "" {
		errors["status"] = "Field cannot be empty"
	}

	return errors
}

func (r ProcessRequest) Apply(p *models.Process) {
	if r.Number != nil {
		p.Number = strings.TrimSpace(*r.Number)
	}
	if r.ClientName != nil {
		p.ClientName = strings.TrimSpace(*r.ClientName)
	}
	if r.Type != nil {
		p.Type = *r.Type
	}
	if r.Status != nil {
		p.Status = *r.Status
	}
}

type ProcessUpdateRequest struct {
	Date        *dto.Timestamp `json:"date"`
	Description string         `json:"description"`
}

func (r ProcessUpdateRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Date == nil {
		errors["date"] = "Date is required"
	}
	if strings.TrimSpace(r.Description) == "" {
		errors["description"] = "Description is required"
	}

	return errors
}

type ProcessUpdateResponse struct {
	ID          uint      `json:"id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	ProcessID   uint      `json:"process_id"`
}

type ProcessResponse struct {
	ID         uint                    `json:"id"`
	Number     string                  `json:"number"`
	ClientName string                  `json:"client_name"`
	Type       string                  `json:"type"`
	Status     string                  `json:"status"`
	OwnerID    string                  `json:"owner_id"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
	Updates    []ProcessUpdateResponse `json:"updates"`
}

func updateToResponse(u *models.ProcessUpdate) ProcessUpdateResponse {
	return ProcessUpdateResponse{ID: u.ID, Date: u.Date, Description: u.Description, ProcessID: u.ProcessID}
}

func processToResponse(p *models.Process) ProcessResponse {
	resp := ProcessResponse{
		ID:         p.ID,
		Number:     p.Number,
		ClientName: p.ClientName,
		Type:       p.Type,
		Status:     p.Status,
		OwnerID:    p.OwnerID.String(),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		Updates:    make([]ProcessUpdateResponse, len(p.Updates)),
	}
	for i := range p.Updates {
		resp.Updates[i] = updateToResponse(&p.Updates[i])
	}
	return resp
}

func updatesByDate(db *gorm.DB) *gorm.DB {
	return db.Order("date ASC, id ASC")
}

// List handles GET /processes/
func (h *ProcessHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := pagination(w, r)
	if !ok {
		return
	}

	var processes []models.Process
	if err := h.db.WithContext(r.Context()).
		Preload("Updates", updatesByDate).
		Where("owner_id = ?", middleware.GetUserID(r.Context())).
		Order("id ASC").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&processes).Error; err != nil {
		h.logger.Error("listing processes", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list processes")
		return
	}

	response := make([]ProcessResponse, len(processes))
	for i := range processes {
		response[i] = processToResponse(&processes[i])
	}
	writeJSON(w, http.StatusOK, response)
}

// Create handles POST /processes/
func (h *ProcessHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(true); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	process := models.Process{
		OwnerID: middleware.GetUserID(r.Context()),
		Status:  models.ProcessStatusActive,
	}
	req.Apply(&process)

	if err := h.db.WithContext(r.Context()).Create(&process).Error; err != nil {
		h.writeSaveError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, processToResponse(&process))
}

// Get handles GET /processes/{id}
func (h *ProcessHandler) Get(w http.ResponseWriter, r *http.Request) {
	process, ok := h.owned(w, r, true)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, processToResponse(process))
}

// Update handles PATCH /processes/{id}
func (h *ProcessHandler) Update(w http.ResponseWriter, r *http.Request) {
	process, ok := h.owned(w, r, false)
	if !ok {
		return
	}

	var req ProcessRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(false); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	req.Apply(process)

	if err := h.db.WithContext(r.Context()).Save(process).Error; err != nil {
		h.writeSaveError(w, err)
		return
	}

	if err := updatesByDate(h.db.WithContext(r.Context())).Where("process_id = ?", process.ID).Find(&process.Updates).Error; err != nil {
		h.logger.Error("loading process updates", "error", err)
	}
	writeJSON(w, http.StatusOK, processToResponse(process))
}

// Delete handles DELETE /processes/{id}. Updates go with the process.
func (h *ProcessHandler) Delete(w http.ResponseWriter, r *http.Request) {
	process, ok := h.owned(w, r, false)
	if !ok {
		return
	}

	err := h.db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("process_id = ?", process.ID).Delete(&models.ProcessUpdate{}).Error; err != nil {
			return err
		}
		return tx.Delete(process).Error
	})
	if err != nil {
		h.logger.Error("deleting process", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete process")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListUpdates handles GET /processes/{id}/updates/
func (h *ProcessHandler) ListUpdates(w http.ResponseWriter, r *http.Request) {
	process, ok := h.owned(w, r, true)
	if !ok {
		return
	}

	response := make([]ProcessUpdateResponse, len(process.Updates))
	for i := range process.Updates {
		response[i] = updateToResponse(&process.Updates[i])
	}
	writeJSON(w, http.StatusOK, response)
}

// AddUpdate handles POST /processes/{id}/updates/
func (h *ProcessHandler) AddUpdate(w http.ResponseWriter, r *http.Request) {
	process, ok := h.owned(w, r, false)
	if !ok {
		return
	}

	var req ProcessUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	update := models.ProcessUpdate{
		Date:        req.Date.Time,
		Description: validation.SanitizeString(req.Description),
		ProcessID:   process.ID,
	}
	if err := h.db.WithContext(r.Context()).Create(&update).Error; err != nil {
		h.logger.Error("creating process update", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create update")
		return
	}

	writeJSON(w, http.StatusCreated, updateToResponse(&update))
}

func (h *ProcessHandler) owned(w http.ResponseWriter, r *http.Request, withUpdates bool) (*models.Process, bool) {
	id, ok := uintParam(w, r, "id")
	if !ok {
		return nil, false
	}

	query := h.db.WithContext(r.Context())
	if withUpdates {
		query = query.Preload("Updates", updatesByDate)
	}

	var process models.Process
	if err := query.
		Where("id = ? AND owner_id = ?", id, middleware.GetUserID(r.Context())).
		First(&process).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Process not found")
		} else {
			h.logger.Error("loading process", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get process")
		}
		return nil, false
	}
	return &process, true
}

func (h *ProcessHandler) writeSaveError(w http.ResponseWriter, err error) {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		writeError(w, http.StatusBadRequest, "Process number already registered")
		return
	}
	h.logger.Error("saving process", "error", err)
	writeError(w, http.StatusInternalServerError, "Failed to save process")
}
