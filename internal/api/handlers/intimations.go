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

type IntimationHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewIntimationHandler(db *gorm.DB, logger *slog.Logger) *IntimationHandler {
	return &IntimationHandler{db: db, logger: logger}
}

type IntimationRequest struct {
	PublicationDate *dto.Date `json:"publication_date"`
	ProcessNumber   string    `json:"process_number"`
	Content         string    `json:"content"`
}

func (r IntimationRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.PublicationDate == nil {
		errors["publication_date"] = "Publication date is required"
	}
	if strings.TrimSpace(r.ProcessNumber) == "" {
		errors["process_number"] = "Process number is required"
	}
	if strings.TrimSpace(r.Content) == "" {
		errors["content"] = "Content is required"
	}

	return errors
}

type IntimationResponse struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	PublicationDate string    `json:"publication_date"`
	ProcessNumber   string    `json:"process_number"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"created_at"`
}

type IntimationStats struct {
	Count int64 `json:"count"`
}

func intimationToResponse(i *models.Intimation) IntimationResponse {
	return IntimationResponse{
		ID:              i.ID.String(),
		OwnerID:         i.OwnerID.String(),
		PublicationDate: i.PublicationDate.UTC().Format(validation.DateLayout),
		ProcessNumber:   i.ProcessNumber,
		Content:         i.Content,
		CreatedAt:       i.CreatedAt,
	}
}

// List handles GET /api/v1/intimations, newest publication first.
func (h *IntimationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := pagination(w, r)
	if !ok {
		return
	}

	var intimations []models.Intimation
	if err := h.db.WithContext(r.Context()).
		Where("owner_id = ?", middleware.GetUserID(r.Context())).
		Order("publication_date DESC, created_at DESC").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&intimations).Error; err != nil {
		h.logger.Error("listing intimations", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list intimations")
		return
	}

	response := make([]IntimationResponse, len(intimations))
	for i := range intimations {
		response[i] = intimationToResponse(&intimations[i])
	}
	writeJSON(w, http.StatusOK, response)
}

// Create handles POST /api/v1/intimations
func (h *IntimationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req IntimationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	intimation := models.Intimation{
		OwnerID:         middleware.GetUserID(r.Context()),
		PublicationDate: req.PublicationDate.Time,
		ProcessNumber:   strings.TrimSpace(req.ProcessNumber),
		Content:         validation.SanitizeString(req.Content),
	}

	if err := h.db.WithContext(r.Context()).Create(&intimation).Error; err != nil {
		h.logger.Error("creating intimation", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create intimation")
		return
	}

	writeJSON(w, http.StatusCreated, intimationToResponse(&intimation))
}

// Get handles GET /api/v1/intimations/{id}
func (h *IntimationHandler) Get(w http.ResponseWriter, r *http.Request) {
	intimation, ok := h.owned(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, intimationToResponse(intimation))
}

// Delete handles DELETE /api/v1/intimations/{id}
func (h *IntimationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	intimation, ok := h.owned(w, r)
	if !ok {
		return
	}

	if err := h.db.WithContext(r.Context()).Delete(intimation).Error; err != nil {
		h.logger.Error("deleting intimation", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete intimation")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/v1/intimations/stats. Both bounds are whole days
// and inclusive.
func (h *IntimationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	errs := make(map[string]string)

	start, ok := validation.ParseDate(q.Get("start_date"))
	if !ok {
		errs["start_date"] = "start_date must be YYYY-MM-DD"
	}
	end, ok := validation.ParseDate(q.Get("end_date"))
	if !ok {
		errs["end_date"] = "end_date must be YYYY-MM-DD"
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	var count int64
	if err := h.db.WithContext(r.Context()).
		Model(&models.Intimation{}).
		Where("owner_id = ?", middleware.GetUserID(r.Context())).
		Where("publication_date >= ? AND publication_date < ?", start, end.AddDate(0, 0, 1)).
		Count(&count).Error; err != nil {
		h.logger.Error("counting intimations", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to count intimations")
		return
	}

	writeJSON(w, http.StatusOK, IntimationStats{Count: count})
}

func (h *IntimationHandler) owned(w http.ResponseWriter, r *http.Request) (*models.Intimation, bool) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return nil, false
	}

	var intimation models.Intimation
	if err := h.db.WithContext(r.Context()).
		Where("id = ? AND owner_id = ?", id, middleware.GetUserID(r.Context())).
		First(&intimation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Intimation not found")
		} else {
			h.logger.Error("loading intimation", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get intimation")
		}
		return nil, false
	}
	return &intimation, true
}
