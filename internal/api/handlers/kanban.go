package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hugh/ritum/internal/api/dto"
	"github.com/hugh/ritum/internal/api/middleware"
	"github.com/hugh/ritum/internal/kanban"
)

type KanbanHandler struct {
	svc    *kanban.Service
	logger *slog.Logger
}

func NewKanbanHandler(svc *kanban.Service, logger *slog.Logger) *KanbanHandler {
	return &KanbanHandler{svc: svc, logger: logger}
}

type ColumnRequest struct {
	Title    *string `json:"title"`
	Position *int    `json:"position"`
}

func (r ColumnRequest) Validate(create bool) map[string]string {
	errors := make(map[string]string)

	if create && r.Title == nil {
		errors["title"] = "Title is required"
	} else if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		errors["title"] = "Title cannot be empty"
	}
	if create && r.Position == nil {
		errors["position"] = "Position is required"
	}

	return errors
}

type CardRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	DueDate     *dto.Timestamp `json:"due_date"`
}

func (r CardRequest) Validate(create bool) map[string]string {
	errors := make(map[string]string)

	if create && r.Title == nil {
		errors["title"] = "Title is required"
	} else if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		errors["title"] = "Title cannot be empty"
	}

	return errors
}

type MoveCardRequest struct {
	NewColumnID *uint `json:"new_column_id"`
}

// Board handles GET /board/
func (h *KanbanHandler) Board(w http.ResponseWriter, r *http.Request) {
	board, err := h.svc.Board(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, err, "Failed to load board")
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// CreateColumn handles POST /columns/
func (h *KanbanHandler) CreateColumn(w http.ResponseWriter, r *http.Request) {
	var req ColumnRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(true); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	column, err := h.svc.CreateColumn(r.Context(), middleware.GetUserID(r.Context()), kanban.ColumnInput{
		Title:    strings.TrimSpace(*req.Title),
		Position: *req.Position,
	})
	if err != nil {
		h.writeError(w, err, "Failed to create column")
		return
	}

	writeJSON(w, http.StatusCreated, column)
}

// UpdateColumn handles PATCH /columns/{id}
func (h *KanbanHandler) UpdateColumn(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "id")
	if !ok {
		return
	}

	var req ColumnRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(false); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	column, err := h.svc.UpdateColumn(r.Context(), id, middleware.GetUserID(r.Context()), kanban.ColumnPatch{
		Title:    req.Title,
		Position: req.Position,
	})
	if err != nil {
		h.writeError(w, err, "Failed to update column")
		return
	}

	writeJSON(w, http.StatusOK, column)
}

// DeleteColumn handles DELETE /columns/{id}. Cards in the column are deleted too.
func (h *KanbanHandler) DeleteColumn(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteColumn(r.Context(), id, middleware.GetUserID(r.Context())); err != nil {
		h.writeError(w, err, "Failed to delete column")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateCard handles POST /columns/{id}/cards/
func (h *KanbanHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	columnID, ok := uintParam(w, r, "id")
	if !ok {
		return
	}

	var req CardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(true); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	card, err := h.svc.CreateCard(r.Context(), columnID, middleware.GetUserID(r.Context()), kanban.CardInput{
		Title:       strings.TrimSpace(*req.Title),
		Description: req.Description,
		DueDate:     req.DueDate.Ptr(),
	})
	if err != nil {
		h.writeError(w, err, "Failed to create card")
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

// UpdateCard handles PATCH /cards/{id}
func (h *KanbanHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "id")
	if !ok {
		return
	}

	var req CardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(false); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	card, err := h.svc.UpdateCard(r.Context(), id, middleware.GetUserID(r.Context()), kanban.CardPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate.Ptr(),
	})
	if err != nil {
		h.writeError(w, err, "Failed to update card")
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// MoveCard handles PATCH /cards/{id}/move
func (h *KanbanHandler) MoveCard(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "id")
	if !ok {
		return
	}

	var req MoveCardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.NewColumnID == nil {
		writeValidation(w, map[string]string{"new_column_id": "Destination column is required"})
		return
	}

	card, err := h.svc.MoveCard(r.Context(), id, *req.NewColumnID, middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, err, "Failed to move card")
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// DeleteCard handles DELETE /cards/{id}
func (h *KanbanHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteCard(r.Context(), id, middleware.GetUserID(r.Context())); err != nil {
		h.writeError(w, err, "Failed to delete card")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *KanbanHandler) writeError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, kanban.ErrNotFound):
		writeError(w, http.StatusNotFound, "Card or column not found")
	case errors.Is(err, kanban.ErrConflict):
		writeError(w, http.StatusConflict, "Card was moved by another request")
	default:
		h.logger.Error(msg, "error", err)
		writeError(w, http.StatusInternalServerError, msg)
	}
}
