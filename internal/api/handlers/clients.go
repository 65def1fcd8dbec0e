package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hugh/ritum/internal/api/dto"
	"github.com/hugh/ritum/internal/api/middleware"
	"github.com/hugh/ritum/internal/api/validation"
	"github.com/hugh/ritum/internal/database/models"
)

type ClientHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewClientHandler(db *gorm.DB, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{db: db, logger: logger}
}

// ClientRequest is used for both create and update. On update only the
// fields present in the body change; address is replaced as a whole.
type ClientRequest struct {
	FullName      *string         `json:"fullName"`
	Email         *string         `json:"email"`
	Phone         *string         `json:"phone"`
	CPF           *string         `json:"cpf"`
	RG            *string         `json:"rg"`
	Nationality   *string         `json:"nationality"`
	MaritalStatus *string         `json:"maritalStatus"`
	Profession    *string         `json:"profession"`
	Address       *models.Address `json:"address"`
}

func (r ClientRequest) Validate(create bool) map[string]string {
	errors := make(map[string]string)

	if create && r.FullName == nil {
		errors["fullName"] = "Full name is required"
	}
	if r.FullName != nil && strings.TrimSpace(*r.FullName) == "" {
		errors["fullName"] = "Full name cannot be empty"
	}
	if r.Email != nil && *r.Email != "" && !validation.IsValidEmail(*r.Email) {
		errors["email"] = "Invalid email format"
	}
	if r.CPF != nil && *r.CPF != "" && !validation.IsValidCPF(*r.CPF) {
		errors["cpf"] = "Invalid CPF"
	}
	dto.ValidateAddress("address", r.Address, errors)

	return errors
}

// Apply copies the present fields onto c. CPF is stored as bare digits and
// an empty CPF clears it.
func (r ClientRequest) Apply(c *models.Client) {
	if r.FullName != nil {
		c.FullName = strings.TrimSpace(*r.FullName)
	}
	if r.Email != nil {
		c.Email = strings.TrimSpace(*r.Email)
	}
	if r.Phone != nil {
		c.Phone = *r.Phone
	}
	if r.CPF != nil {
		if digits := validation.NormalizeCPF(*r.CPF); digits != "" {
			c.CPF = &digits
		} else {
			c.CPF = nil
		}
	}
	if r.RG != nil {
		c.RG = *r.RG
	}
	if r.Nationality != nil {
		c.Nationality = *r.Nationality
	}
	if r.MaritalStatus != nil {
		c.MaritalStatus = *r.MaritalStatus
	}
	if r.Profession != nil {
		c.Profession = *r.Profession
	}
	if r.Address != nil {
		c.Address = datatypes.NewJSONType(*r.Address)
	}
}

type ClientResponse struct {
	ID            string          `json:"id"`
	FullName      string          `json:"fullName"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	CPF           *string         `json:"cpf"`
	RG            string          `json:"rg,omitempty"`
	Nationality   string          `json:"nationality,omitempty"`
	MaritalStatus string          `json:"maritalStatus,omitempty"`
	Profession    string          `json:"profession,omitempty"`
	Address       *models.Address `json:"address"`
	LawyerID      string          `json:"lawyerId"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func clientToResponse(c *models.Client) ClientResponse {
	return ClientResponse{
		ID:            c.ID.String(),
		FullName:      c.FullName,
		Email:         c.Email,
		Phone:         c.Phone,
		CPF:           c.CPF,
		RG:            c.RG,
		Nationality:   c.Nationality,
		MaritalStatus: c.MaritalStatus,
		Profession:    c.Profession,
		Address:       c.Address.Data().Ptr(),
		LawyerID:      c.OwnerID.String(),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// List handles GET /api/v1/clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := pagination(w, r)
	if !ok {
		return
	}

	var clients []models.Client
	if err := h.db.WithContext(r.Context()).
		Where("owner_id = ?", middleware.GetUserID(r.Context())).
		Order("created_at ASC, id ASC").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&clients).Error; err != nil {
		h.logger.Error("listing clients", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list clients")
		return
	}

	response := make([]ClientResponse, len(clients))
	for i := range clients {
		response[i] = clientToResponse(&clients[i])
	}
	writeJSON(w, http.StatusOK, response)
}

// Create handles POST /api/v1/clients
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ClientRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(true); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	client := models.Client{OwnerID: middleware.GetUserID(r.Context())}
	req.Apply(&client)

	if err := h.db.WithContext(r.Context()).Create(&client).Error; err != nil {
		h.writeSaveError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, clientToResponse(&client))
}

// Get handles GET /api/v1/clients/{id}
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	client, ok := h.owned(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, clientToResponse(client))
}

// Update handles PUT /api/v1/clients/{id}
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	client, ok := h.owned(w, r)
	if !ok {
		return
	}

	var req ClientRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if errors := req.Validate(false); len(errors) > 0 {
		writeValidation(w, errors)
		return
	}

	req.Apply(client)

	if err := h.db.WithContext(r.Context()).Save(client).Error; err != nil {
		h.writeSaveError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, clientToResponse(client))
}

// Delete handles DELETE /api/v1/clients/{id}
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	client, ok := h.owned(w, r)
	if !ok {
		return
	}

	if err := h.db.WithContext(r.Context()).Delete(client).Error; err != nil {
		h.logger.Error("deleting client", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete client")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ClientHandler) owned(w http.ResponseWriter, r *http.Request) (*models.Client, bool) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return nil, false
	}

	var client models.Client
	if err := h.db.WithContext(r.Context()).
		Where("id = ? AND owner_id = ?", id, middleware.GetUserID(r.Context())).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Client not found")
		} else {
			h.logger.Error("loading client", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get client")
		}
		return nil, false
	}
	return &client, true
}

func (h *ClientHandler) writeSaveError(w http.ResponseWriter, err error) {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		writeError(w, http.StatusBadRequest, "CPF already registered")
		return
	}
	h.logger.Error("saving client", "error", err)
	writeError(w, http.StatusInternalServerError, "Failed to save client")
}
