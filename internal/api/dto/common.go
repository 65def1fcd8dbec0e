package dto

import (
	"net/http"
	"strconv"

	"github.com/hugh/ritum/internal/api/validation"
	"github.com/hugh/ritum/internal/database/models"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// Pagination is offset based: ?skip=&limit=.
type Pagination struct {
	Skip  int
	Limit int
}

// ParsePagination reads skip and limit. A negative skip becomes 0, a
// non-positive limit becomes DefaultLimit and anything above MaxLimit is
// capped. Non-numeric values are reported as validation errors.
func ParsePagination(r *http.Request) (Pagination, map[string]string) {
	p := Pagination{Limit: DefaultLimit}
	errors := make(map[string]string)

	q := r.URL.Query()
	if v := q.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errors["skip"] = "skip must be an integer"
		} else if n > 0 {
			p.Skip = n
		}
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errors["limit"] = "limit must be an integer"
		} else if n > 0 {
			p.Limit = n
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	return p, errors
}

// ValidateAddress checks the optional parts of an address that have a
// fixed format. Keys are prefixed with field.
func ValidateAddress(field string, a *models.Address, errors map[string]string) {
	if a == nil {
		return
	}
	if a.State != "" && !validation.IsValidUF(a.State) {
		errors[field+".state"] = "Invalid state"
	}
	if a.ZipCode != "" && !validation.IsValidZipCode(a.ZipCode) {
		errors[field+".zipCode"] = "Invalid zip code"
	}
}
