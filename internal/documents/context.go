package documents

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/hugh/ritum/internal/database/models"
)

// ClientData is the client qualification sent by the caller.
type ClientData struct {
	FullName      string          `json:"fullName,omitempty"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	CPF           string          `json:"cpf,omitempty"`
	RG            string          `json:"rg,omitempty"`
	Nationality   string          `json:"nationality,omitempty"`
	MaritalStatus string          `json:"maritalStatus,omitempty"`
	Profession    string          `json:"profession,omitempty"`
	Address       *models.Address `json:"address,omitempty"`
}

// LawyerData is filled from the authenticated user.
type LawyerData struct {
	Name      string          `json:"name,omitempty"`
	Email     string          `json:"email,omitempty"`
	OABNumber string          `json:"oab_number,omitempty"`
	OABState  string          `json:"oab_state,omitempty"`
	CPF       string          `json:"cpf,omitempty"`
	Phone     string          `json:"phone,omitempty"`
	Address   *models.Address `json:"address,omitempty"`
}

type CaseDetails struct {
	ProcessNumber string `json:"processNumber,omitempty"`
	CourtName     string `json:"courtName,omitempty"`
}

// BuildContext flattens the three sources into client_*, lawyer_* and
// case_* keys. Nested objects become client_address_city and so on.
// lawyer_oab is "<number>/<state>".
func BuildContext(client ClientData, lawyer LawyerData, details CaseDetails) (map[string]string, error) {
	ctx := make(map[string]string)
	for prefix, v := range map[string]any{"client": client, "lawyer": lawyer, "case": details} {
		if err := flatten(ctx, prefix, v); err != nil {
			return nil, err
		}
	}
	ctx["lawyer_oab"] = lawyer.OABNumber + "/" + lawyer.OABState
	return ctx, nil
}

func flatten(dst map[string]string, prefix string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s data: %w", prefix, err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("decoding %s data: %w", prefix, err)
	}
	flattenMap(dst, prefix, m)
	return nil
}

func flattenMap(dst map[string]string, prefix string, m map[string]any) {
	for k, v := range m {
		key := prefix + "_" + k
		switch val := v.(type) {
		case map[string]any:
			flattenMap(dst, key, val)
		case string:
			dst[key] = val
		case float64:
			dst[key] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			dst[key] = strconv.FormatBool(val)
		case nil:
		default:
			dst[key] = fmt.Sprint(val)
		}
	}
}
