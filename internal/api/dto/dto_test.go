package dto

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugh/ritum/internal/database/models"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantSkip  int
		wantLimit int
		wantErr   bool
	}{
		{"defaults", "", 0, DefaultLimit, false},
		{"explicit", "?skip=20&limit=10", 20, 10, false},
		{"negative skip", "?skip=-5", 0, DefaultLimit, false},
		{"zero limit", "?limit=0", 0, DefaultLimit, false},
		{"capped", "?limit=10000", 0, MaxLimit, false},
		{"not a number", "?skip=abc", 0, DefaultLimit, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, errs := ParsePagination(httptest.NewRequest("GET", "/processes/"+tt.query, nil))
			assert.Equal(t, tt.wantSkip, p.Skip)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantErr, len(errs) > 0)
		})
	}
}

func TestSignupRequest_Validate(t *testing.T) {
	valid := SignupRequest{Email: "test@example.com", Password: "password123", Name: "Test"}
	assert.Empty(t, valid.Validate())

	bad := SignupRequest{
		Email:    "not-an-email",
		Password: "short",
		OABState: "XX",
		CPF:      "123.456.789-00",
		Address:  &models.Address{State: "ZZ", ZipCode: "abc"},
	}
	errs := bad.Validate()
	for _, key := range []string{"email", "password", "name", "oab_state", "cpf", "address.state", "address.zipCode"} {
		assert.Contains(t, errs, key)
	}

	in := SignupRequest{Email: "a@b.co", Password: "password123", Name: "  Ana ", OABState: "sp"}.Input()
	assert.Equal(t, "Ana", in.Name)
	assert.Equal(t, "SP", in.OABState)
}

func TestUpdateUserRequest_Validate(t *testing.T) {
	empty := ""
	assert.Contains(t, UpdateUserRequest{Name: &empty}.Validate(), "name")
	assert.Empty(t, UpdateUserRequest{CPF: &empty}.Validate())

	phone := "11988887777"
	upd := UpdateUserRequest{Phone: &phone}.Update()
	assert.Equal(t, &phone, upd.Phone)
	assert.Nil(t, upd.Name)
}

func TestPasswordUpdateRequest_Validate(t *testing.T) {
	assert.Empty(t, PasswordUpdateRequest{CurrentPassword: "x", NewPassword: "newpassword"}.Validate())
	errs := PasswordUpdateRequest{NewPassword: "short"}.Validate()
	assert.Contains(t, errs, "current_password")
	assert.Contains(t, errs, "new_password")
}

func TestTimestamp(t *testing.T) {
	var v struct {
		At *Timestamp `json:"at"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"at":"2024-03-15"}`), &v))
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), v.At.Time)

	require.NoError(t, json.Unmarshal([]byte(`{"at":"2024-03-15T10:30:00-03:00"}`), &v))
	assert.Equal(t, time.Date(2024, 3, 15, 13, 30, 0, 0, time.UTC), v.At.Time)

	v.At = nil
	require.NoError(t, json.Unmarshal([]byte(`{}`), &v))
	assert.Nil(t, v.At.Ptr())

	assert.Error(t, json.Unmarshal([]byte(`{"at":"15/03/2024"}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"at":17}`), &v))

	out, err := json.Marshal(Timestamp{time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-15T00:00:00Z"`, string(out))
}

func TestDate(t *testing.T) {
	var v struct {
		On Date `json:"on"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"on":"2025-03-10"}`), &v))
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), v.On.Time)

	// Late evening in Brasília is already the next day in UTC.
	require.NoError(t, json.Unmarshal([]byte(`{"on":"2025-03-10T22:00:00-03:00"}`), &v))
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), v.On.Time)

	require.NoError(t, json.Unmarshal([]byte(`{"on":"2025-03-11T01:00:00+05:00"}`), &v))
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), v.On.Time)

	assert.Error(t, json.Unmarshal([]byte(`{"on":"10/03/2025"}`), &v))

	out, err := json.Marshal(v.On)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-11"`, string(out))
}
