package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"valid_simple", "user@example.com", true},
		{"valid_subdomain", "user@mail.example.com", true},
		{"valid_plus", "user+tag@example.com", true},
		{"valid_dash", "user-name@example.com", true},
		{"valid_dot", "user.name@example.com", true},
		{"valid_numbers", "user123@example456.com", true},
		{"invalid_no_at", "userexample.com", false},
		{"invalid_no_domain", "user@", false},
		{"invalid_no_user", "@example.com", false},
		{"invalid_double_at", "user@@example.com", false},
		{"invalid_spaces", "user @example.com", false},
		{"invalid_no_tld", "user@example", false},
		{"too_long", "a" + string(make([]byte, 250)) + "@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidEmail(tt.email)
			assert.Equal(t, tt.valid, result, "Email: %s", tt.email)
		})
	}
}

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		name  string
		uuid  string
		valid bool
	}{
		{"valid_uuid", "550e8400-e29b-41d4-a716-446655440000", true},
		{"valid_uppercase", "550E8400-E29B-41D4-A716-446655440000", true},
		{"invalid_short", "550e8400-e29b-41d4-a716", false},
		{"invalid_no_dashes", "550e8400e29b41d4a716446655440000", false},
		{"invalid_letters", "ggge8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidUUID(tt.uuid)
			assert.Equal(t, tt.valid, result, "UUID: %s", tt.uuid)
		})
	}
}

func TestIsValidPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"minimum", "password", true},
		{"spec_example", "password123", true},
		{"too_short", "pass123", false},
		{"empty", "", false},
		{"max_length", string(make([]byte, 128)), true},
		{"too_long", string(make([]byte, 129)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg := IsValidPassword(tt.password)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestIsValidCPF(t *testing.T) {
	tests := []struct {
		name  string
		cpf   string
		valid bool
	}{
		{"formatted", "529.982.247-25", true},
		{"digits_only", "52998224725", true},
		{"another_valid", "111.444.777-35", true},
		{"zero_check_digit", "000.000.001-91", true},
		{"wrong_first_digit", "529.982.247-35", false},
		{"wrong_second_digit", "529.982.247-24", false},
		{"repeated_digits", "111.111.111-11", false},
		{"too_short", "5299822472", false},
		{"too_long", "529982247251", false},
		{"empty", "", false},
		{"letters", "abc.def.ghi-jk", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidCPF(tt.cpf), "CPF: %s", tt.cpf)
		})
	}
}

func TestNormalizeCPF(t *testing.T) {
	assert.Equal(t, "52998224725", NormalizeCPF("529.982.247-25"))
	assert.Equal(t, "52998224725", NormalizeCPF(" 529 982 247 25 "))
	assert.Equal(t, "", NormalizeCPF("---"))
}

func TestIsValidUF(t *testing.T) {
	assert.True(t, IsValidUF("SP"))
	assert.True(t, IsValidUF("rj"))
	assert.True(t, IsValidUF("DF"))
	assert.False(t, IsValidUF("XX"))
	assert.False(t, IsValidUF(""))
	assert.False(t, IsValidUF("SAO"))
}

func TestIsValidZipCode(t *testing.T) {
	assert.True(t, IsValidZipCode("01310-100"))
	assert.True(t, IsValidZipCode("01310100"))
	assert.False(t, IsValidZipCode("0131-0100"))
	assert.False(t, IsValidZipCode("abcde-fgh"))
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("2024-02-29")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	_, ok = ParseDate("2023-02-29")
	assert.False(t, ok)
	_, ok = ParseDate("29/02/2024")
	assert.False(t, ok)
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean_text", "Hello World", "Hello World"},
		{"null_bytes", "Hello\x00World", "HelloWorld"},
		{"control_chars", "Hello\x01\x02World", "HelloWorld"},
		{"keep_newlines", "Hello\nWorld", "Hello\nWorld"},
		{"keep_tabs", "Hello\tWorld", "Hello\tWorld"},
		{"keep_carriage_return", "Hello\rWorld", "Hello\rWorld"},
		{"accents", "Petição\x00 inicial", "Petição inicial"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeString(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}
