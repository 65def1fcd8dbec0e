package models

import "gorm.io/datatypes"

// User is a lawyer account. Every client, process, board column,
// extrajudicial case and intimation belongs to exactly one user.
type User struct {
	Base
	Email        string                      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string                      `gorm:"not null" json:"-"`
	Name         string                      `gorm:"index" json:"name"`
	OABNumber    string                      `json:"oab_number"`
	OABState     string                      `gorm:"size:2" json:"oab_state"`
	CPF          string                      `json:"cpf"`
	Phone        string                      `json:"phone"`
	Address      datatypes.JSONType[Address] `json:"address"`
}

func (User) TableName() string {
	return "users"
}
