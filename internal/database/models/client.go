package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Client struct {
	Base
	OwnerID       uuid.UUID                   `gorm:"type:uuid;index;not null" json:"owner_id"`
	FullName      string                      `gorm:"index;not null" json:"fullName"`
	Email         string                      `gorm:"index" json:"email"`
	Phone         string                      `json:"phone"`
	CPF           *string                     `gorm:"uniqueIndex" json:"cpf"`
	RG            string                      `json:"rg"`
	Nationality   string                      `json:"nationality"`
	MaritalStatus string                      `json:"maritalStatus"`
	Profession    string                      `json:"profession"`
	Address       datatypes.JSONType[Address] `json:"address"`

	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Client) TableName() string {
	return "clients"
}
