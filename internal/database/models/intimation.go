package models

import (
	"time"

	"github.com/google/uuid"
)

type Intimation struct {
	Base
	OwnerID         uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	PublicationDate time.Time `gorm:"index;not null" json:"publication_date"`
	ProcessNumber   string    `gorm:"index;not null" json:"process_number"`
	Content         string    `gorm:"type:text;not null" json:"content"`

	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Intimation) TableName() string {
	return "intimations"
}
