package models

import "github.com/google/uuid"

const ExtrajudicialStatusInProgress = "InProgress"

// ExtrajudicialCase holds its free-form payload sealed with the
// application encryption key; SealedData is never exposed directly.
type ExtrajudicialCase struct {
	Base
	OwnerID    uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	CaseType   string    `gorm:"index;not null" json:"caseType"`
	CaseName   string    `gorm:"not null" json:"caseName"`
	Status     string    `gorm:"default:'InProgress'" json:"status"`
	SealedData string    `gorm:"type:text" json:"-"`

	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ExtrajudicialCase) TableName() string {
	return "extrajudicial_cases"
}
