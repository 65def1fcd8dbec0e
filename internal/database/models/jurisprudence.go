package models

import "time"

// JurisprudenceDocument is shared reference data, readable by any user.
type JurisprudenceDocument struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Court           string    `gorm:"index;not null" json:"court"`
	CaseNumber      string    `gorm:"index;not null" json:"case_number"`
	PublicationDate time.Time `gorm:"index;not null" json:"publication_date"`
	Summary         string    `gorm:"type:text;not null" json:"summary"`
	FullText        string    `gorm:"type:text" json:"full_text"`
}

func (JurisprudenceDocument) TableName() string {
	return "jurisprudence_documents"
}
