package models

import (
	"time"

	"github.com/google/uuid"
)

const ProcessStatusActive = "Ativo"

type Process struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Number     string    `gorm:"uniqueIndex;not null" json:"number"`
	ClientName string    `gorm:"index;not null" json:"client_name"`
	Type       string    `json:"type"`
	Status     string    `gorm:"default:'Ativo'" json:"status"`
	OwnerID    uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Updates []ProcessUpdate `gorm:"foreignKey:ProcessID;constraint:OnDelete:CASCADE" json:"updates,omitempty"`
	Owner   *User           `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Process) TableName() string {
	return "processes"
}

// ProcessUpdate is a dated progress note on a process.
type ProcessUpdate struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Date        time.Time `gorm:"not null" json:"date"`
	Description string    `gorm:"type:text;not null" json:"description"`
	ProcessID   uint      `gorm:"index;not null" json:"process_id"`
}

func (ProcessUpdate) TableName() string {
	return "process_updates"
}
