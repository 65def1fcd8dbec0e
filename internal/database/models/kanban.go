package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskColumn struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Title    string    `gorm:"not null" json:"title"`
	Position int       `gorm:"not null;default:0" json:"position"`
	OwnerID  uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`

	Cards []TaskCard `gorm:"foreignKey:ColumnID;constraint:OnDelete:CASCADE" json:"cards"`
	Owner *User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (TaskColumn) TableName() string {
	return "task_columns"
}

// TaskCard has no owner of its own; ownership is inherited from its column.
type TaskCard struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	DueDate     *time.Time `json:"due_date"`
	ColumnID    uint       `gorm:"index;not null" json:"column_id"`
}

func (TaskCard) TableName() string {
	return "task_cards"
}
