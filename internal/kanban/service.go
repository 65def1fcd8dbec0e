// Package kanban implements the per-user task board. Columns are owned by a
// user; cards inherit ownership from the column they sit in.
package kanban

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hugh/ritum/internal/database/models"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a card left its column between the
	// ownership check and the write.
	ErrConflict = errors.New("card was moved concurrently")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type ColumnInput struct {
	Title    string
	Position int
}

type ColumnPatch struct {
	Title    *string
	Position *int
}

func (p ColumnPatch) Apply(c *models.TaskColumn) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Position != nil {
		c.Position = *p.Position
	}
}

type CardInput struct {
	Title       string
	Description *string
	DueDate     *time.Time
}

type CardPatch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
}

func (p CardPatch) Apply(c *models.TaskCard) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = p.Description
	}
	if p.DueDate != nil {
		c.DueDate = p.DueDate
	}
}

// Board returns the owner's columns by position, each with cards by id.
func (s *Service) Board(ctx context.Context, owner uuid.UUID) ([]models.TaskColumn, error) {
	var columns []models.TaskColumn
	err := s.db.WithContext(ctx).
		Preload("Cards", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("owner_id = ?", owner).
		Order("position ASC, id ASC").
		Find(&columns).Error
	if err != nil {
		return nil, err
	}
	for i := range columns {
		if columns[i].Cards == nil {
			columns[i].Cards = []models.TaskCard{}
		}
	}
	return columns, nil
}

func (s *Service) CreateColumn(ctx context.Context, owner uuid.UUID, in ColumnInput) (*models.TaskColumn, error) {
	column := models.TaskColumn{
		Title:    in.Title,
		Position: in.Position,
		OwnerID:  owner,
		Cards:    []models.TaskCard{},
	}
	if err := s.db.WithContext(ctx).Create(&column).Error; err != nil {
		return nil, err
	}
	return &column, nil
}

func (s *Service) UpdateColumn(ctx context.Context, id uint, owner uuid.UUID, patch ColumnPatch) (*models.TaskColumn, error) {
	column, err := ownedColumn(s.db.WithContext(ctx), id, owner)
	if err != nil {
		return nil, err
	}

	patch.Apply(column)

	if err := s.db.WithContext(ctx).Model(column).Select("title", "position").Updates(column).Error; err != nil {
		return nil, err
	}
	return column, nil
}

// DeleteColumn removes the column and every card in it.
func (s *Service) DeleteColumn(ctx context.Context, id uint, owner uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		column, err := ownedColumn(tx, id, owner)
		if err != nil {
			return err
		}
		if err := tx.Where("column_id = ?", column.ID).Delete(&models.TaskCard{}).Error; err != nil {
			return err
		}
		return tx.Delete(column).Error
	})
}

func (s *Service) CreateCard(ctx context.Context, columnID uint, owner uuid.UUID, in CardInput) (*models.TaskCard, error) {
	column, err := ownedColumn(s.db.WithContext(ctx), columnID, owner)
	if err != nil {
		return nil, err
	}

	card := models.TaskCard{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		ColumnID:    column.ID,
	}
	if err := s.db.WithContext(ctx).Create(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *Service) UpdateCard(ctx context.Context, id uint, owner uuid.UUID, patch CardPatch) (*models.TaskCard, error) {
	card, err := ownedCard(s.db.WithContext(ctx), id, owner)
	if err != nil {
		return nil, err
	}

	patch.Apply(card)

	if err := s.db.WithContext(ctx).Model(card).Select("title", "description", "due_date").Updates(card).Error; err != nil {
		return nil, err
	}
	return card, nil
}

func (s *Service) DeleteCard(ctx context.Context, id uint, owner uuid.UUID) error {
	card, err := ownedCard(s.db.WithContext(ctx), id, owner)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(card).Error
}

// MoveCard reassigns a card to another column. The card must sit in a
// column the owner holds and the destination must belong to the same owner;
// failing either check yields ErrNotFound and nothing changes. The write is
// conditional on the card still being where the check saw it.
func (s *Service) MoveCard(ctx context.Context, id, destination uint, owner uuid.UUID) (*models.TaskCard, error) {
	var moved *models.TaskCard

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		card, err := ownedCard(tx, id, owner)
		if err != nil {
			return err
		}

		dest, err := ownedColumn(tx, destination, owner)
		if err != nil {
			return err
		}

		if card.ColumnID == dest.ID {
			moved = card
			return nil
		}

		res := tx.Model(&models.TaskCard{}).
			Where("id = ? AND column_id = ?", card.ID, card.ColumnID).
			Update("column_id", dest.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConflict
		}

		card.ColumnID = dest.ID
		moved = card
		return nil
	})
	if err != nil {
		return nil, err
	}

	return moved, nil
}

func ownedColumn(db *gorm.DB, id uint, owner uuid.UUID) (*models.TaskColumn, error) {
	var column models.TaskColumn
	if err := db.Where("id = ? AND owner_id = ?", id, owner).First(&column).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &column, nil
}

func ownedCard(db *gorm.DB, id uint, owner uuid.UUID) (*models.TaskCard, error) {
	owned := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.TaskColumn{}).
		Select("id").
		Where("owner_id = ?", owner)

	var card models.TaskCard
	if err := db.Where("id = ? AND column_id IN (?)", id, owned).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &card, nil
}
