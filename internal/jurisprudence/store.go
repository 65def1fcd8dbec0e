package jurisprudence

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/hugh/ritum/internal/database/models"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// textMatch folds case on both sides of the comparison. Postgres ILIKE
// follows the database locale; elsewhere LOWER folds ASCII letters only.
func (s *Store) textMatch() string {
	if s.db.Dialector.Name() == "postgres" {
		return `case_number ILIKE ? ESCAPE '\' OR summary ILIKE ? ESCAPE '\' OR full_text ILIKE ? ESCAPE '\'`
	}
	return `LOWER(case_number) LIKE LOWER(?) ESCAPE '\' OR LOWER(summary) LIKE LOWER(?) ESCAPE '\' OR LOWER(full_text) LIKE LOWER(?) ESCAPE '\'`
}

// Search serves the default substring mode.
func (s *Store) Search(ctx context.Context, q Query) ([]models.JurisprudenceDocument, error) {
	q.Normalize()

	tx := s.db.WithContext(ctx).Model(&models.JurisprudenceDocument{})

	if q.Text != "" {
		pattern := "%" + likeEscaper.Replace(q.Text) + "%"
		tx = tx.Where(s.textMatch(), pattern, pattern, pattern)
	}
	if len(q.Courts) > 0 {
		tx = tx.Where("court IN ?", q.Courts)
	}
	if q.StartDate != nil {
		tx = tx.Where("publication_date >= ?", *q.StartDate)
	}
	if end := q.endExclusive(); end != nil {
		tx = tx.Where("publication_date < ?", *end)
	}

	var docs []models.JurisprudenceDocument
	if err := tx.Order("id ASC").Offset(q.Skip).Limit(q.Limit).Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// All streams every document in id order, batch by batch.
func (s *Store) All(ctx context.Context, batch int, fn func([]models.JurisprudenceDocument) error) error {
	var docs []models.JurisprudenceDocument
	return s.db.WithContext(ctx).Order("id ASC").FindInBatches(&docs, batch, func(tx *gorm.DB, _ int) error {
		return fn(docs)
	}).Error
}

// Seed inserts the sample documents whose case numbers are not present yet.
func (s *Store) Seed(ctx context.Context) (int, error) {
	inserted := 0
	for _, doc := range SampleDocuments() {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.JurisprudenceDocument{}).
			Where("case_number = ?", doc.CaseNumber).Count(&count).Error; err != nil {
			return inserted, err
		}
		if count > 0 {
			continue
		}
		if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
