package jurisprudence

import (
	"context"
	"log/slog"

	"github.com/hugh/ritum/internal/database/models"
)

// Service answers substring queries from the database. Relevance queries go
// to the index while it is healthy and fall back to the database otherwise.
type Service struct {
	store  *Store
	index  *MeiliIndex
	logger *slog.Logger
}

// NewService builds the facade; index may be nil.
func NewService(store *Store, index *MeiliIndex, logger *slog.Logger) *Service {
	return &Service{store: store, index: index, logger: logger}
}

func (s *Service) Search(ctx context.Context, q Query) ([]models.JurisprudenceDocument, error) {
	q.Normalize()
	if q.Mode == ModeRelevance && s.index != nil && s.index.Healthy() {
		docs, err := s.index.Search(ctx, q)
		if err == nil {
			return docs, nil
		}
		s.logger.Warn("index search failed, falling back to database", "error", err)
	}
	return s.store.Search(ctx, q)
}

// Reindex pushes every stored document into the index.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, nil
	}
	total := 0
	err := s.store.All(ctx, 500, func(batch []models.JurisprudenceDocument) error {
		if err := s.index.Index(batch); err != nil {
			return err
		}
		total += len(batch)
		return nil
	})
	return total, err
}
