package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/hugh/ritum/internal/documents"
)

// Reindexer pushes the jurisprudence table into the search index.
type Reindexer interface {
	Reindex(ctx context.Context) (int, error)
}

type Handler struct {
	reindexer    Reindexer
	documentsDir string
	retention    time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

// NewHandler wires the task handlers. documentsDir is empty when generated
// documents are not stored on the local filesystem.
func NewHandler(reindexer Reindexer, documentsDir string, retention time.Duration, logger *slog.Logger) *Handler {
	return &Handler{
		reindexer:    reindexer,
		documentsDir: documentsDir,
		retention:    retention,
		logger:       logger,
		now:          time.Now,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeJurisprudenceReindex, h.HandleJurisprudenceReindex)
	mux.HandleFunc(TypeDocumentsCleanup, h.HandleDocumentsCleanup)
}

func (h *Handler) HandleJurisprudenceReindex(ctx context.Context, t *asynq.Task) error {
	start := h.now()
	h.logger.Info("starting jurisprudence reindex")

	count, err := h.reindexer.Reindex(ctx)
	if err != nil {
		h.logger.Error("jurisprudence reindex failed", "indexed", count, "error", err)
		return fmt.Errorf("reindex: %w", err)
	}

	h.logger.Info("completed jurisprudence reindex",
		"indexed", count,
		"duration", h.now().Sub(start),
	)
	return nil
}

func (h *Handler) HandleDocumentsCleanup(ctx context.Context, t *asynq.Task) error {
	var payload DocumentsCleanupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
	}

	if h.documentsDir == "" {
		h.logger.Debug("documents cleanup skipped, no local storage")
		return nil
	}

	retention := h.retention
	if payload.RetentionDays > 0 {
		retention = time.Duration(payload.RetentionDays) * 24 * time.Hour
	}
	if retention <= 0 {
		h.logger.Debug("documents cleanup skipped, retention disabled")
		return nil
	}

	removed, err := documents.CleanupDir(h.documentsDir, retention, h.now(), h.logger)
	if err != nil {
		return fmt.Errorf("cleanup %s: %w", h.documentsDir, err)
	}

	h.logger.Info("completed documents cleanup",
		"dir", h.documentsDir,
		"removed", removed,
		"retention", retention,
	)
	return nil
}
