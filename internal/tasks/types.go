package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeJurisprudenceReindex = "jurisprudence:reindex"
	TypeDocumentsCleanup     = "documents:cleanup"
)

// CleanupSchedule runs the generated documents sweep once a day.
const CleanupSchedule = "30 4 * * *"

// JurisprudenceReindexPayload is empty; every stored document is pushed.
type JurisprudenceReindexPayload struct{}

func NewJurisprudenceReindexTask() *asynq.Task {
	return asynq.NewTask(TypeJurisprudenceReindex, nil,
		asynq.Queue("low"),
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
	)
}

// DocumentsCleanupPayload overrides the configured retention when
// RetentionDays is positive.
type DocumentsCleanupPayload struct {
	RetentionDays int `json:"retention_days,omitempty"`
}

func NewDocumentsCleanupTask(payload DocumentsCleanupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeDocumentsCleanup, data,
		asynq.Queue("low"),
		asynq.MaxRetry(1),
	), nil
}
