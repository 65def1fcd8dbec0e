package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugh/ritum/internal/testutil"
)

type fakeReindexer struct {
	count int
	err   error
	calls int
}

func (f *fakeReindexer) Reindex(context.Context) (int, error) {
	f.calls++
	return f.count, f.err
}

func TestHandleJurisprudenceReindex(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := &fakeReindexer{count: 42}
		h := NewHandler(r, "", 0, testutil.Logger())

		require.NoError(t, h.HandleJurisprudenceReindex(testutil.TestContext(t), NewJurisprudenceReindexTask()))
		assert.Equal(t, 1, r.calls)
	})

	t.Run("failure is returned for retry", func(t *testing.T) {
		r := &fakeReindexer{err: errors.New("meilisearch: 503")}
		h := NewHandler(r, "", 0, testutil.Logger())

		err := h.HandleJurisprudenceReindex(testutil.TestContext(t), NewJurisprudenceReindexTask())
		assert.ErrorContains(t, err, "reindex")
	})
}

func TestHandleDocumentsCleanup(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)

	newDir := func(t *testing.T) string {
		t.Helper()
		dir := t.TempDir()
		for name, age := range map[string]time.Duration{
			"old.pdf":    40 * 24 * time.Hour,
			"recent.pdf": 2 * 24 * time.Hour,
			"middle.pdf": 10 * 24 * time.Hour,
		} {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
			mod := now.Add(-age)
			require.NoError(t, os.Chtimes(path, mod, mod))
		}
		return dir
	}

	remaining := func(t *testing.T, dir string) []string {
		t.Helper()
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		return names
	}

	tests := []struct {
		name    string
		payload DocumentsCleanupPayload
		want    []string
	}{
		{"configured retention", DocumentsCleanupPayload{}, []string{"middle.pdf", "recent.pdf"}},
		{"payload override", DocumentsCleanupPayload{RetentionDays: 7}, []string{"recent.pdf"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := newDir(t)
			h := NewHandler(&fakeReindexer{}, dir, 30*24*time.Hour, testutil.Logger())
			h.now = func() time.Time { return now }

			task, err := NewDocumentsCleanupTask(tt.payload)
			require.NoError(t, err)
			require.NoError(t, h.HandleDocumentsCleanup(context.Background(), task))
			assert.ElementsMatch(t, tt.want, remaining(t, dir))
		})
	}

	t.Run("no local storage", func(t *testing.T) {
		h := NewHandler(&fakeReindexer{}, "", 30*24*time.Hour, testutil.Logger())
		task, err := NewDocumentsCleanupTask(DocumentsCleanupPayload{})
		require.NoError(t, err)
		assert.NoError(t, h.HandleDocumentsCleanup(context.Background(), task))
	})

	t.Run("invalid payload", func(t *testing.T) {
		h := NewHandler(&fakeReindexer{}, t.TempDir(), time.Hour, testutil.Logger())
		err := h.HandleDocumentsCleanup(context.Background(), asynq.NewTask(TypeDocumentsCleanup, []byte("not json")))
		assert.ErrorContains(t, err, "unmarshal payload")
	})
}

func TestRegisterHandlers(t *testing.T) {
	h := NewHandler(&fakeReindexer{}, "", 0, testutil.Logger())
	mux := asynq.NewServeMux()
	h.RegisterHandlers(mux)

	_, pattern := mux.Handler(NewJurisprudenceReindexTask())
	assert.Equal(t, TypeJurisprudenceReindex, pattern)

	task, err := NewDocumentsCleanupTask(DocumentsCleanupPayload{})
	require.NoError(t, err)
	_, pattern = mux.Handler(task)
	assert.Equal(t, TypeDocumentsCleanup, pattern)
}
