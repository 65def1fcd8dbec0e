package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugh/ritum/internal/api/handlers"
	"github.com/hugh/ritum/internal/database/models"
	"github.com/hugh/ritum/internal/kanban"
	"github.com/hugh/ritum/internal/testutil"
)

func setupKanbanTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)
	handler := handlers.NewKanbanHandler(kanban.NewService(tc.DB), testutil.Logger())

	r := authedRouter(tc, func(r chi.Router) {
		r.Get("/board/", handler.Board)
		r.Post("/columns/", handler.CreateColumn)
		r.Patch("/columns/{id}", handler.UpdateColumn)
		r.Delete("/columns/{id}", handler.DeleteColumn)
		r.Post("/columns/{id}/cards/", handler.CreateCard)
		r.Patch("/cards/{id}", handler.UpdateCard)
		r.Patch("/cards/{id}/move", handler.MoveCard)
		r.Delete("/cards/{id}", handler.DeleteCard)
	})
	return r, tc
}

func TestKanbanHandler_BoardFlow(t *testing.T) {
	router, tc := setupKanbanTestRouter(t)

	rr := serve(t, router, http.MethodPost, "/columns/", map[string]interface{}{"title": "Feito", "position": 1}, tc.Token)
	testutil.AssertStatus(t, rr, http.StatusCreated)
	var done models.TaskColumn
	testutil.ParseJSONResponse(t, rr, &done)

	rr = serve(t, router, http.MethodPost, "/columns/", map[string]interface{}{"title": "A fazer", "position": 0}, tc.Token)
	testutil.AssertStatus(t, rr, http.StatusCreated)
	var todo models.TaskColumn
	testutil.ParseJSONResponse(t, rr, &todo)

	rr = serve(t, router, http.MethodPost, fmt.Sprintf("/columns/%d/cards/", todo.ID), map[string]interface{}{
		"title":    "Contestação",
		"due_date": "2025-02-01",
	}, tc.Token)
	testutil.AssertStatus(t, rr, http.StatusCreated)
	var card models.TaskCard
	testutil.ParseJSONResponse(t, rr, &card)
	assert.Equal(t, todo.ID, card.ColumnID)
	require.NotNil(t, card.DueDate)

	rr = serve(t, router, http.MethodGet, "/board/", nil, tc.Token)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var board []models.TaskColumn
	testutil.ParseJSONResponse(t, rr, &board)
	require.Len(t, board, 2)
	assert.Equal(t, "A fazer", board[0].Title)
	require.Len(t, board[0].Cards, 1)
	assert.Empty(t, board[1].Cards)

	rr = serve(t, router, http.MethodPatch, fmt.Sprintf("/cards/%d/move", card.ID), map[string]uint{"new_column_id": done.ID}, tc.Token)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var moved models.TaskCard
	testutil.ParseJSONResponse(t, rr, &moved)
	assert.Equal(t, done.ID, moved.ColumnID)

	rr = serve(t, router, http.MethodPatch, fmt.Sprintf("/columns/%d", todo.ID), map[string]string{"title": "Backlog"}, tc.Token)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var renamed models.TaskColumn
	testutil.ParseJSONResponse(t, rr, &renamed)
	assert.Equal(t, "Backlog", renamed.Title)
	assert.Equal(t, 0, renamed.Position)

	testutil.AssertStatus(t, serve(t, router, http.MethodDelete, fmt.Sprintf("/columns/%d", done.ID), nil, tc.Token), http.StatusNoContent)
	var count int64
	tc.DB.Model(&models.TaskCard{}).Where("id = ?", card.ID).Count(&count)
	assert.Zero(t, count)
}

func TestKanbanHandler_MoveByOtherUserIsNotFound(t *testing.T) {
	router, tc := setupKanbanTestRouter(t)
	other, otherToken := tc.OtherUser(t)

	todo := testutil.CreateTestColumn(t, tc.DB, tc.User.ID, "A fazer", 0)
	done := testutil.CreateTestColumn(t, tc.DB, tc.User.ID, "Feito", 1)
	theirs := testutil.CreateTestColumn(t, tc.DB, other.ID, "Deles", 0)
	card := testutil.CreateTestCard(t, tc.DB, todo.ID, "Recurso")
	path := fmt.Sprintf("/cards/%d/move", card.ID)

	tests := []struct {
		name  string
		dest  uint
		token string
	}{
		{"other user into owner's column", done.ID, otherToken},
		{"other user into own column", theirs.ID, otherToken},
		{"owner into foreign column", theirs.ID, tc.Token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, router, http.MethodPatch, path, map[string]uint{"new_column_id": tt.dest}, tt.token)
			testutil.AssertStatus(t, rr, http.StatusNotFound)

			var stored models.TaskCard
			require.NoError(t, tc.DB.First(&stored, card.ID).Error)
			assert.Equal(t, todo.ID, stored.ColumnID)
		})
	}

	t.Run("missing destination", func(t *testing.T) {
		rr := serve(t, router, http.MethodPatch, path, map[string]string{}, tc.Token)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestKanbanHandler_Validation(t *testing.T) {
	router, tc := setupKanbanTestRouter(t)
	col := testutil.CreateTestColumn(t, tc.DB, tc.User.ID, "A fazer", 0)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"column without position", http.MethodPost, "/columns/", map[string]string{"title": "X"}, http.StatusBadRequest},
		{"column without title", http.MethodPost, "/columns/", map[string]int{"position": 2}, http.StatusBadRequest},
		{"card without title", http.MethodPost, fmt.Sprintf("/columns/%d/cards/", col.ID), map[string]string{"description": "x"}, http.StatusBadRequest},
		{"card in missing column", http.MethodPost, "/columns/9999/cards/", map[string]string{"title": "x"}, http.StatusNotFound},
		{"non-numeric id", http.MethodPatch, "/columns/abc", map[string]string{"title": "x"}, http.StatusBadRequest},
		{"missing card", http.MethodDelete, "/cards/9999", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, router, tt.method, tt.path, tt.body, tc.Token)
			testutil.AssertStatus(t, rr, tt.want)
		})
	}
}
