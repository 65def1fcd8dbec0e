package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugh/ritum/internal/api/handlers"
	"github.com/hugh/ritum/internal/testutil"
)

func setupIntimationTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)
	handler := handlers.NewIntimationHandler(tc.DB, testutil.Logger())

	r := authedRouter(tc, func(r chi.Router) {
		r.Get("/api/v1/intimations", handler.List)
		r.Post("/api/v1/intimations", handler.Create)
		r.Get("/api/v1/intimations/stats", handler.Stats)
		r.Get("/api/v1/intimations/{id}", handler.Get)
		r.Delete("/api/v1/intimations/{id}", handler.Delete)
	})
	return r, tc
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIntimationHandler_CreateGetDelete(t *testing.T) {
	router, tc := setupIntimationTestRouter(t)
	_, otherToken := tc.OtherUser(t)

	rr := serve(t, router, http.MethodPost, "/api/v1/intimations", map[string]string{
		"publication_date": "2024-06-03T15:30:00Z",
		"process_number":   "0001234-56.2024.8.26.0100",
		"content":          "Intimação para apresentar contrarrazões.",
	}, tc.Token)
	testutil.AssertStatus(t, rr, http.StatusCreated)

	var created handlers.IntimationResponse
	testutil.ParseJSONResponse(t, rr, &created)
	assert.Equal(t, "2024-06-03", created.PublicationDate)
	path := "/api/v1/intimations/" + created.ID

	testutil.AssertStatus(t, serve(t, router, http.MethodGet, path, nil, tc.Token), http.StatusOK)
	testutil.AssertStatus(t, serve(t, router, http.MethodGet, path, nil, otherToken), http.StatusNotFound)
	testutil.AssertStatus(t, serve(t, router, http.MethodDelete, path, nil, otherToken), http.StatusNotFound)
	testutil.AssertStatus(t, serve(t, router, http.MethodDelete, path, nil, tc.Token), http.StatusNoContent)
	testutil.AssertStatus(t, serve(t, router, http.MethodGet, path, nil, tc.Token), http.StatusNotFound)

	rr = serve(t, router, http.MethodPost, "/api/v1/intimations", map[string]string{"content": "sem data"}, tc.Token)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestIntimationHandler_ListNewestFirst(t *testing.T) {
	router, tc := setupIntimationTestRouter(t)

	testutil.CreateTestIntimation(t, tc.DB, tc.User.ID, "OLD", day(2024, 1, 10))
	testutil.CreateTestIntimation(t, tc.DB, tc.User.ID, "NEW", day(2024, 2, 10))

	rr := serve(t, router, http.MethodGet, "/api/v1/intimations", nil, tc.Token)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var list []handlers.IntimationResponse
	testutil.ParseJSONResponse(t, rr, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "NEW", list[0].ProcessNumber)
	assert.Equal(t, "OLD", list[1].ProcessNumber)
}

func TestIntimationHandler_Stats(t *testing.T) {
	router, tc := setupIntimationTestRouter(t)
	other, _ := tc.OtherUser(t)

	testutil.CreateTestIntimation(t, tc.DB, tc.User.ID, "1", day(2024, 3, 1))
	testutil.CreateTestIntimation(t, tc.DB, tc.User.ID, "2", day(2024, 3, 15))
	testutil.CreateTestIntimation(t, tc.DB, tc.User.ID, "3", day(2024, 3, 31))
	testutil.CreateTestIntimation(t, tc.DB, tc.User.ID, "4", day(2024, 4, 1))
	testutil.CreateTestIntimation(t, tc.DB, other.ID, "5", day(2024, 3, 10))

	tests := []struct {
		name  string
		query string
		want  int
		count int64
	}{
		{"inclusive month", "?start_date=2024-03-01&end_date=2024-03-31", http.StatusOK, 3},
		{"single day", "?start_date=2024-03-15&end_date=2024-03-15", http.StatusOK, 1},
		{"empty range", "?start_date=2023-01-01&end_date=2023-12-31", http.StatusOK, 0},
		{"missing end", "?start_date=2024-03-01", http.StatusBadRequest, 0},
		{"bad format", "?start_date=01/03/2024&end_date=2024-03-31", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, router, http.MethodGet, "/api/v1/intimations/stats"+tt.query, nil, tc.Token)
			testutil.AssertStatus(t, rr, tt.want)
			if tt.want == http.StatusOK {
				var stats handlers.IntimationStats
				testutil.ParseJSONResponse(t, rr, &stats)
				assert.Equal(t, tt.count, stats.Count)
			}
		})
	}
}

func TestIntimationHandler_CreateKeepsCallerDay(t *testing.T) {
	router, tc := setupIntimationTestRouter(t)

	rr := serve(t, router, http.MethodPost, "/api/v1/intimations", map[string]string{
		"publication_date": "2025-03-10T22:00:00-03:00",
		"process_number":   "0009876-54.2025.8.26.0100",
		"content":          "Intimação publicada no fim do expediente.",
	}, tc.Token)
	testutil.AssertStatus(t, rr, http.StatusCreated)

	var created handlers.IntimationResponse
	testutil.ParseJSONResponse(t, rr, &created)
	assert.Equal(t, "2025-03-10", created.PublicationDate)

	rr = serve(t, router, http.MethodGet, "/api/v1/intimations/stats?start_date=2025-03-10&end_date=2025-03-10", nil, tc.Token)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var stats handlers.IntimationStats
	testutil.ParseJSONResponse(t, rr, &stats)
	assert.Equal(t, int64(1), stats.Count)
}
