package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugh/ritum/internal/api/handlers"
	"github.com/hugh/ritum/internal/caselaw"
	"github.com/hugh/ritum/internal/database/models"
	"github.com/hugh/ritum/internal/jurisprudence"
	"github.com/hugh/ritum/internal/testutil"
)

type fakeSearcher struct {
	results []caselaw.Result
	err     error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]caselaw.Result, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func setupJurisprudenceTestRouter(t *testing.T, searcher caselaw.Searcher) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)
	svc := jurisprudence.NewService(jurisprudence.NewStore(tc.DB), nil, testutil.Logger())
	handler := handlers.NewJurisprudenceHandler(svc, searcher, testutil.Logger())

	r := authedRouter(tc, func(r chi.Router) {
		r.Get("/api/v1/jurisprudence/documents", handler.Documents)
		r.Post("/api/v1/jurisprudence/search", handler.SearchCaseLaw)
	})
	return r, tc
}

func TestJurisprudenceHandler_Documents(t *testing.T) {
	router, tc := setupJurisprudenceTestRouter(t, &fakeSearcher{})

	testutil.CreateTestJurisprudence(t, tc.DB, "STJ", "REsp 1.000.001", "Dano moral por negativação indevida", day(2023, 5, 10))
	testutil.CreateTestJurisprudence(t, tc.DB, "TJSP", "AC 2000-02", "Atraso na entrega de imóvel gera dano moral", day(2024, 2, 20))
	testutil.CreateTestJurisprudence(t, tc.DB, "TRF3", "AC 3000-03", "Contribuição previdenciária", day(2024, 8, 1))

	numbers := func(t *testing.T, query string) []string {
		t.Helper()
		rr := serve(t, router, http.MethodGet, "/api/v1/jurisprudence/documents"+query, nil, tc.Token)
		testutil.AssertStatus(t, rr, http.StatusOK)
		var docs []models.JurisprudenceDocument
		testutil.ParseJSONResponse(t, rr, &docs)
		out := make([]string, len(docs))
		for i, d := range docs {
			out[i] = d.CaseNumber
		}
		return out
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"no filters", "", []string{"REsp 1.000.001", "AC 2000-02", "AC 3000-03"}},
		{"text is case-insensitive", "?q=DANO%20MORAL", []string{"REsp 1.000.001", "AC 2000-02"}},
		{"repeated court", "?court=STJ&court=TRF3", []string{"REsp 1.000.001", "AC 3000-03"}},
		{"text and court", "?q=dano&court=TJSP", []string{"AC 2000-02"}},
		{"inclusive date range", "?start_date=2024-02-20&end_date=2024-08-01", []string{"AC 2000-02", "AC 3000-03"}},
		{"limit", "?limit=1&skip=1", []string{"AC 2000-02"}},
		{"no match", "?q=usucapião", []string{}},
		{"substring inside case number", "?q=000.00&mode=substring", []string{"REsp 1.000.001"}},
		{"relevance without index uses database", "?q=dano&court=TJSP&mode=relevance", []string{"AC 2000-02"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, numbers(t, tt.query))
		})
	}

	t.Run("unknown mode", func(t *testing.T) {
		rr := serve(t, router, http.MethodGet, "/api/v1/jurisprudence/documents?mode=fuzzy", nil, tc.Token)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("invalid date", func(t *testing.T) {
		rr := serve(t, router, http.MethodGet, "/api/v1/jurisprudence/documents?start_date=2024-13-01", nil, tc.Token)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestJurisprudenceHandler_SearchCaseLaw(t *testing.T) {
	processo := "00012345620248260100"
	tribunal := "TJSP"

	tests := []struct {
		name     string
		searcher *fakeSearcher
		body     interface{}
		want     int
	}{
		{"results", &fakeSearcher{results: []caselaw.Result{{Processo: &processo, Tribunal: &tribunal, Assuntos: []string{"Dano Moral"}}}}, map[string]string{"q": "dano moral"}, http.StatusOK},
		{"empty query", &fakeSearcher{}, map[string]string{"q": "  "}, http.StatusBadRequest},
		{"not configured", &fakeSearcher{err: caselaw.ErrNotConfigured}, map[string]string{"q": "x"}, http.StatusServiceUnavailable},
		{"upstream status passes through", &fakeSearcher{err: &caselaw.UpstreamError{StatusCode: http.StatusForbidden, Detail: "invalid key"}}, map[string]string{"q": "x"}, http.StatusForbidden},
		{"other failure", &fakeSearcher{err: errors.New("connection reset")}, map[string]string{"q": "x"}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, tc := setupJurisprudenceTestRouter(t, tt.searcher)
			rr := serve(t, router, http.MethodPost, "/api/v1/jurisprudence/search", tt.body, tc.Token)
			testutil.AssertStatus(t, rr, tt.want)

			if tt.want == http.StatusOK {
				var resp handlers.CaseLawSearchResponse
				testutil.ParseJSONResponse(t, rr, &resp)
				require.Len(t, resp.Results, 1)
				assert.Equal(t, processo, *resp.Results[0].Processo)
				assert.Equal(t, []string{"dano moral"}, tt.searcher.queries)
			}
		})
	}
}
