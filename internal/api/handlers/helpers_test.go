package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hugh/ritum/internal/api/middleware"
	"github.com/hugh/ritum/internal/testutil"
)

// authedRouter returns a chi router whose routes registered through the
// callback sit behind the bearer middleware.
func authedRouter(tc *testutil.TestSetup, mount func(r chi.Router)) *chi.Mux {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tc.JWTService, tc.AuthService))
		mount(r)
	})
	return r
}

func serve(t *testing.T, h http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.AuthenticatedRequest(t, method, path, body, token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func strPtr(s string) *string { return &s }
