package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/hugh/ritum/internal/auth"
	"github.com/hugh/ritum/internal/database/models"
)

type contextKey string

const (
	UserKey      contextKey = "user"
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "user_email"
)

// UserLookup resolves the subject of an access token.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Auth accepts only "Authorization: Bearer <access token>" and loads the
// user named by the token subject. A token for a deleted user is rejected.
func Auth(tokens auth.TokenService, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				unauthorized(w, "Not authenticated")
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimSpace(token), auth.AccessToken)
			if err != nil {
				unauthorized(w, "Could not validate credentials")
				return
			}

			user, err := users.GetUserByEmail(r.Context(), claims.Subject)
			if err != nil {
				unauthorized(w, "Could not validate credentials")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": detail})
}

// Helper functions to extract values from context
func GetUser(ctx context.Context) *models.User {
	if u, ok := ctx.Value(UserKey).(*models.User); ok {
		return u
	}
	return nil
}

func GetUserID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func GetUserEmail(ctx context.Context) string {
	if email, ok := ctx.Value(UserEmailKey).(string); ok {
		return email
	}
	return ""
}

// WithUser returns ctx carrying user as the authenticated caller.
func WithUser(ctx context.Context, user *models.User) context.Context {
	ctx = context.WithValue(ctx, UserKey, user)
	ctx = context.WithValue(ctx, UserIDKey, user.ID)
	return context.WithValue(ctx, UserEmailKey, user.Email)
}
