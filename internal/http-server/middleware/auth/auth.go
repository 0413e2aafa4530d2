// Package auth authenticates requests and gates them by role. A request
// passes Authenticate (bearer token → subject), then ResolveUser (subject →
// directory record), then optionally a role gate.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"evently/internal/lib/api/response"
	"evently/internal/lib/logger/sl"
	"evently/internal/models"

	"github.com/go-chi/render"
)

type contextKey string

const (
	subjectKey contextKey = "auth.subject"
	userKey    contextKey = "auth.user"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TokenVerifier
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (subject string, err error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=UserResolver
type UserResolver interface {
	UserBySubject(ctx context.Context, subjectID string) (*models.User, error)
}

// Authenticate extracts the bearer credential and verifies it with the
// identity provider, storing the subject in the request context.
func Authenticate(log *slog.Logger, verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			subject, err := verifier.Verify(r.Context(), strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				log.Warn("token verification failed", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid credentials"))
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ResolveUser maps the authenticated subject to a directory record. A
// verified token without a directory record is still unauthenticated.
func ResolveUser(log *slog.Logger, resolver UserResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := SubjectFromContext(r.Context())
			if !ok {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			user, err := resolver.UserBySubject(r.Context(), subject)
			if err != nil {
				log.Warn("failed to resolve user", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user not found"))
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireOrganizer admits organizers and admins.
func RequireOrganizer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || !user.Role.CanManageEvents() {
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("organizer privileges required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin admits admins only.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || user.Role != models.RoleAdmin {
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("admin privileges required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// WithUser returns a context carrying the given user. Test helper.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// WithSubject returns a context carrying the given subject. Test helper.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}
