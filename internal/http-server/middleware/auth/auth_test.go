package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"evently/internal/http-server/middleware/auth/mocks"
	"evently/internal/lib/logger/handlers/slogdiscard"
	"evently/internal/models"
	"evently/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testCases := []struct {
		name           string
		header         string
		mockSetup      func(m *mocks.TokenVerifier)
		expectedStatus int
	}{
		{
			name:   "Valid token",
			header: "Bearer good-token",
			mockSetup: func(m *mocks.TokenVerifier) {
				m.On("Verify", mock.Anything, "good-token").Return("subject-1", nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing header",
			header:         "",
			mockSetup:      func(m *mocks.TokenVerifier) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong scheme",
			header:         "Basic dXNlcjpwYXNz",
			mockSetup:      func(m *mocks.TokenVerifier) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "Verification failure",
			header: "Bearer bad-token",
			mockSetup: func(m *mocks.TokenVerifier) {
				m.On("Verify", mock.Anything, "bad-token").Return("", assert.AnError)
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockVerifier := mocks.NewTokenVerifier(t)
			tc.mockSetup(mockVerifier)

			var gotSubject string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotSubject, _ = SubjectFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			rr := httptest.NewRecorder()
			Authenticate(logger, mockVerifier)(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedStatus == http.StatusOK {
				assert.Equal(t, "subject-1", gotSubject)
			}
		})
	}
}

func TestResolveUser(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	t.Run("Resolves directory record", func(t *testing.T) {
		t.Parallel()

		mockResolver := mocks.NewUserResolver(t)
		mockResolver.On("UserBySubject", mock.Anything, "subject-1").
			Return(&models.User{ID: "user-1", Role: models.RoleUser}, nil)

		var gotUser *models.User
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUser, _ = UserFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithSubject(req.Context(), "subject-1"))

		rr := httptest.NewRecorder()
		ResolveUser(logger, mockResolver)(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user-1", gotUser.ID)
	})

	t.Run("Unknown subject", func(t *testing.T) {
		t.Parallel()

		mockResolver := mocks.NewUserResolver(t)
		mockResolver.On("UserBySubject", mock.Anything, "subject-2").
			Return(nil, storage.ErrUserNotFound)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithSubject(req.Context(), "subject-2"))

		rr := httptest.NewRecorder()
		ResolveUser(logger, mockResolver)(okHandler()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"status":"Error","error":"user not found"}`, rr.Body.String())
	})

	t.Run("No subject in context", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		ResolveUser(logger, mocks.NewUserResolver(t))(okHandler()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRoleGates(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		gate           func(http.Handler) http.Handler
		role           models.Role
		expectedStatus int
	}{
		{"Organizer passes organizer gate", RequireOrganizer, models.RoleOrganizer, http.StatusOK},
		{"Admin passes organizer gate", RequireOrganizer, models.RoleAdmin, http.StatusOK},
		{"User blocked by organizer gate", RequireOrganizer, models.RoleUser, http.StatusForbidden},
		{"Admin passes admin gate", RequireAdmin, models.RoleAdmin, http.StatusOK},
		{"Organizer blocked by admin gate", RequireAdmin, models.RoleOrganizer, http.StatusForbidden},
		{"User blocked by admin gate", RequireAdmin, models.RoleUser, http.StatusForbidden},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(WithUser(req.Context(), &models.User{ID: "u", Role: tc.role}))

			rr := httptest.NewRecorder()
			tc.gate(okHandler()).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}

func TestRoleGatesWithoutUser(t *testing.T) {
	t.Parallel()

	for _, gate := range []func(http.Handler) http.Handler{RequireOrganizer, RequireAdmin} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		gate(okHandler()).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	}
}
