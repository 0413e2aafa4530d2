package hype

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"evently/internal/http-server/handlers/hype/mocks"
	"evently/internal/lib/logger/handlers/slogdiscard"
	"evently/internal/models"
	"evently/internal/storage"
	mwauth "evently/internal/http-server/middleware/auth"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAddHypeHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	user := &models.User{ID: "user-1", Email: "user@example.com", Role: models.RoleUser}

	testCases := []struct {
		name           string
		eventID        string
		mockSetup      func(m *mocks.HypeAdder)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "Success",
			eventID: "1",
			mockSetup: func(m *mocks.HypeAdder) {
				m.On("AddHype", mock.Anything, "user-1", 1).
					Return(&models.Event{ID: 1, HypeCount: 6}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid event ID",
			eventID:        "abc",
			mockSetup:      func(m *mocks.HypeAdder) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid event id"}`,
		},
		{
			name:    "Already hyped",
			eventID: "2",
			mockSetup: func(m *mocks.HypeAdder) {
				m.On("AddHype", mock.Anything, "user-1", 2).
					Return(nil, storage.ErrAlreadyExists)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"you have already hyped this event"}`,
		},
		{
			name:    "Event not found",
			eventID: "99",
			mockSetup: func(m *mocks.HypeAdder) {
				m.On("AddHype", mock.Anything, "user-1", 99).
					Return(nil, storage.ErrEventNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event not found"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockAdder := mocks.NewHypeAdder(t)
			tc.mockSetup(mockAdder)

			handler := NewAdd(logger, mockAdder)

			req, err := http.NewRequest(http.MethodPost, "/events/"+tc.eventID+"/hype", nil)
			require.NoError(t, err)
			req = req.WithContext(mwauth.WithUser(req.Context(), user))

			router := chi.NewRouter()
			router.Post("/events/{id}/hype", handler)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
		})
	}
}

func TestRemoveHypeHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	user := &models.User{ID: "user-1", Email: "user@example.com", Role: models.RoleUser}

	testCases := []struct {
		name           string
		eventID        string
		mockSetup      func(m *mocks.HypeRemover)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "Success",
			eventID: "1",
			mockSetup: func(m *mocks.HypeRemover) {
				m.On("RemoveHype", mock.Anything, "user-1", 1).
					Return(&models.Event{ID: 1, HypeCount: 4}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "Not hyped",
			eventID: "2",
			mockSetup: func(m *mocks.HypeRemover) {
				m.On("RemoveHype", mock.Anything, "user-1", 2).
					Return(nil, storage.ErrHypeNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"you have not hyped this event"}`,
		},
		{
			name:    "Storage failure",
			eventID: "3",
			mockSetup: func(m *mocks.HypeRemover) {
				m.On("RemoveHype", mock.Anything, "user-1", 3).
					Return(nil, assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to remove hype"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockRemover := mocks.NewHypeRemover(t)
			tc.mockSetup(mockRemover)

			handler := NewRemove(logger, mockRemover)

			req, err := http.NewRequest(http.MethodDelete, "/events/"+tc.eventID+"/hype", nil)
			require.NoError(t, err)
			req = req.WithContext(mwauth.WithUser(req.Context(), user))

			router := chi.NewRouter()
			router.Delete("/events/{id}/hype", handler)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
		})
	}
}
