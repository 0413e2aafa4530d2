package waitlist

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"evently/internal/http-server/handlers/waitlist/mocks"
	"evently/internal/lib/logger/handlers/slogdiscard"
	"evently/internal/models"
	"evently/internal/storage"
	mwauth "evently/internal/http-server/middleware/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestJoinWaitlistHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	user := &models.User{ID: "user-1", Email: "user@example.com", Role: models.RoleUser}

	testCases := []struct {
		name           string
		requestBody    string
		mockSetup      func(m *mocks.WaitlistJoiner)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "Success",
			requestBody: `{"event_id": 1}`,
			mockSetup: func(m *mocks.WaitlistJoiner) {
				m.On("JoinWaitlist", mock.Anything, "user-1", 1).
					Return(&models.WaitlistEntry{ID: 5, UserID: "user-1", EventID: 1}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Invalid JSON",
			requestBody:    `not json`,
			mockSetup:      func(m *mocks.WaitlistJoiner) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
		{
			name:        "Event not found",
			requestBody: `{"event_id": 99}`,
			mockSetup: func(m *mocks.WaitlistJoiner) {
				m.On("JoinWaitlist", mock.Anything, "user-1", 99).
					Return(nil, storage.ErrEventNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event not found"}`,
		},
		{
			name:        "Event still has seats",
			requestBody: `{"event_id": 2}`,
			mockSetup: func(m *mocks.WaitlistJoiner) {
				m.On("JoinWaitlist", mock.Anything, "user-1", 2).
					Return(nil, storage.ErrEventNotFull)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"event is not sold out"}`,
		},
		{
			name:        "Already on waitlist",
			requestBody: `{"event_id": 3}`,
			mockSetup: func(m *mocks.WaitlistJoiner) {
				m.On("JoinWaitlist", mock.Anything, "user-1", 3).
					Return(nil, storage.ErrAlreadyExists)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"you are already on the waitlist"}`,
		},
		{
			name:        "Storage failure",
			requestBody: `{"event_id": 4}`,
			mockSetup: func(m *mocks.WaitlistJoiner) {
				m.On("JoinWaitlist", mock.Anything, "user-1", 4).
					Return(nil, assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to join waitlist"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockJoiner := mocks.NewWaitlistJoiner(t)
			tc.mockSetup(mockJoiner)

			handler := NewJoin(logger, mockJoiner)

			req, err := http.NewRequest(http.MethodPost, "/waitlist", bytes.NewBufferString(tc.requestBody))
			require.NoError(t, err)
			req = req.WithContext(mwauth.WithUser(req.Context(), user))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
		})
	}
}

func TestJoinWaitlistUnauthenticated(t *testing.T) {
	t.Parallel()

	handler := NewJoin(slogdiscard.NewDiscardLogger(), mocks.NewWaitlistJoiner(t))

	req := httptest.NewRequest(http.MethodPost, "/waitlist", bytes.NewBufferString(`{"event_id": 1}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
