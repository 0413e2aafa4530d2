package organizer

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"evently/internal/http-server/handlers/organizer/mocks"
	"evently/internal/lib/logger/handlers/slogdiscard"
	"evently/internal/models"
	"evently/internal/storage"
	mwauth "evently/internal/http-server/middleware/auth"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validPayload = `{
	"name": "Go Meetup",
	"date": "2026-10-01T18:00:00Z",
	"location": "Berlin",
	"price": 10,
	"capacity": 50,
	"tags": ["go", "meetup"]
}`

func organizerUser(id string) *models.User {
	org := "Acme Events"
	return &models.User{ID: id, Email: "org@example.com", Role: models.RoleOrganizer, OrganizationName: &org}
}

func TestCreateEventHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	t.Run("Success", func(t *testing.T) {
		t.Parallel()

		mockCreator := mocks.NewEventCreator(t)
		mockCreator.On("CreateEvent", mock.Anything, mock.MatchedBy(func(e *models.Event) bool {
			return e.Status == models.StatusDraft &&
				e.OrganizerName == "Acme Events" &&
				e.OrganizerID != nil && *e.OrganizerID == "org-1" &&
				e.Tags == "go,meetup"
		})).Return(1, nil)

		handler := NewCreateEvent(logger, mockCreator)

		req := httptest.NewRequest(http.MethodPost, "/organizer/events", bytes.NewBufferString(validPayload))
		req = req.WithContext(mwauth.WithUser(req.Context(), organizerUser("org-1")))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("Profile without organization name", func(t *testing.T) {
		t.Parallel()

		handler := NewCreateEvent(logger, mocks.NewEventCreator(t))

		user := &models.User{ID: "org-2", Email: "org@example.com", Role: models.RoleOrganizer}
		req := httptest.NewRequest(http.MethodPost, "/organizer/events", bytes.NewBufferString(validPayload))
		req = req.WithContext(mwauth.WithUser(req.Context(), user))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"status":"Error","error":"organizer profile is not fully set up"}`, rr.Body.String())
	})

	t.Run("Missing required fields", func(t *testing.T) {
		t.Parallel()

		handler := NewCreateEvent(logger, mocks.NewEventCreator(t))

		req := httptest.NewRequest(http.MethodPost, "/organizer/events", bytes.NewBufferString(`{"name": "No date"}`))
		req = req.WithContext(mwauth.WithUser(req.Context(), organizerUser("org-1")))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"Error"`)
	})
}

func TestSubmitEventHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	owner := "org-1"

	testCases := []struct {
		name           string
		mockSetup      func(m *mocks.EventSubmitter)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Draft goes to pending approval",
			mockSetup: func(m *mocks.EventSubmitter) {
				m.On("GetEvent", mock.Anything, 1).
					Return(&models.Event{ID: 1, OrganizerID: &owner, Status: models.StatusDraft}, nil)
				m.On("UpdateEventStatus", mock.Anything, 1, models.StatusPendingApproval).
					Return(&models.Event{ID: 1, OrganizerID: &owner, Status: models.StatusPendingApproval}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Already pending",
			mockSetup: func(m *mocks.EventSubmitter) {
				m.On("GetEvent", mock.Anything, 1).
					Return(&models.Event{ID: 1, OrganizerID: &owner, Status: models.StatusPendingApproval}, nil)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"only draft or rejected events can be submitted"}`,
		},
		{
			name: "Someone else's event reads as not found",
			mockSetup: func(m *mocks.EventSubmitter) {
				other := "org-2"
				m.On("GetEvent", mock.Anything, 1).
					Return(&models.Event{ID: 1, OrganizerID: &other, Status: models.StatusDraft}, nil)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event not found"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockSubmitter := mocks.NewEventSubmitter(t)
			tc.mockSetup(mockSubmitter)

			handler := NewSubmitEvent(logger, mockSubmitter)

			req, err := http.NewRequest(http.MethodPost, "/organizer/events/1/submit", nil)
			require.NoError(t, err)
			req = req.WithContext(mwauth.WithUser(req.Context(), organizerUser(owner)))

			router := chi.NewRouter()
			router.Post("/organizer/events/{id}/submit", handler)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
		})
	}
}

func TestUpdateEventHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	owner := "org-1"

	testCases := []struct {
		name           string
		mockSetup      func(m *mocks.EventUpdater)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Success on draft",
			mockSetup: func(m *mocks.EventUpdater) {
				m.On("GetEvent", mock.Anything, 1).
					Return(&models.Event{ID: 1, OrganizerID: &owner, Status: models.StatusDraft}, nil)
				m.On("UpdateEvent", mock.Anything, mock.MatchedBy(func(e *models.Event) bool {
					return e.ID == 1 && e.Name == "Go Meetup" && e.Status == models.StatusDraft
				})).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Success on rejected",
			mockSetup: func(m *mocks.EventUpdater) {
				m.On("GetEvent", mock.Anything, 1).
					Return(&models.Event{ID: 1, OrganizerID: &owner, Status: models.StatusRejected}, nil)
				m.On("UpdateEvent", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Event not found",
			mockSetup: func(m *mocks.EventUpdater) {
				m.On("GetEvent", mock.Anything, 1).Return(nil, storage.ErrEventNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event not found"}`,
		},
		{
			name: "Someone else's event reads as not found",
			mockSetup: func(m *mocks.EventUpdater) {
				other := "org-2"
				m.On("GetEvent", mock.Anything, 1).
					Return(&models.Event{ID: 1, OrganizerID: &other, Status: models.StatusDraft}, nil)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event not found"}`,
		},
		{
			name: "Published event is locked",
			mockSetup: func(m *mocks.EventUpdater) {
				m.On("GetEvent", mock.Anything, 1).
					Return(&models.Event{ID: 1, OrganizerID: &owner, Status: models.StatusPublished}, nil)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"only draft or rejected events can be edited"}`,
		},
		{
			name: "Pending event is locked",
			mockSetup: func(m *mocks.EventUpdater) {
				m.On("GetEvent", mock.Anything, 1).
					Return(&models.Event{ID: 1, OrganizerID: &owner, Status: models.StatusPendingApproval}, nil)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"only draft or rejected events can be edited"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockUpdater := mocks.NewEventUpdater(t)
			tc.mockSetup(mockUpdater)

			handler := NewUpdateEvent(logger, mockUpdater)

			req, err := http.NewRequest(http.MethodPut, "/organizer/events/1", bytes.NewBufferString(validPayload))
			require.NoError(t, err)
			req = req.WithContext(mwauth.WithUser(req.Context(), organizerUser(owner)))

			router := chi.NewRouter()
			router.Put("/organizer/events/{id}", handler)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
		})
	}
}
