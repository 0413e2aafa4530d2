package event

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"evently/internal/http-server/handlers/event/mocks"
	"evently/internal/lib/logger/handlers/slogdiscard"
	"evently/internal/models"
	"evently/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRankBySoldRatio(t *testing.T) {
	t.Parallel()

	events := []models.Event{
		{ID: 1, Capacity: 100, TicketsSold: 10},
		{ID: 2, Capacity: 100, TicketsSold: 90},
		{ID: 3, Capacity: 10, TicketsSold: 10},
		{ID: 4, Capacity: 50, TicketsSold: 45},
	}

	ranked := RankBySoldRatio(events, 3)

	require.Len(t, ranked, 3)
	assert.Equal(t, 3, ranked[0].ID)
	assert.Equal(t, 2, ranked[1].ID)
	assert.Equal(t, 4, ranked[2].ID)

	// input order untouched
	assert.Equal(t, 1, events[0].ID)
}

func TestRankBySoldRatioStableTies(t *testing.T) {
	t.Parallel()

	events := []models.Event{
		{ID: 1, Capacity: 100, TicketsSold: 50},
		{ID: 2, Capacity: 10, TicketsSold: 5},
		{ID: 3, Capacity: 100, TicketsSold: 50},
	}

	ranked := RankBySoldRatio(events, 10)

	require.Len(t, ranked, 3)
	assert.Equal(t, 1, ranked[0].ID)
	assert.Equal(t, 2, ranked[1].ID)
	assert.Equal(t, 3, ranked[2].ID)
}

func TestSearchHandlerEmptyQuery(t *testing.T) {
	t.Parallel()

	// an empty query must not reach storage
	handler := NewSearch(slogdiscard.NewDiscardLogger(), nil)

	req := httptest.NewRequest(http.MethodGet, "/events/search?q=", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"OK","events":[]}`, rr.Body.String())
}

func TestGetEventHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testCases := []struct {
		name           string
		eventID        string
		mockSetup      func(m *mocks.PublishedGetter)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "Success",
			eventID: "1",
			mockSetup: func(m *mocks.PublishedGetter) {
				m.On("GetPublishedEvent", mock.Anything, 1).
					Return(&models.Event{ID: 1, Name: "Go Meetup", Status: models.StatusPublished}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "Unpublished reads as not found",
			eventID: "2",
			mockSetup: func(m *mocks.PublishedGetter) {
				m.On("GetPublishedEvent", mock.Anything, 2).
					Return(nil, storage.ErrEventNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event not found"}`,
		},
		{
			name:           "Invalid ID",
			eventID:        "abc",
			mockSetup:      func(m *mocks.PublishedGetter) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid event id"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockGetter := mocks.NewPublishedGetter(t)
			tc.mockSetup(mockGetter)

			handler := NewGet(logger, mockGetter)

			req, err := http.NewRequest(http.MethodGet, "/events/"+tc.eventID, nil)
			require.NoError(t, err)

			router := chi.NewRouter()
			router.Get("/events/{id}", handler)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
		})
	}
}
