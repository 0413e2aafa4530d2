package booking

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"evently/internal/http-server/handlers/booking/mocks"
	"evently/internal/lib/logger/handlers/slogdiscard"
	"evently/internal/models"
	"evently/internal/storage"
	"evently/internal/waitlist"
	mwauth "evently/internal/http-server/middleware/auth"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	user := &models.User{ID: "user-1", Email: "user@example.com", Role: models.RoleUser}

	testCases := []struct {
		name           string
		requestBody    string
		mockSetup      func(m *mocks.BookingCreator)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "Success",
			requestBody: `{"event_id": 1}`,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("CreateBooking", mock.Anything, "user-1", 1).
					Return(&models.Booking{ID: 10, UserID: "user-1", EventID: 1}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Invalid JSON",
			requestBody:    `invalid json`,
			mockSetup:      func(m *mocks.BookingCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
		{
			name:           "Missing event_id",
			requestBody:    `{}`,
			mockSetup:      func(m *mocks.BookingCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field EventID is a required field"}`,
		},
		{
			name:        "Event not found",
			requestBody: `{"event_id": 99}`,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("CreateBooking", mock.Anything, "user-1", 99).
					Return(nil, storage.ErrEventNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"event not found"}`,
		},
		{
			name:        "Event not published",
			requestBody: `{"event_id": 2}`,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("CreateBooking", mock.Anything, "user-1", 2).
					Return(nil, storage.ErrEventNotPublished)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"this event is not available for booking"}`,
		},
		{
			name:        "Sold out",
			requestBody: `{"event_id": 3}`,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("CreateBooking", mock.Anything, "user-1", 3).
					Return(nil, storage.ErrEventFull)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"this event is sold out"}`,
		},
		{
			name:        "Duplicate booking",
			requestBody: `{"event_id": 4}`,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("CreateBooking", mock.Anything, "user-1", 4).
					Return(nil, storage.ErrAlreadyExists)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"you have already booked this event"}`,
		},
		{
			name:        "Storage failure",
			requestBody: `{"event_id": 5}`,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("CreateBooking", mock.Anything, "user-1", 5).
					Return(nil, assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to create booking"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockCreator := mocks.NewBookingCreator(t)
			tc.mockSetup(mockCreator)

			handler := NewCreate(logger, mockCreator)

			req, err := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(tc.requestBody))
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

func TestCreateBookingUnauthenticated(t *testing.T) {
	t.Parallel()

	handler := NewCreate(slogdiscard.NewDiscardLogger(), mocks.NewBookingCreator(t))

	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(`{"event_id": 1}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"status":"Error","error":"authentication required"}`, rr.Body.String())
}

func TestCancelBookingHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	user := &models.User{ID: "user-1", Email: "user@example.com", Role: models.RoleUser}

	testCases := []struct {
		name           string
		bookingID      string
		mockSetup      func(m *mocks.BookingCanceler)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "Success",
			bookingID: "10",
			mockSetup: func(m *mocks.BookingCanceler) {
				m.On("CancelBooking", mock.Anything, "user-1", 10).Return(1, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name:           "Invalid booking ID",
			bookingID:      "abc",
			mockSetup:      func(m *mocks.BookingCanceler) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid booking id"}`,
		},
		{
			name:      "Booking not found",
			bookingID: "99",
			mockSetup: func(m *mocks.BookingCanceler) {
				m.On("CancelBooking", mock.Anything, "user-1", 99).
					Return(0, storage.ErrBookingNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"booking not found"}`,
		},
		{
			name:      "Someone else's booking",
			bookingID: "11",
			mockSetup: func(m *mocks.BookingCanceler) {
				m.On("CancelBooking", mock.Anything, "user-1", 11).
					Return(0, storage.ErrNotOwner)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"not authorized"}`,
		},
		{
			name:      "Storage failure",
			bookingID: "12",
			mockSetup: func(m *mocks.BookingCanceler) {
				m.On("CancelBooking", mock.Anything, "user-1", 12).
					Return(0, assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to cancel booking"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockCanceler := mocks.NewBookingCanceler(t)
			tc.mockSetup(mockCanceler)

			handler := NewCancel(logger, mockCanceler, waitlist.NoPromotion{})

			req, err := http.NewRequest(http.MethodDelete, "/bookings/"+tc.bookingID, nil)
			require.NoError(t, err)
			req = req.WithContext(mwauth.WithUser(req.Context(), user))

			router := chi.NewRouter()
			router.Delete("/bookings/{id}", handler)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}
