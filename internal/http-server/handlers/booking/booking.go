// Package booking exposes the capacity-sensitive booking operations. The
// sold-count invariant itself lives in the storage transaction; handlers
// translate its outcomes to HTTP statuses.
package booking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"evently/internal/lib/api/response"
	"evently/internal/lib/logger/sl"
	"evently/internal/models"
	"evently/internal/storage"
	"evently/internal/waitlist"
	mwauth "evently/internal/http-server/middleware/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type CreateRequest struct {
	EventID int `json:"event_id" validate:"required"`
}

type CreateResponse struct {
	response.Response
	Booking *models.Booking `json:"booking"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingCreator
type BookingCreator interface {
	CreateBooking(ctx context.Context, userID string, eventID int) (*models.Booking, error)
}

func NewCreate(log *slog.Logger, creator BookingCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.NewCreate"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		var req CreateRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err := validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			if errors.As(err, &validateErr) {
				log.Error("invalid request", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErr))
				return
			}
		}

		booking, err := creator.CreateBooking(r.Context(), user.ID, req.EventID)
		if err != nil {
			log.Error("failed to create booking", sl.Err(err))

			switch {
			case errors.Is(err, storage.ErrEventNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
			case errors.Is(err, storage.ErrEventNotPublished):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("this event is not available for booking"))
			case errors.Is(err, storage.ErrEventFull):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("this event is sold out"))
			case errors.Is(err, storage.ErrAlreadyExists):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("you have already booked this event"))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to create booking"))
			}
			return
		}

		log.Info("booking created",
			slog.Int("booking_id", booking.ID),
			slog.Int("event_id", req.EventID),
		)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, CreateResponse{Response: response.OK(), Booking: booking})
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingCanceler
type BookingCanceler interface {
	CancelBooking(ctx context.Context, userID string, bookingID int) (eventID int, err error)
}

// NewCancel deletes a booking and frees its seat. The seat-freed policy runs
// after the storage transaction has committed.
func NewCancel(log *slog.Logger, canceler BookingCanceler, policy waitlist.SeatFreedPolicy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.NewCancel"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		bookingID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid booking id"))
			return
		}

		eventID, err := canceler.CancelBooking(r.Context(), user.ID, bookingID)
		if err != nil {
			log.Error("failed to cancel booking", sl.Err(err))

			switch {
			case errors.Is(err, storage.ErrBookingNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("booking not found"))
			case errors.Is(err, storage.ErrNotOwner):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("not authorized"))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to cancel booking"))
			}
			return
		}

		policy.OnSeatFreed(r.Context(), eventID)

		log.Info("booking cancelled",
			slog.Int("booking_id", bookingID),
			slog.Int("event_id", eventID),
		)

		render.JSON(w, r, response.OK())
	}
}
