// Package waitlist admits users to the waitlist of sold-out events. Entries
// are passive: nothing promotes them when seats free up.
package waitlist

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"evently/internal/lib/api/response"
	"evently/internal/lib/logger/sl"
	"evently/internal/models"
	"evently/internal/storage"
	mwauth "evently/internal/http-server/middleware/auth"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type JoinRequest struct {
	EventID int `json:"event_id" validate:"required"`
}

type JoinResponse struct {
	response.Response
	Entry *models.WaitlistEntry `json:"entry"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=WaitlistJoiner
type WaitlistJoiner interface {
	JoinWaitlist(ctx context.Context, userID string, eventID int) (*models.WaitlistEntry, error)
}

func NewJoin(log *slog.Logger, joiner WaitlistJoiner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.waitlist.NewJoin"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		var req JoinRequest
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

		entry, err := joiner.JoinWaitlist(r.Context(), user.ID, req.EventID)
		if err != nil {
			log.Error("failed to join waitlist", sl.Err(err))

			switch {
			case errors.Is(err, storage.ErrEventNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
			case errors.Is(err, storage.ErrEventNotFull):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("event is not sold out"))
			case errors.Is(err, storage.ErrAlreadyExists):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("you are already on the waitlist"))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to join waitlist"))
			}
			return
		}

		log.Info("waitlist entry created",
			slog.Int("entry_id", entry.ID),
			slog.Int("event_id", req.EventID),
		)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, JoinResponse{Response: response.OK(), Entry: entry})
	}
}
