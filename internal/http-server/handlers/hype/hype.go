// Package hype toggles the per-user like relation. The denormalized counter
// moves with the relation inside the storage transaction, so the returned
// event always carries a consistent hype_count.
package hype

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
	mwauth "evently/internal/http-server/middleware/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type HypeResponse struct {
	response.Response
	Event *models.Event `json:"event"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=HypeAdder
type HypeAdder interface {
	AddHype(ctx context.Context, userID string, eventID int) (*models.Event, error)
}

func NewAdd(log *slog.Logger, adder HypeAdder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.hype.NewAdd"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		eventID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid event id"))
			return
		}

		event, err := adder.AddHype(r.Context(), user.ID, eventID)
		if err != nil {
			log.Error("failed to add hype", sl.Err(err))

			switch {
			case errors.Is(err, storage.ErrAlreadyExists):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("you have already hyped this event"))
			case errors.Is(err, storage.ErrEventNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to hype event"))
			}
			return
		}

		log.Info("event hyped", slog.Int("event_id", eventID), slog.Int("hype_count", event.HypeCount))

		render.JSON(w, r, HypeResponse{Response: response.OK(), Event: event})
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=HypeRemover
type HypeRemover interface {
	RemoveHype(ctx context.Context, userID string, eventID int) (*models.Event, error)
}

func NewRemove(log *slog.Logger, remover HypeRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.hype.NewRemove"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		eventID, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid event id"))
			return
		}

		event, err := remover.RemoveHype(r.Context(), user.ID, eventID)
		if err != nil {
			log.Error("failed to remove hype", sl.Err(err))

			switch {
			case errors.Is(err, storage.ErrHypeNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("you have not hyped this event"))
			case errors.Is(err, storage.ErrEventNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to remove hype"))
			}
			return
		}

		log.Info("hype removed", slog.Int("event_id", eventID), slog.Int("hype_count", event.HypeCount))

		render.JSON(w, r, HypeResponse{Response: response.OK(), Event: event})
	}
}
