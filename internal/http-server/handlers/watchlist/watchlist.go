// Package watchlist is the save-for-later toggle. Same uniqueness contract
// as hype, no counter side effect.
package watchlist

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
	"github.com/go-playground/validator/v10"
)

type AddRequest struct {
	EventID int `json:"event_id" validate:"required"`
}

type AddResponse struct {
	response.Response
	Item *models.WatchlistItem `json:"item"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=WatchAdder
type WatchAdder interface {
	AddWatchlistItem(ctx context.Context, userID string, eventID int) (*models.WatchlistItem, error)
}

func NewAdd(log *slog.Logger, adder WatchAdder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.watchlist.NewAdd"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		var req AddRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err := validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			if errors.As(err, &validateErr) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErr))
				return
			}
		}

		item, err := adder.AddWatchlistItem(r.Context(), user.ID, req.EventID)
		if err != nil {
			log.Error("failed to add watchlist item", sl.Err(err))

			switch {
			case errors.Is(err, storage.ErrAlreadyExists):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("this event is already in your watchlist"))
			case errors.Is(err, storage.ErrEventNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to add watchlist item"))
			}
			return
		}

		log.Info("watchlist item added", slog.Int("event_id", req.EventID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, AddResponse{Response: response.OK(), Item: item})
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=WatchRemover
type WatchRemover interface {
	RemoveWatchlistItem(ctx context.Context, userID string, eventID int) error
}

func NewRemove(log *slog.Logger, remover WatchRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.watchlist.NewRemove"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		eventID, err := strconv.Atoi(chi.URLParam(r, "eventId"))
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid event id"))
			return
		}

		if err := remover.RemoveWatchlistItem(r.Context(), user.ID, eventID); err != nil {
			log.Error("failed to remove watchlist item", sl.Err(err))

			switch {
			case errors.Is(err, storage.ErrWatchNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("watchlist entry not found"))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to remove watchlist item"))
			}
			return
		}

		log.Info("watchlist item removed", slog.Int("event_id", eventID))

		render.JSON(w, r, response.OK())
	}
}
