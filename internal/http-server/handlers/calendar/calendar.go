// Package calendar serves the schedule view. What a caller sees depends on
// their role: admins get every event, organizers their own, regular users
// the events they booked. Writes go through the same event tables, so a
// calendar entry is just an event with the all-day/start/end fields set.
package calendar

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"evently/internal/http-server/handlers/organizer"
	"evently/internal/lib/api/response"
	"evently/internal/lib/logger/sl"
	"evently/internal/models"
	"evently/internal/storage"
	mwauth "evently/internal/http-server/middleware/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type EventsResponse struct {
	response.Response
	Events []models.Event `json:"events"`
}

type EventResponse struct {
	response.Response
	Event *models.Event `json:"event"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ScheduleLister
type ScheduleLister interface {
	AllEvents(ctx context.Context) ([]models.Event, error)
	EventsByOrganizer(ctx context.Context, organizerID string) ([]models.Event, error)
	EventsBookedByUser(ctx context.Context, userID string) ([]models.Event, error)
}

// NewList returns the caller's schedule, scoped by role.
func NewList(log *slog.Logger, lister ScheduleLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendar.NewList"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		var (
			events []models.Event
			err    error
		)
		switch user.Role {
		case models.RoleAdmin:
			events, err = lister.AllEvents(r.Context())
		case models.RoleOrganizer:
			events, err = lister.EventsByOrganizer(r.Context(), user.ID)
		default:
			events, err = lister.EventsBookedByUser(r.Context(), user.ID)
		}
		if err != nil {
			log.Error("failed to list calendar events", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list calendar events"))
			return
		}

		if events == nil {
			events = []models.Event{}
		}
		render.JSON(w, r, EventsResponse{Response: response.OK(), Events: events})
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EntryCreator
type EntryCreator interface {
	CreateEvent(ctx context.Context, e *models.Event) (int, error)
}

// NewCreate adds a calendar entry. Admin entries are visible immediately;
// organizer entries start as drafts like any other event.
func NewCreate(log *slog.Logger, creator EntryCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendar.NewCreate"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		var req organizer.EventPayload
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

		event := models.Event{
			OrganizerID: &user.ID,
			Status:      models.StatusDraft,
		}
		if user.Role == models.RoleAdmin {
			event.Status = models.StatusPublished
		}
		if user.OrganizationName != nil {
			event.OrganizerName = *user.OrganizationName
		}
		req.Apply(&event)

		id, err := creator.CreateEvent(r.Context(), &event)
		if err != nil {
			log.Error("failed to create calendar entry", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create calendar entry"))
			return
		}

		log.Info("calendar entry created", slog.Int("event_id", id))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, EventResponse{Response: response.OK(), Event: &event})
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EntryUpdater
type EntryUpdater interface {
	GetEvent(ctx context.Context, id int) (*models.Event, error)
	UpdateEvent(ctx context.Context, e *models.Event) error
}

// UpdateRequest lets admins also move the lifecycle status from the
// calendar view.
type UpdateRequest struct {
	organizer.EventPayload
	Status string `json:"status"`
}

// NewUpdate edits a calendar entry. Organizers may only touch their own
// entries; status changes are admin-only.
func NewUpdate(log *slog.Logger, updater EntryUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendar.NewUpdate"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid event id"))
			return
		}

		var req UpdateRequest
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

		event, err := updater.GetEvent(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrEventNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
				return
			}
			log.Error("failed to get event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update calendar entry"))
			return
		}

		if user.Role != models.RoleAdmin {
			if event.OrganizerID == nil || *event.OrganizerID != user.ID {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
				return
			}
			if req.Status != "" {
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("only admins can change the event status"))
				return
			}
		}

		req.Apply(event)
		if req.Status != "" {
			status, err := models.ParseEventStatus(req.Status)
			if err != nil {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("invalid event status"))
				return
			}
			event.Status = status
		}

		if err := updater.UpdateEvent(r.Context(), event); err != nil {
			log.Error("failed to update calendar entry", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update calendar entry"))
			return
		}

		log.Info("calendar entry updated", slog.Int("event_id", id))

		render.JSON(w, r, EventResponse{Response: response.OK(), Event: event})
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EntryDeleter
type EntryDeleter interface {
	GetEvent(ctx context.Context, id int) (*models.Event, error)
	DeleteEvent(ctx context.Context, id int) error
}

// NewDelete removes a calendar entry with the same ownership rule as
// NewUpdate.
func NewDelete(log *slog.Logger, deleter EntryDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calendar.NewDelete"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid event id"))
			return
		}

		if user.Role != models.RoleAdmin {
			event, err := deleter.GetEvent(r.Context(), id)
			if err != nil {
				if errors.Is(err, storage.ErrEventNotFound) {
					render.Status(r, http.StatusNotFound)
					render.JSON(w, r, response.Error("event not found"))
					return
				}
				log.Error("failed to get event", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to delete calendar entry"))
				return
			}
			if event.OrganizerID == nil || *event.OrganizerID != user.ID {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
				return
			}
		}

		if err := deleter.DeleteEvent(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrEventNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
				return
			}
			log.Error("failed to delete calendar entry", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to delete calendar entry"))
			return
		}

		log.Info("calendar entry deleted", slog.Int("event_id", id))

		render.JSON(w, r, response.OK())
	}
}
