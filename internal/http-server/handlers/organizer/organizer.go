// Package organizer holds the event-management surface for ORGANIZER users
// plus the application flow for becoming one. Organizers only ever touch
// their own events, and only while those are in an editable state.
package organizer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"evently/internal/lib/api/response"
	"evently/internal/lib/logger/sl"
	"evently/internal/models"
	"evently/internal/storage"
	mwauth "evently/internal/http-server/middleware/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// EventPayload is the request body shared by create and update. Tags come
// in as a list and are stored comma-joined.
type EventPayload struct {
	Name        string     `json:"name" validate:"required"`
	Date        time.Time  `json:"date" validate:"required"`
	Location    string     `json:"location" validate:"required"`
	Price       float64    `json:"price" validate:"gte=0"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	Tags        []string   `json:"tags"`
	Capacity    int        `json:"capacity" validate:"required,min=1"`
	IsAllDay    bool       `json:"is_all_day"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
}

// Apply copies the payload onto an event, leaving ownership and lifecycle
// fields alone.
func (p *EventPayload) Apply(e *models.Event) {
	e.Name = p.Name
	e.Date = p.Date
	e.Location = p.Location
	e.Price = p.Price
	e.Description = p.Description
	e.ImageURL = p.ImageURL
	e.Tags = strings.Join(p.Tags, ",")
	e.Capacity = p.Capacity
	e.IsAllDay = p.IsAllDay
	e.StartTime = p.StartTime
	e.EndTime = p.EndTime
}

type EventResponse struct {
	response.Response
	Event *models.Event `json:"event"`
}

type EventsResponse struct {
	response.Response
	Events []models.Event `json:"events"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=OwnEventsLister
type OwnEventsLister interface {
	EventsByOrganizer(ctx context.Context, organizerID string) ([]models.Event, error)
}

// NewListEvents shows the organizer's own events in every lifecycle state.
func NewListEvents(log *slog.Logger, lister OwnEventsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.organizer.NewListEvents"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		events, err := lister.EventsByOrganizer(r.Context(), user.ID)
		if err != nil {
			log.Error("failed to list organizer events", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list events"))
			return
		}

		if events == nil {
			events = []models.Event{}
		}
		render.JSON(w, r, EventsResponse{Response: response.OK(), Events: events})
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventCreator
type EventCreator interface {
	CreateEvent(ctx context.Context, e *models.Event) (int, error)
}

// NewCreateEvent drafts a new event owned by the caller. The event carries
// the caller's organization name and starts in DRAFT.
func NewCreateEvent(log *slog.Logger, creator EventCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.organizer.NewCreateEvent"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		if user.OrganizationName == nil || *user.OrganizationName == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("organizer profile is not fully set up"))
			return
		}

		var req EventPayload
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
			OrganizerName: *user.OrganizationName,
			OrganizerID:   &user.ID,
			Status:        models.StatusDraft,
		}
		req.Apply(&event)

		id, err := creator.CreateEvent(r.Context(), &event)
		if err != nil {
			log.Error("failed to create event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create event"))
			return
		}

		log.Info("event drafted", slog.Int("event_id", id))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, EventResponse{Response: response.OK(), Event: &event})
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventUpdater
type EventUpdater interface {
	GetEvent(ctx context.Context, id int) (*models.Event, error)
	UpdateEvent(ctx context.Context, e *models.Event) error
}

// NewUpdateEvent edits an owned event. Events owned by someone else read as
// not found so the route leaks no existence information. Only DRAFT and
// REJECTED events are editable.
func NewUpdateEvent(log *slog.Logger, updater EventUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.organizer.NewUpdateEvent"

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

		var req EventPayload
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
			render.JSON(w, r, response.Error("failed to update event"))
			return
		}

		if event.OrganizerID == nil || *event.OrganizerID != user.ID {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))
			return
		}

		if !event.Status.OrganizerEditable() {
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("only draft or rejected events can be edited"))
			return
		}

		req.Apply(event)

		if err := updater.UpdateEvent(r.Context(), event); err != nil {
			log.Error("failed to update event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update event"))
			return
		}

		log.Info("event updated", slog.Int("event_id", id))

		render.JSON(w, r, EventResponse{Response: response.OK(), Event: event})
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventSubmitter
type EventSubmitter interface {
	GetEvent(ctx context.Context, id int) (*models.Event, error)
	UpdateEventStatus(ctx context.Context, id int, status models.EventStatus) (*models.Event, error)
}

// NewSubmitEvent hands a draft to the admins: DRAFT or REJECTED becomes
// PENDING_APPROVAL.
func NewSubmitEvent(log *slog.Logger, submitter EventSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.organizer.NewSubmitEvent"

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

		event, err := submitter.GetEvent(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrEventNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
				return
			}
			log.Error("failed to get event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to submit event"))
			return
		}

		if event.OrganizerID == nil || *event.OrganizerID != user.ID {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("event not found"))
			return
		}

		if !event.Status.OrganizerEditable() {
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("only draft or rejected events can be submitted"))
			return
		}

		event, err = submitter.UpdateEventStatus(r.Context(), id, models.StatusPendingApproval)
		if err != nil {
			log.Error("failed to submit event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to submit event"))
			return
		}

		log.Info("event submitted for approval", slog.Int("event_id", id))

		render.JSON(w, r, EventResponse{Response: response.OK(), Event: event})
	}
}

type RequestRequest struct {
	OrganizationName string `json:"organization_name" validate:"required"`
}

type RequestResponse struct {
	response.Response
	Request *models.OrganizerRequest `json:"request"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=RequestUpserter
type RequestUpserter interface {
	UpsertOrganizerRequest(ctx context.Context, userID, requestedOrgName string) (*models.OrganizerRequest, error)
}

// NewRequest files an application for organizer privileges. Re-applying
// replaces the requested name and puts the application back to PENDING.
func NewRequest(log *slog.Logger, upserter RequestUpserter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.organizer.NewRequest"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		var req RequestRequest
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

		request, err := upserter.UpsertOrganizerRequest(r.Context(), user.ID, req.OrganizationName)
		if err != nil {
			log.Error("failed to file organizer request", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to file organizer request"))
			return
		}

		log.Info("organizer request filed", slog.String("request_id", request.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, RequestResponse{Response: response.OK(), Request: request})
	}
}
