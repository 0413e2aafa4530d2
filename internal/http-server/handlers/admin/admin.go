// Package admin is the back-office surface: dashboard stats, user role
// management, the approval queues and unrestricted event CRUD. Every route
// here sits behind the admin middleware; handlers still re-check the
// context user because some guards depend on who the caller is.
package admin

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

// defaultOrganizerName labels admin-created events that belong to no
// organizer account.
const defaultOrganizerName = "Evently"

type StatsResponse struct {
	response.Response
	*storage.Stats
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=StatsProvider
type StatsProvider interface {
	Stats(ctx context.Context) (*storage.Stats, error)
}

func NewStats(log *slog.Logger, provider StatsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.NewStats"

		log := log.With(slog.String("op", op))

		stats, err := provider.Stats(r.Context())
		if err != nil {
			log.Error("failed to build stats", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to build stats"))
			return
		}

		render.JSON(w, r, StatsResponse{Response: response.OK(), Stats: stats})
	}
}

type AnalyticsResponse struct {
	response.Response
	*storage.EventAnalytics
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=AnalyticsProvider
type AnalyticsProvider interface {
	EventAnalytics(ctx context.Context, eventID int) (*storage.EventAnalytics, error)
}

func NewEventAnalytics(log *slog.Logger, provider AnalyticsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.NewEventAnalytics"

		log := log.With(slog.String("op", op))

		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid event id"))
			return
		}

		analytics, err := provider.EventAnalytics(r.Context(), id)
		if err != nil {
			log.Error("failed to build event analytics", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to build event analytics"))
			return
		}

		render.JSON(w, r, AnalyticsResponse{Response: response.OK(), EventAnalytics: analytics})
	}
}

type UsersResponse struct {
	response.Response
	Users []models.User `json:"users"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=UsersLister
type UsersLister interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

func NewListUsers(log *slog.Logger, lister UsersLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.NewListUsers"

		log := log.With(slog.String("op", op))

		users, err := lister.ListUsers(r.Context())
		if err != nil {
			log.Error("failed to list users", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list users"))
			return
		}

		if users == nil {
			users = []models.User{}
		}
		render.JSON(w, r, UsersResponse{Response: response.OK(), Users: users})
	}
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type UserResponse struct {
	response.Response
	User *models.User `json:"user"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=RoleUpdater
type RoleUpdater interface {
	UpdateUserRole(ctx context.Context, id string, role models.Role) (*models.User, error)
}

// NewUpdateUserRole changes another user's role. Admins cannot change their
// own role, so there is always at least one admin left.
func NewUpdateUserRole(log *slog.Logger, updater RoleUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.NewUpdateUserRole"

		log := log.With(slog.String("op", op))

		caller, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		userID := chi.URLParam(r, "id")
		if userID == caller.ID {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("admins cannot change their own role"))
			return
		}

		var req UpdateRoleRequest
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

		role, err := models.ParseRole(req.Role)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid role"))
			return
		}

		user, err := updater.UpdateUserRole(r.Context(), userID, role)
		if err != nil {
			if errors.Is(err, storage.ErrUserNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("user not found"))
				return
			}
			log.Error("failed to update user role", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update user role"))
			return
		}

		log.Info("user role updated",
			slog.String("user_id", userID),
			slog.String("role", string(role)),
		)

		render.JSON(w, r, UserResponse{Response: response.OK(), User: user})
	}
}

type EventsResponse struct {
	response.Response
	Events []models.Event `json:"events"`
}

type EventResponse struct {
	response.Response
	Event *models.Event `json:"event"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=AllEventsLister
type AllEventsLister interface {
	AllEvents(ctx context.Context) ([]models.Event, error)
}

func NewListEvents(log *slog.Logger, lister AllEventsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.NewListEvents"

		log := log.With(slog.String("op", op))

		events, err := lister.AllEvents(r.Context())
		if err != nil {
			log.Error("failed to list events", sl.Err(err))
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

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ApprovalsLister
type ApprovalsLister interface {
	PendingApprovalEvents(ctx context.Context) ([]models.Event, error)
}

func NewListApprovals(log *slog.Logger, lister ApprovalsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.NewListApprovals"

		log := log.With(slog.String("op", op))

		events, err := lister.PendingApprovalEvents(r.Context())
		if err != nil {
			log.Error("failed to list pending events", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list pending events"))
			return
		}

		if events == nil {
			events = []models.Event{}
		}
		render.JSON(w, r, EventsResponse{Response: response.OK(), Events: events})
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=StatusUpdater
type StatusUpdater interface {
	UpdateEventStatus(ctx context.Context, id int, status models.EventStatus) (*models.Event, error)
}

// NewApproveEvent publishes an event. Admin decisions are unconditional:
// any current status goes straight to PUBLISHED.
func NewApproveEvent(log *slog.Logger, updater StatusUpdater) http.HandlerFunc {
	return newStatusChange(log, updater, "handlers.admin.NewApproveEvent", models.StatusPublished)
}

// NewRejectEvent sends an event back to its organizer as REJECTED.
func NewRejectEvent(log *slog.Logger, updater StatusUpdater) http.HandlerFunc {
	return newStatusChange(log, updater, "handlers.admin.NewRejectEvent", models.StatusRejected)
}

func newStatusChange(log *slog.Logger, updater StatusUpdater, op string, status models.EventStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := log.With(slog.String("op", op))

		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid event id"))
			return
		}

		event, err := updater.UpdateEventStatus(r.Context(), id, status)
		if err != nil {
			if errors.Is(err, storage.ErrEventNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
				return
			}
			log.Error("failed to update event status", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update event status"))
			return
		}

		log.Info("event status changed",
			slog.Int("event_id", id),
			slog.String("status", string(status)),
		)

		render.JSON(w, r, EventResponse{Response: response.OK(), Event: event})
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventCreator
type EventCreator interface {
	CreateEvent(ctx context.Context, e *models.Event) (int, error)
}

// CreateEventRequest is the organizer payload plus the fields only admins
// may set directly.
type CreateEventRequest struct {
	organizer.EventPayload
	OrganizerName string `json:"organizer_name"`
	IsFeatured    bool   `json:"is_featured"`
}

// NewCreateEvent creates an event that skips the approval pipeline and goes
// live immediately.
func NewCreateEvent(log *slog.Logger, creator EventCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.NewCreateEvent"

		log := log.With(slog.String("op", op))

		var req CreateEventRequest
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
			OrganizerName: req.OrganizerName,
			Status:        models.StatusPublished,
			IsFeatured:    req.IsFeatured,
		}
		if event.OrganizerName == "" {
			event.OrganizerName = defaultOrganizerName
		}
		req.Apply(&event)

		id, err := creator.CreateEvent(r.Context(), &event)
		if err != nil {
			log.Error("failed to create event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create event"))
			return
		}

		log.Info("event created", slog.Int("event_id", id))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, EventResponse{Response: response.OK(), Event: &event})
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventUpdater
type EventUpdater interface {
	GetEvent(ctx context.Context, id int) (*models.Event, error)
	UpdateEvent(ctx context.Context, e *models.Event) error
}

// UpdateEventRequest additionally lets admins move the lifecycle status
// directly.
type UpdateEventRequest struct {
	CreateEventRequest
	Status string `json:"status"`
}

// NewUpdateEvent edits any event with no ownership or lifecycle guard.
func NewUpdateEvent(log *slog.Logger, updater EventUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.NewUpdateEvent"

		log := log.With(slog.String("op", op))

		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid event id"))
			return
		}

		var req UpdateEventRequest
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

		req.Apply(event)
		if req.OrganizerName != "" {
			event.OrganizerName = req.OrganizerName
		}
		event.IsFeatured = req.IsFeatured
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
			log.Error("failed to update event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update event"))
			return
		}

		log.Info("event updated", slog.Int("event_id", id))

		render.JSON(w, r, EventResponse{Response: response.OK(), Event: event})
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventDeleter
type EventDeleter interface {
	DeleteEvent(ctx context.Context, id int) error
}

// NewDeleteEvent removes an event with all its bookings, waitlist entries,
// hypes and watchlist rows.
func NewDeleteEvent(log *slog.Logger, deleter EventDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.NewDeleteEvent"

		log := log.With(slog.String("op", op))

		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid event id"))
			return
		}

		if err := deleter.DeleteEvent(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrEventNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
				return
			}
			log.Error("failed to delete event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to delete event"))
			return
		}

		log.Info("event deleted", slog.Int("event_id", id))

		render.JSON(w, r, response.OK())
	}
}

type RequestsResponse struct {
	response.Response
	Requests []models.OrganizerRequest `json:"requests"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=RequestsLister
type RequestsLister interface {
	PendingOrganizerRequests(ctx context.Context) ([]models.OrganizerRequest, error)
}

func NewListOrganizerRequests(log *slog.Logger, lister RequestsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.NewListOrganizerRequests"

		log := log.With(slog.String("op", op))

		requests, err := lister.PendingOrganizerRequests(r.Context())
		if err != nil {
			log.Error("failed to list organizer requests", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list organizer requests"))
			return
		}

		if requests == nil {
			requests = []models.OrganizerRequest{}
		}
		render.JSON(w, r, RequestsResponse{Response: response.OK(), Requests: requests})
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=RequestApprover
type RequestApprover interface {
	ApproveOrganizerRequest(ctx context.Context, requestID string) error
}

// NewApproveOrganizerRequest grants organizer privileges to the applicant.
func NewApproveOrganizerRequest(log *slog.Logger, approver RequestApprover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.NewApproveOrganizerRequest"

		log := log.With(slog.String("op", op))

		requestID := chi.URLParam(r, "id")

		if err := approver.ApproveOrganizerRequest(r.Context(), requestID); err != nil {
			if errors.Is(err, storage.ErrRequestNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("organizer request not found"))
				return
			}
			log.Error("failed to approve organizer request", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to approve organizer request"))
			return
		}

		log.Info("organizer request approved", slog.String("request_id", requestID))

		render.JSON(w, r, response.OK())
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=RequestRejecter
type RequestRejecter interface {
	RejectOrganizerRequest(ctx context.Context, requestID string) error
}

func NewRejectOrganizerRequest(log *slog.Logger, rejecter RequestRejecter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.NewRejectOrganizerRequest"

		log := log.With(slog.String("op", op))

		requestID := chi.URLParam(r, "id")

		if err := rejecter.RejectOrganizerRequest(r.Context(), requestID); err != nil {
			if errors.Is(err, storage.ErrRequestNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("organizer request not found"))
				return
			}
			log.Error("failed to reject organizer request", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to reject organizer request"))
			return
		}

		log.Info("organizer request rejected", slog.String("request_id", requestID))

		render.JSON(w, r, response.OK())
	}
}
