// Package user covers the directory surface: registration on first login,
// the profile view, and the caller's own bookings, waitlist, hypes,
// watchlist and recommendations.
package user

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"evently/internal/lib/api/response"
	"evently/internal/lib/logger/sl"
	"evently/internal/models"
	mwauth "evently/internal/http-server/middleware/auth"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

const recommendationsLimit = 10

type RegisterRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type RegisterResponse struct {
	response.Response
	User *models.User `json:"user"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=UserUpserter
type UserUpserter interface {
	UpsertUser(ctx context.Context, email, subjectID string) (*models.User, error)
}

// NewRegister creates the directory record on first authentication, or
// binds the verified subject to a pre-seeded record with the same email.
// It runs behind Authenticate only: the user does not exist yet.
func NewRegister(log *slog.Logger, upserter UserUpserter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.NewRegister"

		log := log.With(slog.String("op", op))

		subject, ok := mwauth.SubjectFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		var req RegisterRequest
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

		user, err := upserter.UpsertUser(r.Context(), req.Email, subject)
		if err != nil {
			log.Error("failed to upsert user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register user"))
			return
		}

		log.Info("user registered", slog.String("user_id", user.ID))

		render.JSON(w, r, RegisterResponse{Response: response.OK(), User: user})
	}
}

type MeResponse struct {
	response.Response
	Email                  string                `json:"email"`
	Role                   models.Role           `json:"role"`
	CreatedAt              time.Time             `json:"created_at"`
	OrganizationName       *string               `json:"organization_name,omitempty"`
	OrganizerRequestStatus *models.RequestStatus `json:"organizer_request_status,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=RequestStatusGetter
type RequestStatusGetter interface {
	OrganizerRequestStatus(ctx context.Context, userID string) (*models.RequestStatus, error)
}

func NewMe(log *slog.Logger, statuses RequestStatusGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.NewMe"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		status, err := statuses.OrganizerRequestStatus(r.Context(), user.ID)
		if err != nil {
			log.Error("failed to get organizer request status", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to load profile"))
			return
		}

		render.JSON(w, r, MeResponse{
			Response:               response.OK(),
			Email:                  user.Email,
			Role:                   user.Role,
			CreatedAt:              user.CreatedAt,
			OrganizationName:       user.OrganizationName,
			OrganizerRequestStatus: status,
		})
	}
}

type BookingsResponse struct {
	response.Response
	Bookings []models.Booking `json:"bookings"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingsLister
type BookingsLister interface {
	BookingsByUser(ctx context.Context, userID string) ([]models.Booking, error)
}

func NewMyBookings(log *slog.Logger, lister BookingsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.NewMyBookings"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		bookings, err := lister.BookingsByUser(r.Context(), user.ID)
		if err != nil {
			log.Error("failed to list bookings", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list bookings"))
			return
		}

		if bookings == nil {
			bookings = []models.Booking{}
		}
		render.JSON(w, r, BookingsResponse{Response: response.OK(), Bookings: bookings})
	}
}

type WaitlistResponse struct {
	response.Response
	Entries []models.WaitlistEntry `json:"entries"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=WaitlistLister
type WaitlistLister interface {
	WaitlistByUser(ctx context.Context, userID string) ([]models.WaitlistEntry, error)
}

func NewMyWaitlist(log *slog.Logger, lister WaitlistLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.NewMyWaitlist"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		entries, err := lister.WaitlistByUser(r.Context(), user.ID)
		if err != nil {
			log.Error("failed to list waitlist entries", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list waitlist entries"))
			return
		}

		if entries == nil {
			entries = []models.WaitlistEntry{}
		}
		render.JSON(w, r, WaitlistResponse{Response: response.OK(), Entries: entries})
	}
}

type HypesResponse struct {
	response.Response
	Hypes []models.Hype `json:"hypes"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=HypesLister
type HypesLister interface {
	HypesByUser(ctx context.Context, userID string) ([]models.Hype, error)
}

func NewMyHypes(log *slog.Logger, lister HypesLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.NewMyHypes"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		hypes, err := lister.HypesByUser(r.Context(), user.ID)
		if err != nil {
			log.Error("failed to list hypes", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list hypes"))
			return
		}

		if hypes == nil {
			hypes = []models.Hype{}
		}
		render.JSON(w, r, HypesResponse{Response: response.OK(), Hypes: hypes})
	}
}

type WatchlistResponse struct {
	response.Response
	Items []models.WatchlistItem `json:"items"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=WatchlistViewer
type WatchlistViewer interface {
	WatchlistByUser(ctx context.Context, userID string) ([]models.WatchlistItem, error)
}

func NewMyWatchlist(log *slog.Logger, viewer WatchlistViewer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.NewMyWatchlist"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		items, err := viewer.WatchlistByUser(r.Context(), user.ID)
		if err != nil {
			log.Error("failed to list watchlist", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list watchlist"))
			return
		}

		if items == nil {
			items = []models.WatchlistItem{}
		}
		render.JSON(w, r, WatchlistResponse{Response: response.OK(), Items: items})
	}
}

type RecommendationsResponse struct {
	response.Response
	Events []models.Event `json:"events"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Recommender
type Recommender interface {
	RecommendedEvents(ctx context.Context, userID string, limit int) ([]models.Event, error)
}

// NewRecommendations suggests upcoming events sharing tags with what the
// caller already booked or hyped.
func NewRecommendations(log *slog.Logger, recommender Recommender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.user.NewRecommendations"

		log := log.With(slog.String("op", op))

		user, ok := mwauth.UserFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("authentication required"))
			return
		}

		events, err := recommender.RecommendedEvents(r.Context(), user.ID, recommendationsLimit)
		if err != nil {
			log.Error("failed to build recommendations", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to build recommendations"))
			return
		}

		if events == nil {
			events = []models.Event{}
		}
		render.JSON(w, r, RecommendationsResponse{Response: response.OK(), Events: events})
	}
}
