// Package event is the public read surface over published events: upcoming,
// past, trending, best-selling, search, tag and organization views.
package event

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"evently/internal/lib/api/response"
	"evently/internal/lib/logger/sl"
	"evently/internal/models"
	"evently/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

const (
	defaultUpcomingLimit = 21
	trendingLimit        = 13
	bestSellingLimit     = 10
	searchLimit          = 10
	tagLimit             = 20
)

type EventsResponse struct {
	response.Response
	Events []models.Event `json:"events"`
}

type EventResponse struct {
	response.Response
	Event *models.Event `json:"event"`
}

func respondEvents(w http.ResponseWriter, r *http.Request, events []models.Event) {
	if events == nil {
		events = []models.Event{}
	}
	render.JSON(w, r, EventsResponse{Response: response.OK(), Events: events})
}

func respondListError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	log.Error("failed to list events", sl.Err(err))
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, response.Error("failed to list events"))
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=UpcomingLister
type UpcomingLister interface {
	UpcomingEvents(ctx context.Context, limit int) ([]models.Event, error)
}

// NewUpcoming lists published future events, featured first. The limit
// query parameter is optional.
func NewUpcoming(log *slog.Logger, lister UpcomingLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.NewUpcoming"

		log := log.With(slog.String("op", op))

		limit := defaultUpcomingLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}

		events, err := lister.UpcomingEvents(r.Context(), limit)
		if err != nil {
			respondListError(log, w, r, err)
			return
		}

		respondEvents(w, r, events)
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=PastLister
type PastLister interface {
	PastEvents(ctx context.Context) ([]models.Event, error)
}

func NewPast(log *slog.Logger, lister PastLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.NewPast"

		log := log.With(slog.String("op", op))

		events, err := lister.PastEvents(r.Context())
		if err != nil {
			respondListError(log, w, r, err)
			return
		}

		respondEvents(w, r, events)
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TrendingLister
type TrendingLister interface {
	TrendingEvents(ctx context.Context, limit int) ([]models.Event, error)
}

func NewTrending(log *slog.Logger, lister TrendingLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.NewTrending"

		log := log.With(slog.String("op", op))

		events, err := lister.TrendingEvents(r.Context(), trendingLimit)
		if err != nil {
			respondListError(log, w, r, err)
			return
		}

		respondEvents(w, r, events)
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=SellableLister
type SellableLister interface {
	SellableEvents(ctx context.Context) ([]models.Event, error)
}

// NewBestSelling ranks published future events by sold ratio. The sort is
// stable, so ties keep the date order of the underlying fetch.
func NewBestSelling(log *slog.Logger, lister SellableLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.NewBestSelling"

		log := log.With(slog.String("op", op))

		events, err := lister.SellableEvents(r.Context())
		if err != nil {
			respondListError(log, w, r, err)
			return
		}

		respondEvents(w, r, RankBySoldRatio(events, bestSellingLimit))
	}
}

// RankBySoldRatio orders events by fill rate descending and keeps the top n.
func RankBySoldRatio(events []models.Event, n int) []models.Event {
	ranked := make([]models.Event, len(events))
	copy(ranked, events)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SoldRatio() > ranked[j].SoldRatio()
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=Searcher
type Searcher interface {
	SearchEvents(ctx context.Context, q string, limit int) ([]models.Event, error)
}

// NewSearch matches published events on name, description, location and
// tags. An empty query yields an empty result, not an error.
func NewSearch(log *slog.Logger, searcher Searcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.NewSearch"

		log := log.With(slog.String("op", op))

		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			respondEvents(w, r, nil)
			return
		}

		events, err := searcher.SearchEvents(r.Context(), q, searchLimit)
		if err != nil {
			respondListError(log, w, r, err)
			return
		}

		respondEvents(w, r, events)
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=PublishedGetter
type PublishedGetter interface {
	GetPublishedEvent(ctx context.Context, id int) (*models.Event, error)
}

// NewGet returns one published event. Unpublished events are invisible to
// the public surface and read as not found.
func NewGet(log *slog.Logger, getter PublishedGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.NewGet"

		log := log.With(slog.String("op", op))

		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid event id"))
			return
		}

		event, err := getter.GetPublishedEvent(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrEventNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
				return
			}
			log.Error("failed to get event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get event"))
			return
		}

		render.JSON(w, r, EventResponse{Response: response.OK(), Event: event})
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TagLister
type TagLister interface {
	EventsByTag(ctx context.Context, tag string, limit int) ([]models.Event, error)
}

func NewByTag(log *slog.Logger, lister TagLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.NewByTag"

		log := log.With(slog.String("op", op))

		tag := chi.URLParam(r, "tag")
		if tag == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("tag is required"))
			return
		}

		events, err := lister.EventsByTag(r.Context(), tag, tagLimit)
		if err != nil {
			respondListError(log, w, r, err)
			return
		}

		respondEvents(w, r, events)
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TagCounter
type TagCounter interface {
	TagCounts(ctx context.Context) (map[string]int, error)
}

type TagCountsResponse struct {
	response.Response
	Counts map[string]int `json:"counts"`
}

func NewTagCounts(log *slog.Logger, counter TagCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.NewTagCounts"

		log := log.With(slog.String("op", op))

		counts, err := counter.TagCounts(r.Context())
		if err != nil {
			log.Error("failed to count tags", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to count tags"))
			return
		}

		render.JSON(w, r, TagCountsResponse{Response: response.OK(), Counts: counts})
	}
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=OrganizationLister
type OrganizationLister interface {
	OrganizationEvents(ctx context.Context, organizationName string) (*storage.OrganizationEvents, error)
}

type OrganizationResponse struct {
	response.Response
	*storage.OrganizationEvents
}

// NewOrganization serves the public page of one organization. URL slugs use
// dashes in place of spaces.
func NewOrganization(log *slog.Logger, lister OrganizationLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.NewOrganization"

		log := log.With(slog.String("op", op))

		name := strings.ReplaceAll(chi.URLParam(r, "organizerName"), "-", " ")
		if name == "" {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("organization name is required"))
			return
		}

		org, err := lister.OrganizationEvents(r.Context(), name)
		if err != nil {
			log.Error("failed to list organization events", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list organization events"))
			return
		}

		render.JSON(w, r, OrganizationResponse{Response: response.OK(), OrganizationEvents: org})
	}
}
