package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evently/internal/auth/google"
	"evently/internal/config"
	"evently/internal/http-server/handlers/admin"
	"evently/internal/http-server/handlers/booking"
	"evently/internal/http-server/handlers/calendar"
	"evently/internal/http-server/handlers/event"
	"evently/internal/http-server/handlers/hype"
	"evently/internal/http-server/handlers/organizer"
	"evently/internal/http-server/handlers/user"
	handlerswaitlist "evently/internal/http-server/handlers/waitlist"
	"evently/internal/http-server/handlers/watchlist"
	mwauth "evently/internal/http-server/middleware/auth"
	"evently/internal/http-server/middleware/mwlogger"
	"evently/internal/lib/logger/handlers/slogpretty"
	"evently/internal/lib/logger/sl"
	"evently/internal/storage/postgres"
	"evently/internal/waitlist"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const migrationsDir = "./migrations/postgres"

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting evently", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	storage, err := postgres.InitDB(&cfg.Database)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	if err = storage.MigrateUp(migrationsDir); err != nil {
		log.Error("failed to apply migrations", sl.Err(err))
		os.Exit(1)
	}

	verifier := google.New(cfg.Auth.ClientIDs)
	seatPolicy := waitlist.NoPromotion{}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Route("/api", func(r chi.Router) {
		// Public reads over published events.
		r.Get("/events", event.NewUpcoming(log, storage))
		r.Get("/events/past", event.NewPast(log, storage))
		r.Get("/events/trending", event.NewTrending(log, storage))
		r.Get("/events/bestselling", event.NewBestSelling(log, storage))
		r.Get("/events/search", event.NewSearch(log, storage))
		r.Get("/events/tags", event.NewTagCounts(log, storage))
		r.Get("/events/tag/{tag}", event.NewByTag(log, storage))
		r.Get("/events/{id}", event.NewGet(log, storage))
		r.Get("/organizations/{organizerName}", event.NewOrganization(log, storage))

		// Registration needs a verified token but no directory record yet.
		r.Group(func(r chi.Router) {
			r.Use(mwauth.Authenticate(log, verifier))
			r.Post("/users/register", user.NewRegister(log, storage))
		})

		r.Group(func(r chi.Router) {
			r.Use(mwauth.Authenticate(log, verifier))
			r.Use(mwauth.ResolveUser(log, storage))

			r.Get("/users/me", user.NewMe(log, storage))
			r.Get("/users/me/bookings", user.NewMyBookings(log, storage))
			r.Get("/users/me/waitlist", user.NewMyWaitlist(log, storage))
			r.Get("/users/me/hypes", user.NewMyHypes(log, storage))
			r.Get("/users/me/watchlist", user.NewMyWatchlist(log, storage))
			r.Get("/users/me/recommendations", user.NewRecommendations(log, storage))

			r.Post("/bookings", booking.NewCreate(log, storage))
			r.Delete("/bookings/{id}", booking.NewCancel(log, storage, seatPolicy))

			r.Post("/waitlist", handlerswaitlist.NewJoin(log, storage))

			r.Post("/events/{id}/hype", hype.NewAdd(log, storage))
			r.Delete("/events/{id}/hype", hype.NewRemove(log, storage))

			r.Post("/watchlist", watchlist.NewAdd(log, storage))
			r.Delete("/watchlist/{eventId}", watchlist.NewRemove(log, storage))

			r.Post("/organizer-requests", organizer.NewRequest(log, storage))

			r.Get("/calendar", calendar.NewList(log, storage))

			r.Group(func(r chi.Router) {
				r.Use(mwauth.RequireOrganizer)

				r.Get("/organizer/events", organizer.NewListEvents(log, storage))
				r.Post("/organizer/events", organizer.NewCreateEvent(log, storage))
				r.Put("/organizer/events/{id}", organizer.NewUpdateEvent(log, storage))
				r.Post("/organizer/events/{id}/submit", organizer.NewSubmitEvent(log, storage))

				r.Post("/calendar", calendar.NewCreate(log, storage))
				r.Put("/calendar/{id}", calendar.NewUpdate(log, storage))
				r.Delete("/calendar/{id}", calendar.NewDelete(log, storage))
			})

			r.Group(func(r chi.Router) {
				r.Use(mwauth.RequireAdmin)

				r.Get("/admin/stats", admin.NewStats(log, storage))
				r.Get("/admin/users", admin.NewListUsers(log, storage))
				r.Put("/admin/users/{id}/role", admin.NewUpdateUserRole(log, storage))

				r.Get("/admin/events", admin.NewListEvents(log, storage))
				r.Get("/admin/events/approvals", admin.NewListApprovals(log, storage))
				r.Post("/admin/events", admin.NewCreateEvent(log, storage))
				r.Put("/admin/events/{id}", admin.NewUpdateEvent(log, storage))
				r.Delete("/admin/events/{id}", admin.NewDeleteEvent(log, storage))
				r.Post("/admin/events/{id}/approve", admin.NewApproveEvent(log, storage))
				r.Post("/admin/events/{id}/reject", admin.NewRejectEvent(log, storage))
				r.Get("/admin/events/{id}/analytics", admin.NewEventAnalytics(log, storage))

				r.Get("/admin/organizer-requests", admin.NewListOrganizerRequests(log, storage))
				r.Post("/admin/organizer-requests/{id}/approve", admin.NewApproveOrganizerRequest(log, storage))
				r.Post("/admin/organizer-requests/{id}/reject", admin.NewRejectOrganizerRequest(log, storage))
			})
		})
	})

	log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)

	go func() {
		if err = srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			stop <- syscall.SIGTERM
		}
	}()

	sign := <-stop

	log.Info("application stopping", slog.String("signal", sign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = srv.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server", sl.Err(err))
	}

	log.Info("application stopped")

	if err = storage.Close(); err != nil {
		log.Error("failed to close postgres connection", sl.Err(err))
	}

	log.Info("postgres connection closed")
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
