package api

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"log/slog"

	"github.com/amhafiz/timetabler/data"
	"github.com/amhafiz/timetabler/data/cache"
	"github.com/amhafiz/timetabler/data/db"
	logginghelpers "github.com/amhafiz/timetabler/data/logging-helpers"
	"github.com/amhafiz/timetabler/server/auth"
	servergenerate "github.com/amhafiz/timetabler/server/generate"
	servermanage "github.com/amhafiz/timetabler/server/manage"
	serverpublic "github.com/amhafiz/timetabler/server/public"
	"github.com/amhafiz/timetabler/timetable"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const defaultPort = 3000

func Serve() {
	r := chi.NewRouter()
	cors := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum age for preflight requests
	})
	r.Use(cors.Handler)
	r.Use(middleware.Logger)

	dbPool, err := data.NewPool(context.Background())
	if err != nil {
		slog.Error("Fatal cannot connect to main db", "err", err)
		return
	}

	// the multi handler keeps room for extra sinks, e.g. the management
	// log stream adding itself at runtime
	logger := slog.New(logginghelpers.NewMultiHandler(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logginghelpers.LevelIngestReport,
		}),
	))
	slog.SetDefault(logger)

	scheduleCache := cache.NewScheduleCache(cache.DefaultScheduleTTL)
	ingestor := timetable.NewIngestor(dbPool)
	store := timetable.NewScheduleStore(db.New(dbPool), ingestor, scheduleCache)

	authHandler := auth.Handler{DbPool: dbPool, Logger: logger}
	r.Post("/login", authHandler.Login)

	r.Route("/timetables", func(r chi.Router) {
		serverpublic.PopulatePublicRoutes(&r, dbPool, store, logger)
	})
	r.Route("/generate", func(r chi.Router) {
		// pdf extraction is the expensive request so it gets the limiter
		r.Use(perClientLimiter())
		servergenerate.PopulateGenerateRoutes(&r, dbPool, store, logger)
	})
	r.Route("/manage", func(r chi.Router) {
		servermanage.PopulateManagementRoutes(&r, dbPool, store, logger)
	})

	port := defaultPort
	if fromEnv := os.Getenv("PORT"); fromEnv != "" {
		fmt.Sscanf(fromEnv, "%d", &port)
	}
	slog.Info("Running server on", "port", port)
	http.ListenAndServe(fmt.Sprintf(":%d", port), r)
}
