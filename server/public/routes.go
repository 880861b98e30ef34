package serverpublic

import (
	"log/slog"

	"github.com/amhafiz/timetabler/timetable"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func PopulatePublicRoutes(
	r *chi.Router,
	pool *pgxpool.Pool,
	store *timetable.ScheduleStore,
	logger *slog.Logger,
) {
	handler := publicHandler{
		dbPool: pool,
		store:  store,
		logger: logger,
	}

	(*r).Get("/", handler.getTimetables)
	(*r).Get("/{sourceID}/schedule", handler.getSchedule)
}
