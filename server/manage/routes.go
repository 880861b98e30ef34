package servermanage

import (
	"io"
	"os"

	"log/slog"

	log "github.com/sirupsen/logrus"

	"github.com/amhafiz/timetabler/server/auth"
	"github.com/amhafiz/timetabler/timetable"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func PopulateManagementRoutes(
	r *chi.Router,
	pool *pgxpool.Pool,
	store *timetable.ScheduleStore,
	logger *slog.Logger,
) {
	hub := newLogHub()

	// ingest runs from the dashboard log to the terminal and to any
	// connected management websockets
	ingestLog := log.New()
	ingestLog.SetOutput(io.MultiWriter(os.Stderr, hub))

	handler := manageHandler{
		dbPool:   pool,
		store:    store,
		ingestor: timetable.NewIngestorWithLogger(pool, ingestLog),
		logger:   logger,
		hub:      hub,
	}

	(*r).Use(auth.RequireStaff)
	(*r).Get("/timetables", handler.getTimetables)
	(*r).Post("/timetables", handler.postTimetable)
	(*r).Put("/timetables/{sourceID}", handler.putTimetable)
	(*r).Delete("/timetables/{sourceID}", handler.deleteTimetable)
	(*r).Get("/logs/ws", handler.getLogsSocket)
}
