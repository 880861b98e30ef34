package servergenerate

import (
	"log/slog"

	"github.com/amhafiz/timetabler/server/auth"
	"github.com/amhafiz/timetabler/timetable"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func PopulateGenerateRoutes(
	r *chi.Router,
	pool *pgxpool.Pool,
	store *timetable.ScheduleStore,
	logger *slog.Logger,
) {
	handler := generateHandler{
		dbPool: pool,
		store:  store,
		logger: logger,
	}

	// generation itself is open to anonymous visitors, history needs
	// an account
	(*r).With(auth.OptionalUser).Post("/", handler.postGenerate)
	(*r).Route("/history", func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Get("/", handler.getHistory)
		r.Post("/{historyID}", handler.postReuseHistory)
	})
}
