package serverpublic

import (
	"encoding/json"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/amhafiz/timetabler/data/db"
	"github.com/amhafiz/timetabler/server/views"
	"github.com/amhafiz/timetabler/timetable"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type publicHandler struct {
	dbPool *pgxpool.Pool
	store  *timetable.ScheduleStore
	logger *slog.Logger
}

// anyone can browse the completed timetables, there is nothing to
// modify here
func (h *publicHandler) getTimetables(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := db.New(h.dbPool)
	sources, err := q.ListCompletedTimetableSources(ctx)
	if err != nil {
		h.logger.Error("Could not get timetable sources", "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}

	resp, err := json.Marshal(sources)
	if err != nil {
		h.logger.Error("Could not marshal timetable sources", "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(resp)
}

// a source that does not exist or cannot be resolved is an empty list
// with a 200, the store never errors
func (h *publicHandler) getSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sourceID, err := strconv.ParseInt(chi.URLParam(r, "sourceID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid source id", http.StatusBadRequest)
		return
	}

	sessions := h.store.Get(ctx, sourceID)

	resp, err := json.Marshal(views.NewSessions(sessions))
	if err != nil {
		h.logger.Error("Could not marshal schedule", "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(resp)
}
