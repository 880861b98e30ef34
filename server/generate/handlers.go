package servergenerate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/amhafiz/timetabler/data/db"
	"github.com/amhafiz/timetabler/server/auth"
	"github.com/amhafiz/timetabler/server/views"
	"github.com/amhafiz/timetabler/timetable"
	"github.com/amhafiz/timetabler/timetable/registration"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const maxUploadBytes = 10 << 20

const historyDisplayLimit = 5

type generateHandler struct {
	dbPool *pgxpool.Pool
	store  *timetable.ScheduleStore
	logger *slog.Logger
}

type generateResponse struct {
	views.Schedule
	SourceID       int64    `json:"source_id"`
	ProcessedCodes []string `json:"processed_codes"`
	RawCodes       []string `json:"raw_codes"`
}

// postGenerate is the main visitor operation: pick a source, hand over
// course codes typed or as a registration PDF, get back the bucketed
// week. Works for anonymous visitors, authenticated ones also get the
// submission saved to their history.
func (h *generateHandler) postGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		// manual-only submissions may come urlencoded
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form body", http.StatusBadRequest)
			return
		}
	}

	sourceID, err := strconv.ParseInt(r.FormValue("source_id"), 10, 64)
	if err != nil {
		http.Error(w, "Please select a timetable source.", http.StatusBadRequest)
		return
	}
	codesInput := r.FormValue("course_codes")
	program := r.FormValue("program")
	level := r.FormValue("level")

	var extraction *registration.Extraction
	if codesInput != "" {
		extraction = registration.ExtractManual(codesInput)
	} else {
		file, header, err := r.FormFile("course_reg_pdf")
		if err != nil {
			http.Error(
				w,
				"Please either upload your course registration PDF or enter course codes manually.",
				http.StatusBadRequest,
			)
			return
		}
		defer file.Close()

		extraction, err = registration.ExtractDocument(file, header.Size)
		if err != nil {
			h.logger.Warn("Could not process registration document", "err", err)
			http.Error(
				w,
				fmt.Sprintf("Could not process your PDF. Error: %v", err),
				http.StatusUnprocessableEntity,
			)
			return
		}
	}

	if len(extraction.Codes) == 0 {
		http.Error(
			w,
			"No course codes found. Please check if the input contains a valid course registration.",
			http.StatusUnprocessableEntity,
		)
		return
	}

	sessions := h.store.Get(ctx, sourceID)
	if len(sessions) == 0 {
		http.Error(
			w,
			"The selected timetable source is not available or the file is missing. Please contact the administrator or try a different timetable source.",
			http.StatusNotFound,
		)
		return
	}

	result := timetable.Match(sessions, extraction.Codes)

	if user, ok := auth.UserFromContext(ctx); ok {
		h.saveHistory(ctx, user, sourceID, extraction.Codes, program, level)
	}

	h.writeGenerateResponse(w, sourceID, result, extraction)
}

// postReuseHistory replays a saved registration against its source and
// advances last_used
func (h *generateHandler) postReuseHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	historyID, err := strconv.ParseInt(chi.URLParam(r, "historyID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid history id", http.StatusBadRequest)
		return
	}

	q := db.New(h.dbPool)
	history, err := q.GetCourseRegistrationHistory(ctx, db.GetCourseRegistrationHistoryParams{
		ID:     historyID,
		UserID: user.ID,
	})
	if err != nil {
		http.Error(w, "Course registration history not found.", http.StatusNotFound)
		return
	}

	var codes []string
	if err := json.Unmarshal([]byte(history.CourseCodes), &codes); err != nil {
		h.logger.Error("Could not decode stored history codes", "history", history.ID, "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}

	if err := q.TouchHistoryLastUsed(ctx, history.ID); err != nil {
		h.logger.Warn("Could not advance history last_used", "history", history.ID, "err", err)
	}

	sessions := h.store.Get(ctx, history.SourceID)
	if len(sessions) == 0 {
		http.Error(w, "The timetable source is no longer available.", http.StatusNotFound)
		return
	}

	codeSet := timetable.NewCodeSet(codes...)
	result := timetable.Match(sessions, codeSet)

	h.writeGenerateResponse(w, history.SourceID, result, &registration.Extraction{
		Codes:     codeSet,
		RawTokens: codes,
	})
}

func (h *generateHandler) getHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	q := db.New(h.dbPool)
	history, err := q.ListRecentHistoryForUser(ctx, user.ID, historyDisplayLimit)
	if err != nil {
		h.logger.Error("Could not list registration history", "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}

	resp, err := json.Marshal(history)
	if err != nil {
		h.logger.Error("Could not marshal registration history", "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(resp)
}

// history failures never block the generated timetable, they are only
// logged
func (h *generateHandler) saveHistory(
	ctx context.Context,
	user auth.AuthedUser,
	sourceID int64,
	codes timetable.CodeSet,
	program string,
	level string,
) {
	q := db.New(h.dbPool)
	source, err := q.GetTimetableSource(ctx, sourceID)
	if err != nil {
		h.logger.Warn("Could not load source for history", "source", sourceID, "err", err)
		return
	}

	sorted := codes.Sorted()
	codesJSON, err := json.Marshal(sorted)
	if err != nil {
		h.logger.Error("Could not encode history codes", "err", err)
		return
	}

	programPart := ""
	if program != "" {
		programPart = program + " "
	}
	levelPart := ""
	if level != "" {
		levelPart = "(" + level + ") "
	}
	displayName := fmt.Sprintf(
		"%s%s- %s - %d courses",
		programPart, levelPart, source.DisplayName, len(sorted),
	)

	_, err = q.UpsertCourseRegistrationHistory(ctx, db.UpsertCourseRegistrationHistoryParams{
		UserID:      user.ID,
		SourceID:    sourceID,
		CourseCodes: string(codesJSON),
		DisplayName: displayName,
		Program:     db.NullableText(program),
		Level:       db.NullableText(level),
	})
	if err != nil {
		h.logger.Warn("Could not save registration history", "err", err)
	}
}

func (h *generateHandler) writeGenerateResponse(
	w http.ResponseWriter,
	sourceID int64,
	result timetable.MatchResult,
	extraction *registration.Extraction,
) {
	resp, err := json.Marshal(generateResponse{
		Schedule:       views.NewSchedule(result),
		SourceID:       sourceID,
		ProcessedCodes: extraction.Codes.Sorted(),
		RawCodes:       extraction.RawTokens,
	})
	if err != nil {
		h.logger.Error("Could not marshal generate response", "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(resp)
}
